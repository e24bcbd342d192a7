package components

import "github.com/go-gl/mathgl/mgl64"

// SlotComponent 可占领的槽位（"椅子"）
//
// 槽位位置在场地构建时确定，之后不再移动。
// 一回合内 Occupant 一旦不为 ActorNone 就不可再改变，直到槽位被重置。
type SlotComponent struct {
	// Index 注册顺序（0-based），同时决定判定顺序
	Index int

	// Position 判定框中心
	Position mgl64.Vec3

	// HorizontalRadius 水平距离阈值（严格小于）
	HorizontalRadius float64

	// VerticalRadius 竖直距离阈值（严格小于）
	VerticalRadius float64

	// Occupant 占领者
	Occupant ActorIdentity

	// CapturedAt 被占领时的模拟时间（秒），未占领时为 0
	CapturedAt float64
}
