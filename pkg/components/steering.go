package components

import (
	"github.com/decker502/musicalchairs/pkg/ecs"
	"github.com/go-gl/mathgl/mgl64"
)

// SteeringBehavior 当前激活的转向行为
type SteeringBehavior int

const (
	// SteeringNone 没有激活的行为
	SteeringNone SteeringBehavior = iota

	// SteeringOrbit 绕圈
	SteeringOrbit

	// SteeringSeekArrive 寻路到目标槽位后停下庆祝
	SteeringSeekArrive
)

// String 返回 SteeringBehavior 的字符串表示
func (b SteeringBehavior) String() string {
	switch b {
	case SteeringNone:
		return "None"
	case SteeringOrbit:
		return "Orbit"
	case SteeringSeekArrive:
		return "SeekArrive"
	default:
		return "Unknown"
	}
}

// SteeringComponent 机器人转向状态
//
// Behavior 是唯一的活动行为句柄，SteeringSystem 每帧只轮询一次。
// 行为切换只能通过 SteeringSystem.StartOrbit / StartSeek / StopBehavior，
// 切换时先清除旧行为的状态再安装新行为。
type SteeringComponent struct {
	Behavior SteeringBehavior

	// ========== 绕圈 ==========

	// OrbitAngle 累计角度（弧度）
	OrbitAngle float64

	// LastPosition 上一帧位置，用于计算朝向
	LastPosition mgl64.Vec3

	// ========== 寻路 ==========

	// TargetSlot 目标槽位实体
	TargetSlot ecs.EntityID

	// Target 目标位置
	Target mgl64.Vec3

	// Speed 当前速度，逐帧加速到上限
	Speed float64

	// Walking 是否已经开始播放行走动画
	Walking bool

	// Arrived 本回合是否已到达目标
	Arrived bool
}
