package config

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PentagonSlots 计算槽位中心坐标
//
// 槽位均匀分布在以原点为圆心、半径为 layout.Radius 的圆上，
// 第 i 个槽位的角度为 i·2π/Count，因此 0 号槽位总在 +X 轴上。
//
// 参数:
//   - layout: 槽位布局配置
//
// 返回:
//   - []mgl64.Vec3: 按注册顺序排列的槽位中心
func PentagonSlots(layout SlotLayoutConfig) []mgl64.Vec3 {
	if layout.Count <= 0 {
		return nil
	}

	step := 2 * math.Pi / float64(layout.Count)
	positions := make([]mgl64.Vec3, 0, layout.Count)
	for i := 0; i < layout.Count; i++ {
		angle := float64(i) * step
		positions = append(positions, mgl64.Vec3{
			math.Cos(angle) * layout.Radius,
			layout.Height,
			math.Sin(angle) * layout.Radius,
		})
	}
	return positions
}
