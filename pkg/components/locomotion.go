package components

// LocomotionComponent 玩家移动控制状态
//
// 横向（X）和纵向（Z）两个轴的速度相互独立；
// 松开按键后各轴以指数衰减回到静止。
type LocomotionComponent struct {
	// SpeedX 横向目标速度（+X 为右）
	SpeedX float64

	// SpeedZ 纵向目标速度（+Z 为前）
	SpeedZ float64

	// Jogging 是否处于绕圈慢跑模式
	Jogging bool

	// JogAngle 绕圈模式下累计的角度（弧度）
	JogAngle float64
}
