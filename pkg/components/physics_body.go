package components

import "github.com/go-gl/mathgl/mgl64"

// MotionType 物理体运动类型
type MotionType int

const (
	// MotionDynamic 动态刚体：由 PhysicsSystem 积分速度、施加重力并与场地碰撞
	MotionDynamic MotionType = iota

	// MotionKinematic 运动学刚体：位置由转向逻辑直接写入，PhysicsSystem 跳过积分
	MotionKinematic
)

// String 返回 MotionType 的字符串表示
func (m MotionType) String() string {
	switch m {
	case MotionDynamic:
		return "Dynamic"
	case MotionKinematic:
		return "Kinematic"
	default:
		return "Unknown"
	}
}

// PhysicsBodyComponent 角色的物理体（竖直胶囊体）
//
// 只能通过 PhysicsSystem 的方法修改速度和运动类型，
// 其他系统读取 LinearVelocity 以保持物理查询一致。
type PhysicsBodyComponent struct {
	// LinearVelocity 线速度（世界单位/秒）
	LinearVelocity mgl64.Vec3

	// AngularVelocity 角速度（弧度/秒），胶囊体只绕 Y 轴旋转
	AngularVelocity mgl64.Vec3

	// MotionType 运动类型
	MotionType MotionType

	// HalfHeight 胶囊体半高，落地时中心高度 = FloorY + HalfHeight
	HalfHeight float64

	// Radius 胶囊体半径，用于与四面墙的碰撞
	Radius float64

	// Grounded 本帧是否站在地面上
	Grounded bool

	// Teleported 本帧位置已被直接写入（绕圈模式），跳过水平积分
	// PhysicsSystem 处理后清除
	Teleported bool
}
