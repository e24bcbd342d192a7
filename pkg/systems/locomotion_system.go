package systems

import (
	"log"
	"math"

	"github.com/decker502/musicalchairs/pkg/components"
	"github.com/decker502/musicalchairs/pkg/config"
	"github.com/decker502/musicalchairs/pkg/ecs"
	"github.com/decker502/musicalchairs/pkg/game"
	"github.com/go-gl/mathgl/mgl64"
)

// directionKeys 方向键（绕圈模式下按下任意一个即取消绕圈）
var directionKeys = []game.Key{game.KeyForward, game.KeyBack, game.KeyLeft, game.KeyRight}

// LocomotionSystem 玩家移动控制
//
// 职责：
//   - 普通模式：按键设置各轴目标速度，松开后指数衰减，写入物理体（保留竖直速度）
//   - 根据平面速度是否超过阈值切换奔跑/静止动画（仅在状态变化时切换）
//   - 绕圈模式：按角度直接计算位置，切线方向速度写入物理体
//
// 只控制带 LocomotionComponent 的实体（玩家）。
type LocomotionSystem struct {
	entityManager *ecs.EntityManager
	physics       *PhysicsSystem
	animation     *AnimationSystem
	tuning        config.PlayerConfig

	verbose bool
}

// NewLocomotionSystem 创建玩家移动系统
//
// 参数：
//   - em: 实体管理器
//   - physics: 物理系统（读写刚体速度）
//   - animation: 动画系统
//   - tuning: 玩家移动参数
//
// 返回：
//   - *LocomotionSystem: 系统实例
func NewLocomotionSystem(em *ecs.EntityManager, physics *PhysicsSystem, animation *AnimationSystem, tuning config.PlayerConfig) *LocomotionSystem {
	return &LocomotionSystem{
		entityManager: em,
		physics:       physics,
		animation:     animation,
		tuning:        tuning,
	}
}

// SetVerbose 设置是否输出详细日志
func (s *LocomotionSystem) SetVerbose(verbose bool) {
	s.verbose = verbose
}

// Update 根据本帧输入更新所有玩家实体
//
// 参数：
//   - deltaTime: 帧间隔（秒）
//   - input: 本帧输入快照
func (s *LocomotionSystem) Update(deltaTime float64, input game.InputSnapshot) {
	entities := ecs.GetEntitiesWith3[*components.ActorComponent, *components.LocomotionComponent, *components.TransformComponent](s.entityManager)
	for _, id := range entities {
		actor, _ := ecs.GetComponent[*components.ActorComponent](s.entityManager, id)
		loco, _ := ecs.GetComponent[*components.LocomotionComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)

		if loco.Jogging {
			if input.AnyHeld(directionKeys...) {
				s.StopJog(id)
				continue
			}
			s.updateJog(id, loco, transform, deltaTime)
			continue
		}

		if input.IsHeld(game.KeyJog) {
			s.StartJog(id)
			continue
		}

		s.updateDirect(id, actor, loco, transform, input, deltaTime)
	}
}

// updateDirect 普通模式：各轴独立的速度控制
func (s *LocomotionSystem) updateDirect(id ecs.EntityID, actor *components.ActorComponent, loco *components.LocomotionComponent,
	transform *components.TransformComponent, input game.InputSnapshot, deltaTime float64) {

	speed := s.tuning.RunningSpeed

	switch {
	case input.IsHeld(game.KeyLeft):
		loco.SpeedX = -speed
	case input.IsHeld(game.KeyRight):
		loco.SpeedX = speed
	default:
		loco.SpeedX += -s.tuning.Damping * loco.SpeedX * deltaTime
	}

	switch {
	case input.IsHeld(game.KeyForward):
		loco.SpeedZ = speed
	case input.IsHeld(game.KeyBack):
		loco.SpeedZ = -speed
	default:
		loco.SpeedZ += -s.tuning.Damping * loco.SpeedZ * deltaTime
	}

	current := s.physics.LinearVelocity(id)
	s.physics.SetLinearVelocity(id, mgl64.Vec3{loco.SpeedX, current.Y(), loco.SpeedZ})

	planar := mgl64.Vec3{loco.SpeedX, 0, loco.SpeedZ}
	if planar.Len() > s.tuning.RunThreshold {
		transform.Facing = planar.Normalize()
		if actor.State != components.LocomotionRunning {
			s.changeState(id, actor, components.LocomotionRunning)
		}
		return
	}

	if actor.State != components.LocomotionIdle {
		s.changeState(id, actor, components.LocomotionIdle)
	}
}

// StartJog 进入绕圈模式
// 已经在绕圈时什么都不做
func (s *LocomotionSystem) StartJog(id ecs.EntityID) {
	loco, ok := ecs.GetComponent[*components.LocomotionComponent](s.entityManager, id)
	if !ok || loco.Jogging {
		return
	}
	actor, ok := ecs.GetComponent[*components.ActorComponent](s.entityManager, id)
	if !ok {
		return
	}

	loco.Jogging = true
	loco.JogAngle = 0
	s.changeState(id, actor, components.LocomotionJogging)

	log.Printf("[LocomotionSystem] Entity %d started jogging (radius %.2f)", id, s.tuning.Jog.Radius)
}

// StopJog 退出绕圈模式
//
// 线速度和角速度清零，动画切回静止，
// 各轴目标速度也清零，避免恢复普通控制时残留漂移。
func (s *LocomotionSystem) StopJog(id ecs.EntityID) {
	loco, ok := ecs.GetComponent[*components.LocomotionComponent](s.entityManager, id)
	if !ok || !loco.Jogging {
		return
	}
	actor, ok := ecs.GetComponent[*components.ActorComponent](s.entityManager, id)
	if !ok {
		return
	}

	loco.Jogging = false
	loco.SpeedX = 0
	loco.SpeedZ = 0
	s.physics.SetLinearVelocity(id, mgl64.Vec3{})
	s.physics.SetAngularVelocity(id, mgl64.Vec3{})
	s.changeState(id, actor, components.LocomotionIdle)

	log.Printf("[LocomotionSystem] Entity %d stopped jogging", id)
}

// updateJog 绕圈模式：位置由累计角度计算，速度沿切线
func (s *LocomotionSystem) updateJog(id ecs.EntityID, loco *components.LocomotionComponent, transform *components.TransformComponent, deltaTime float64) {
	orbit := s.tuning.Jog
	loco.JogAngle += orbit.AngularSpeed * deltaTime

	x := orbit.Center.X + math.Cos(loco.JogAngle)*orbit.Radius
	z := orbit.Center.Z + math.Sin(loco.JogAngle)*orbit.Radius
	s.physics.Teleport(id, x, z)

	tangent := mgl64.Vec3{-math.Sin(loco.JogAngle), 0, math.Cos(loco.JogAngle)}
	current := s.physics.LinearVelocity(id)
	v := tangent.Mul(s.tuning.RunningSpeed)
	s.physics.SetLinearVelocity(id, mgl64.Vec3{v.X(), current.Y(), v.Z()})
	transform.Facing = tangent

	if s.verbose {
		log.Printf("[LocomotionSystem] Jog angle=%.3f pos=(%.2f, %.2f)", loco.JogAngle, x, z)
	}
}

// changeState 切换移动状态并播放对应动画
func (s *LocomotionSystem) changeState(id ecs.EntityID, actor *components.ActorComponent, state components.LocomotionState) {
	actor.State = state
	s.animation.SetState(id, actor.ClipFor(state), true)
}
