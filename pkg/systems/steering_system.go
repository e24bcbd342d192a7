package systems

import (
	"log"
	"math"

	"github.com/decker502/musicalchairs/pkg/components"
	"github.com/decker502/musicalchairs/pkg/config"
	"github.com/decker502/musicalchairs/pkg/ecs"
	"github.com/go-gl/mathgl/mgl64"
)

// SteeringSystem 机器人转向
//
// 每个机器人只有一个活动行为句柄（SteeringComponent.Behavior），
// 每帧轮询一次。行为只由回合协调器通过 StartOrbit / StartSeek / StopBehavior 切换，
// 切换时先清除旧行为，保证同一角色同一帧只有一个写入者。
//
// 机器人的物理体是运动学刚体，位置直接写入 TransformComponent。
type SteeringSystem struct {
	entityManager *ecs.EntityManager
	physics       *PhysicsSystem
	animation     *AnimationSystem
	tuning        config.BotConfig

	// onArrived 到达目标时的回调
	onArrived func(entityID ecs.EntityID)

	verbose bool
}

// NewSteeringSystem 创建机器人转向系统
//
// 参数：
//   - em: 实体管理器
//   - physics: 物理系统
//   - animation: 动画系统
//   - tuning: 机器人参数
//
// 返回：
//   - *SteeringSystem: 系统实例
func NewSteeringSystem(em *ecs.EntityManager, physics *PhysicsSystem, animation *AnimationSystem, tuning config.BotConfig) *SteeringSystem {
	return &SteeringSystem{
		entityManager: em,
		physics:       physics,
		animation:     animation,
		tuning:        tuning,
	}
}

// SetVerbose 设置是否输出详细日志
func (s *SteeringSystem) SetVerbose(verbose bool) {
	s.verbose = verbose
}

// SetArrivalListener 设置到达回调，在到达那一帧同步调用
func (s *SteeringSystem) SetArrivalListener(listener func(entityID ecs.EntityID)) {
	s.onArrived = listener
}

func (s *SteeringSystem) lookup(id ecs.EntityID) (*components.ActorComponent, *components.SteeringComponent, *components.TransformComponent, bool) {
	actor, ok1 := ecs.GetComponent[*components.ActorComponent](s.entityManager, id)
	steer, ok2 := ecs.GetComponent[*components.SteeringComponent](s.entityManager, id)
	transform, ok3 := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
	return actor, steer, transform, ok1 && ok2 && ok3
}

// Behavior 返回当前行为
func (s *SteeringSystem) Behavior(id ecs.EntityID) components.SteeringBehavior {
	steer, ok := ecs.GetComponent[*components.SteeringComponent](s.entityManager, id)
	if !ok {
		return components.SteeringNone
	}
	return steer.Behavior
}

// StartOrbit 开始绕圈
//
// 角度从 0 开始，播放奔跑动画。
func (s *SteeringSystem) StartOrbit(id ecs.EntityID) {
	actor, steer, transform, ok := s.lookup(id)
	if !ok {
		return
	}
	s.clear(id, steer)

	steer.Behavior = components.SteeringOrbit
	steer.OrbitAngle = 0
	steer.LastPosition = transform.Position
	s.physics.SetMotionType(id, components.MotionKinematic)

	actor.State = components.LocomotionJogging
	s.animation.SetState(id, actor.ClipFor(components.LocomotionJogging), true)

	log.Printf("[SteeringSystem] Entity %d → Orbit", id)
}

// StartSeek 寻找最近的槽位并前往
//
// 目标是三维直线距离最近的槽位，距离相同时取注册顺序靠前的。
// 没有槽位时只停止当前行为。
//
// 返回：
//   - bool: 是否找到目标
func (s *SteeringSystem) StartSeek(id ecs.EntityID, slots []ecs.EntityID) bool {
	actor, steer, transform, ok := s.lookup(id)
	if !ok {
		return false
	}
	s.clear(id, steer)

	// 从绕圈退出时切回静止
	if actor.State == components.LocomotionJogging {
		actor.State = components.LocomotionIdle
		s.animation.SetState(id, actor.ClipFor(components.LocomotionIdle), true)
	}

	target, targetPos, found := nearestSlot(s.entityManager, transform.Position, slots)
	if !found {
		log.Printf("[SteeringSystem] Entity %d has no slot to seek", id)
		return false
	}

	steer.Behavior = components.SteeringSeekArrive
	steer.TargetSlot = target
	steer.Target = targetPos
	steer.Speed = 0
	steer.Walking = false
	steer.Arrived = false
	s.physics.SetMotionType(id, components.MotionKinematic)

	log.Printf("[SteeringSystem] Entity %d → Seek slot %d at (%.2f, %.2f, %.2f)",
		id, target, targetPos.X(), targetPos.Y(), targetPos.Z())
	return true
}

// StopBehavior 停止当前行为，速度清零
func (s *SteeringSystem) StopBehavior(id ecs.EntityID) {
	_, steer, _, ok := s.lookup(id)
	if !ok {
		return
	}
	s.clear(id, steer)
}

// clear 清除当前行为的全部状态
func (s *SteeringSystem) clear(id ecs.EntityID, steer *components.SteeringComponent) {
	steer.Behavior = components.SteeringNone
	steer.Speed = 0
	steer.Walking = false
	s.physics.SetLinearVelocity(id, mgl64.Vec3{})
	s.physics.SetAngularVelocity(id, mgl64.Vec3{})
}

// Update 推进所有机器人的当前行为
//
// 参数：
//   - deltaTime: 帧间隔（秒）
func (s *SteeringSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith3[*components.ActorComponent, *components.SteeringComponent, *components.TransformComponent](s.entityManager)
	for _, id := range entities {
		actor, _ := ecs.GetComponent[*components.ActorComponent](s.entityManager, id)
		steer, _ := ecs.GetComponent[*components.SteeringComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)

		switch steer.Behavior {
		case components.SteeringOrbit:
			s.updateOrbit(steer, transform, deltaTime)
		case components.SteeringSeekArrive:
			s.updateSeek(id, actor, steer, transform, deltaTime)
		}
	}
}

// updateOrbit 绕圈：位置直接由角度计算，朝向跟随本帧位移
func (s *SteeringSystem) updateOrbit(steer *components.SteeringComponent, transform *components.TransformComponent, deltaTime float64) {
	orbit := s.tuning.Orbit
	steer.OrbitAngle += orbit.AngularSpeed * deltaTime

	previous := transform.Position
	transform.Position = mgl64.Vec3{
		orbit.Center.X + math.Cos(steer.OrbitAngle)*orbit.Radius,
		orbit.Center.Y,
		orbit.Center.Z + math.Sin(steer.OrbitAngle)*orbit.Radius,
	}
	steer.LastPosition = previous

	delta := transform.Position.Sub(previous)
	delta[1] = 0
	if delta.Len() > s.tuning.FacingEpsilon {
		transform.Facing = delta.Normalize()
	}
}

// updateSeek 寻路：加速前往目标，距离足够近时停下庆祝
func (s *SteeringSystem) updateSeek(id ecs.EntityID, actor *components.ActorComponent, steer *components.SteeringComponent,
	transform *components.TransformComponent, deltaTime float64) {

	seek := s.tuning.Seek
	toTarget := steer.Target.Sub(transform.Position)
	distance := toTarget.Len()

	if distance > seek.ArriveDistance {
		dir := toTarget.Mul(1 / distance)

		steer.Speed = math.Min(steer.Speed+seek.Acceleration*deltaTime, seek.MaxSpeed)
		transform.Position = transform.Position.Add(dir.Mul(steer.Speed * deltaTime))

		flat := mgl64.Vec3{dir.X(), 0, dir.Z()}
		if flat.Len() > s.tuning.FacingEpsilon {
			transform.Facing = flat.Normalize()
		}

		if !steer.Walking {
			actor.State = components.LocomotionWalking
			s.animation.SetState(id, actor.ClipFor(components.LocomotionWalking), true)
			steer.Walking = true
		}

		if s.verbose {
			log.Printf("[SteeringSystem] Entity %d seeking: distance=%.3f speed=%.3f", id, distance, steer.Speed)
		}
		return
	}

	s.arrive(id, actor, steer, transform)
}

// arrive 到达目标：停止行为，切回静止，固定高度，播放一次庆祝动画
func (s *SteeringSystem) arrive(id ecs.EntityID, actor *components.ActorComponent, steer *components.SteeringComponent, transform *components.TransformComponent) {
	s.clear(id, steer)
	steer.Arrived = true

	s.animation.Stop(id)
	actor.State = components.LocomotionIdle
	s.animation.SetState(id, actor.ClipFor(components.LocomotionIdle), true)

	transform.Position[1] = s.tuning.Seek.ArrivedHeight

	actor.State = components.LocomotionCelebrating
	s.animation.SetState(id, actor.ClipFor(components.LocomotionCelebrating), false)

	log.Printf("[SteeringSystem] Entity %d arrived at slot %d, celebrating", id, steer.TargetSlot)

	if s.onArrived != nil {
		s.onArrived(id)
	}
}

// nearestSlot 返回距离 from 最近的槽位，距离相同取先注册的
func nearestSlot(em *ecs.EntityManager, from mgl64.Vec3, slots []ecs.EntityID) (ecs.EntityID, mgl64.Vec3, bool) {
	var (
		best     ecs.EntityID
		bestPos  mgl64.Vec3
		bestDist = math.Inf(1)
		found    bool
	)
	for _, id := range slots {
		slot, ok := ecs.GetComponent[*components.SlotComponent](em, id)
		if !ok {
			continue
		}
		d := slot.Position.Sub(from).Len()
		if d < bestDist {
			best, bestPos, bestDist, found = id, slot.Position, d, true
		}
	}
	return best, bestPos, found
}
