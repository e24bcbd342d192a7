package entities

import (
	"fmt"
	"log"

	"github.com/decker502/musicalchairs/pkg/components"
	"github.com/decker502/musicalchairs/pkg/config"
	"github.com/decker502/musicalchairs/pkg/ecs"
	"github.com/go-gl/mathgl/mgl64"
)

// NewPlayerEntity 创建玩家角色实体（Boy）
//
// 玩家是动态刚体，由 LocomotionSystem 写入速度，由 PhysicsSystem 积分。
//
// 参数:
//   - em: 实体管理器
//   - tuning: 数值配置
//
// 返回:
//   - ecs.EntityID: 创建的实体ID
//   - error: 参数无效时返回错误
func NewPlayerEntity(em *ecs.EntityManager, tuning *config.TuningConfig) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if tuning == nil {
		return 0, fmt.Errorf("tuning config cannot be nil")
	}

	start := tuning.Player.Start.Vec()
	id := newActor(em, tuning, components.ActorBoy, start, tuning.Animations.Player, components.MotionDynamic)
	ecs.AddComponent(em, id, &components.LocomotionComponent{})

	log.Printf("[ActorFactory] Created player (ID: %d) at (%.2f, %.2f, %.2f)", id, start.X(), start.Y(), start.Z())
	return id, nil
}

// NewBotEntity 创建机器人角色实体（Girl）
//
// 机器人是运动学刚体，位置由 SteeringSystem 直接写入。
//
// 参数:
//   - em: 实体管理器
//   - tuning: 数值配置
//
// 返回:
//   - ecs.EntityID: 创建的实体ID
//   - error: 参数无效时返回错误
func NewBotEntity(em *ecs.EntityManager, tuning *config.TuningConfig) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if tuning == nil {
		return 0, fmt.Errorf("tuning config cannot be nil")
	}

	start := tuning.Bot.Start.Vec()
	id := newActor(em, tuning, components.ActorGirl, start, tuning.Animations.Bot, components.MotionKinematic)
	ecs.AddComponent(em, id, &components.SteeringComponent{
		Behavior:     components.SteeringNone,
		LastPosition: start,
	})

	log.Printf("[ActorFactory] Created bot (ID: %d) at (%.2f, %.2f, %.2f)", id, start.X(), start.Y(), start.Z())
	return id, nil
}

func newActor(em *ecs.EntityManager, tuning *config.TuningConfig, identity components.ActorIdentity,
	start mgl64.Vec3, set config.AnimationSetConfig, motion components.MotionType) ecs.EntityID {

	id := em.CreateEntity()

	ecs.AddComponent(em, id, &components.ActorComponent{
		Identity:      identity,
		State:         components.LocomotionIdle,
		StartPosition: start,
		Animations:    set,
	})
	ecs.AddComponent(em, id, &components.TransformComponent{
		Position: start,
		Facing:   mgl64.Vec3{0, 0, 1},
	})
	ecs.AddComponent(em, id, &components.PhysicsBodyComponent{
		MotionType: motion,
		HalfHeight: tuning.Actor.Height / 2,
		Radius:     tuning.Actor.Radius,
	})

	clips := make(map[string]float64, len(set.Clips))
	for name, duration := range set.Clips {
		clips[name] = duration
	}
	anim := &components.AnimationComponent{
		Clips:       clips,
		StartCounts: make(map[string]int),
	}
	// 初始播放静止动画
	if _, ok := clips[set.Idle]; ok {
		anim.Current = set.Idle
		anim.IsPlaying = true
		anim.IsLooping = true
		anim.StartCounts[set.Idle] = 1
	}
	ecs.AddComponent(em, id, anim)

	return id
}
