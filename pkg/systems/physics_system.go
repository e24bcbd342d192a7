package systems

import (
	"math"

	"github.com/decker502/musicalchairs/pkg/components"
	"github.com/decker502/musicalchairs/pkg/config"
	"github.com/decker502/musicalchairs/pkg/ecs"
	"github.com/go-gl/mathgl/mgl64"
)

// PhysicsSystem 角色物理
//
// 只处理竖直胶囊体与场地的关系：
//   - 动态刚体：积分速度、施加重力、落地（FloorY + 半高）、被四面墙挡住
//   - 运动学刚体：位置由转向逻辑直接写入，这里不做积分
//
// 其他系统通过本系统的方法读写速度和运动类型，不直接修改 PhysicsBodyComponent。
type PhysicsSystem struct {
	entityManager *ecs.EntityManager
	arena         config.ArenaConfig
}

// NewPhysicsSystem 创建物理系统
//
// 参数：
//   - em: 实体管理器
//   - arena: 场地配置（地面高度、半边长、重力）
//
// 返回：
//   - *PhysicsSystem: 物理系统实例
func NewPhysicsSystem(em *ecs.EntityManager, arena config.ArenaConfig) *PhysicsSystem {
	return &PhysicsSystem{
		entityManager: em,
		arena:         arena,
	}
}

func (s *PhysicsSystem) body(entityID ecs.EntityID) *components.PhysicsBodyComponent {
	body, ok := ecs.GetComponent[*components.PhysicsBodyComponent](s.entityManager, entityID)
	if !ok {
		return nil
	}
	return body
}

// LinearVelocity 读取线速度，实体没有物理体时返回零向量
func (s *PhysicsSystem) LinearVelocity(entityID ecs.EntityID) mgl64.Vec3 {
	if b := s.body(entityID); b != nil {
		return b.LinearVelocity
	}
	return mgl64.Vec3{}
}

// SetLinearVelocity 写入线速度
func (s *PhysicsSystem) SetLinearVelocity(entityID ecs.EntityID, v mgl64.Vec3) {
	if b := s.body(entityID); b != nil {
		b.LinearVelocity = v
	}
}

// SetAngularVelocity 写入角速度
func (s *PhysicsSystem) SetAngularVelocity(entityID ecs.EntityID, v mgl64.Vec3) {
	if b := s.body(entityID); b != nil {
		b.AngularVelocity = v
	}
}

// SetMotionType 切换运动类型
// 切换到运动学时清零速度，避免切回动态时残留漂移
func (s *PhysicsSystem) SetMotionType(entityID ecs.EntityID, mt components.MotionType) {
	b := s.body(entityID)
	if b == nil || b.MotionType == mt {
		return
	}
	b.MotionType = mt
	if mt == components.MotionKinematic {
		b.LinearVelocity = mgl64.Vec3{}
		b.AngularVelocity = mgl64.Vec3{}
	}
}

// Teleport 直接写入水平位置
//
// 本帧的水平积分会被跳过（竖直方向仍受重力影响），
// 用于绕圈模式：位置由角度算出，速度只用于保持物理查询一致。
func (s *PhysicsSystem) Teleport(entityID ecs.EntityID, x, z float64) {
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, entityID)
	if !ok {
		return
	}
	transform.Position[0] = x
	transform.Position[2] = z
	if b := s.body(entityID); b != nil {
		b.Teleported = true
	}
}

// Update 积分所有动态刚体
//
// 参数：
//   - deltaTime: 帧间隔（秒）
func (s *PhysicsSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith2[*components.TransformComponent, *components.PhysicsBodyComponent](s.entityManager)
	for _, id := range entities {
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		body, _ := ecs.GetComponent[*components.PhysicsBodyComponent](s.entityManager, id)

		if body.MotionType == components.MotionKinematic {
			body.Teleported = false
			continue
		}

		v := body.LinearVelocity
		pos := transform.Position

		v[1] += s.arena.Gravity * deltaTime

		if !body.Teleported {
			pos[0] += v.X() * deltaTime
			pos[2] += v.Z() * deltaTime
		}
		pos[1] += v.Y() * deltaTime

		// 地面
		floor := s.arena.FloorY + body.HalfHeight
		if pos[1] <= floor {
			pos[1] = floor
			if v[1] < 0 {
				v[1] = 0
			}
			body.Grounded = true
		} else {
			body.Grounded = false
		}

		// 四面墙
		limit := s.arena.HalfExtent - body.Radius
		if clamped := clamp(pos[0], -limit, limit); clamped != pos[0] {
			pos[0] = clamped
			v[0] = 0
		}
		if clamped := clamp(pos[2], -limit, limit); clamped != pos[2] {
			pos[2] = clamped
			v[2] = 0
		}

		transform.Position = pos
		body.LinearVelocity = v
		body.Teleported = false
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
