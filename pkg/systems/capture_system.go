package systems

import (
	"log"
	"math"

	"github.com/decker502/musicalchairs/pkg/components"
	"github.com/decker502/musicalchairs/pkg/ecs"
)

// CaptureListener 槽位被占领时的回调
type CaptureListener func(slot *components.SlotComponent, occupant components.ActorIdentity)

// CaptureSystem 槽位占领判定
//
// 判定规则：
//   - 只有 enabled 为 true 时才判定
//   - 角色按注册顺序依次判定（玩家先于机器人）
//   - 槽位按注册顺序遍历，第一个水平距离 < 阈值且竖直距离 < 阈值的槽位结束本角色的遍历
//   - 该槽位为空时写入占领者；已被占领时不改写，也不尝试后面的槽位
//
// 先查后写在同一个循环里完成，不会重入，所以同一帧两个角色争抢同一槽位时先判定的角色获胜。
type CaptureSystem struct {
	entityManager *ecs.EntityManager
	enabled       bool
	clock         float64

	onCapture CaptureListener
}

// NewCaptureSystem 创建占领判定系统（默认关闭）
func NewCaptureSystem(em *ecs.EntityManager) *CaptureSystem {
	return &CaptureSystem{entityManager: em}
}

// SetEnabled 打开或关闭占领判定
func (s *CaptureSystem) SetEnabled(enabled bool) {
	if s.enabled != enabled {
		log.Printf("[CaptureSystem] Capture enabled: %v", enabled)
	}
	s.enabled = enabled
}

// Enabled 占领判定是否打开
func (s *CaptureSystem) Enabled() bool {
	return s.enabled
}

// SetCaptureListener 设置占领回调
func (s *CaptureSystem) SetCaptureListener(listener CaptureListener) {
	s.onCapture = listener
}

// Slots 按注册顺序返回所有槽位实体
func (s *CaptureSystem) Slots() []ecs.EntityID {
	return ecs.GetEntitiesWith1[*components.SlotComponent](s.entityManager)
}

// Update 判定本帧的占领
//
// 参数：
//   - deltaTime: 帧间隔（秒），用于记录占领时间
func (s *CaptureSystem) Update(deltaTime float64) {
	s.clock += deltaTime
	if !s.enabled {
		return
	}

	slots := s.Slots()
	if len(slots) == 0 {
		return
	}

	actors := ecs.GetEntitiesWith2[*components.ActorComponent, *components.TransformComponent](s.entityManager)
	for _, actorID := range actors {
		actor, _ := ecs.GetComponent[*components.ActorComponent](s.entityManager, actorID)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, actorID)
		s.Resolve(actor.Identity, transform.Position.X(), transform.Position.Y(), transform.Position.Z(), slots)
	}
}

// Resolve 对单个角色位置执行一次判定
//
// 参数：
//   - who: 角色身份
//   - x, y, z: 角色位置
//   - slots: 按注册顺序排列的槽位
//
// 返回：
//   - bool: 本次是否占领了新槽位
func (s *CaptureSystem) Resolve(who components.ActorIdentity, x, y, z float64, slots []ecs.EntityID) bool {
	if !s.enabled || who == components.ActorNone {
		return false
	}

	for _, id := range slots {
		slot, ok := ecs.GetComponent[*components.SlotComponent](s.entityManager, id)
		if !ok {
			continue
		}

		horizontal := math.Hypot(x-slot.Position.X(), z-slot.Position.Z())
		vertical := math.Abs(y - slot.Position.Y())
		if horizontal >= slot.HorizontalRadius || vertical >= slot.VerticalRadius {
			continue
		}

		if slot.Occupant != components.ActorNone {
			return false
		}

		slot.Occupant = who
		slot.CapturedAt = s.clock
		log.Printf("[CaptureSystem] Slot %d captured by %s at %.2fs", slot.Index, who, s.clock)
		if s.onCapture != nil {
			s.onCapture(slot, who)
		}
		return true
	}
	return false
}

// Scores 根据当前占领情况统计分数
func (s *CaptureSystem) Scores() (boy, girl int) {
	for _, id := range s.Slots() {
		slot, _ := ecs.GetComponent[*components.SlotComponent](s.entityManager, id)
		switch slot.Occupant {
		case components.ActorBoy:
			boy++
		case components.ActorGirl:
			girl++
		}
	}
	return boy, girl
}

// ResetSlots 清空所有槽位的占领者
func (s *CaptureSystem) ResetSlots() {
	for _, id := range s.Slots() {
		slot, _ := ecs.GetComponent[*components.SlotComponent](s.entityManager, id)
		slot.Occupant = components.ActorNone
		slot.CapturedAt = 0
	}
	log.Printf("[CaptureSystem] All slots reset")
}
