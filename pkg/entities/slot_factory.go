package entities

import (
	"fmt"
	"log"

	"github.com/decker502/musicalchairs/pkg/components"
	"github.com/decker502/musicalchairs/pkg/config"
	"github.com/decker502/musicalchairs/pkg/ecs"
	"github.com/go-gl/mathgl/mgl64"
)

// NewSlotEntity 创建单个槽位实体
//
// 参数:
//   - em: 实体管理器
//   - index: 注册顺序
//   - position: 判定框中心
//   - layout: 判定半径来源
//
// 返回:
//   - ecs.EntityID: 创建的实体ID
func NewSlotEntity(em *ecs.EntityManager, index int, position mgl64.Vec3, layout config.SlotLayoutConfig) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.SlotComponent{
		Index:            index,
		Position:         position,
		HorizontalRadius: layout.HorizontalRadius,
		VerticalRadius:   layout.VerticalRadius,
		Occupant:         components.ActorNone,
	})
	return id
}

// NewSlotEntities 按五边形布局创建全部槽位
//
// 槽位在场地构建时创建一次，之后位置不再改变。
//
// 参数:
//   - em: 实体管理器
//   - layout: 槽位布局
//
// 返回:
//   - []ecs.EntityID: 按注册顺序排列的槽位实体
//   - error: 参数无效时返回错误
func NewSlotEntities(em *ecs.EntityManager, layout config.SlotLayoutConfig) ([]ecs.EntityID, error) {
	if em == nil {
		return nil, fmt.Errorf("entity manager cannot be nil")
	}

	positions := config.PentagonSlots(layout)
	ids := make([]ecs.EntityID, 0, len(positions))
	for i, pos := range positions {
		ids = append(ids, NewSlotEntity(em, i, pos, layout))
	}

	log.Printf("[SlotFactory] Created %d slots (radius %.2f)", len(ids), layout.Radius)
	return ids, nil
}
