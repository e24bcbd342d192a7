package systems

import (
	"log"

	"github.com/decker502/musicalchairs/pkg/components"
	"github.com/decker502/musicalchairs/pkg/ecs"
)

// AnimationSystem 角色动画状态机
//
// 职责：
//   - 保证每个角色同一时刻最多一个活动片段（切换时先停掉全部再启动）
//   - 推进片段播放时间，非循环片段播完后标记 IsFinished 并停止
//   - 请求的片段不存在时静默忽略（只记录一次日志）
type AnimationSystem struct {
	entityManager *ecs.EntityManager

	// missingLogged 已记录过的缺失片段，避免每帧刷屏
	missingLogged map[string]bool
}

// NewAnimationSystem 创建动画系统
//
// 参数：
//   - em: 实体管理器
//
// 返回：
//   - *AnimationSystem: 动画系统实例
func NewAnimationSystem(em *ecs.EntityManager) *AnimationSystem {
	return &AnimationSystem{
		entityManager: em,
		missingLogged: make(map[string]bool),
	}
}

// SetState 切换到指定片段
//
// 先停止实体上所有正在播放的片段，再从头启动请求的片段。
// 片段不在动画集合中（或实体没有动画组件）时什么都不做，
// 当前片段继续播放。
//
// 参数：
//   - entityID: 角色实体
//   - clip: 片段名
//   - looping: 是否循环
//
// 返回：
//   - bool: 是否成功启动
func (s *AnimationSystem) SetState(entityID ecs.EntityID, clip string, looping bool) bool {
	anim, ok := ecs.GetComponent[*components.AnimationComponent](s.entityManager, entityID)
	if !ok {
		return false
	}
	if _, exists := anim.Clips[clip]; !exists {
		if !s.missingLogged[clip] {
			log.Printf("[AnimationSystem] Clip %q not found on entity %d, ignoring", clip, entityID)
			s.missingLogged[clip] = true
		}
		return false
	}

	s.stopAll(anim)

	anim.Current = clip
	anim.IsPlaying = true
	anim.IsLooping = looping
	anim.Elapsed = 0
	anim.IsFinished = false
	if anim.StartCounts == nil {
		anim.StartCounts = make(map[string]int)
	}
	anim.StartCounts[clip]++
	return true
}

// Stop 停止实体上的全部片段，不启动替代片段
func (s *AnimationSystem) Stop(entityID ecs.EntityID) {
	anim, ok := ecs.GetComponent[*components.AnimationComponent](s.entityManager, entityID)
	if !ok {
		return
	}
	s.stopAll(anim)
}

func (s *AnimationSystem) stopAll(anim *components.AnimationComponent) {
	anim.Current = ""
	anim.IsPlaying = false
	anim.Elapsed = 0
}

// Update 推进所有正在播放的片段
//
// 参数：
//   - deltaTime: 帧间隔（秒）
func (s *AnimationSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.AnimationComponent](s.entityManager) {
		anim, _ := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id)
		if !anim.IsPlaying {
			continue
		}

		anim.Elapsed += deltaTime
		duration := anim.Clips[anim.Current]
		if duration <= 0 {
			continue
		}

		if anim.IsLooping {
			for anim.Elapsed >= duration {
				anim.Elapsed -= duration
			}
			continue
		}

		if anim.Elapsed >= duration {
			// 非循环片段停在最后一帧
			anim.Elapsed = duration
			anim.IsPlaying = false
			anim.IsFinished = true
		}
	}
}

// Current 返回实体当前片段名，没有活动片段时返回空字符串
func (s *AnimationSystem) Current(entityID ecs.EntityID) string {
	anim, ok := ecs.GetComponent[*components.AnimationComponent](s.entityManager, entityID)
	if !ok || !anim.IsPlaying {
		return ""
	}
	return anim.Current
}

// IsPlaying 指定片段是否正在播放
func (s *AnimationSystem) IsPlaying(entityID ecs.EntityID, clip string) bool {
	anim, ok := ecs.GetComponent[*components.AnimationComponent](s.entityManager, entityID)
	if !ok {
		return false
	}
	return anim.IsPlaying && anim.Current == clip
}

// IsFinished 非循环片段是否已经播完
func (s *AnimationSystem) IsFinished(entityID ecs.EntityID) bool {
	anim, ok := ecs.GetComponent[*components.AnimationComponent](s.entityManager, entityID)
	if !ok {
		return false
	}
	return anim.IsFinished
}

// StartCount 返回片段累计启动次数
func (s *AnimationSystem) StartCount(entityID ecs.EntityID, clip string) int {
	anim, ok := ecs.GetComponent[*components.AnimationComponent](s.entityManager, entityID)
	if !ok {
		return 0
	}
	return anim.StartCounts[clip]
}
