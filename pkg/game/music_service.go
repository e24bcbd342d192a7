package game

import "log"

// MusicService 背景音乐服务
//
// 回合协调器只通过这个接口控制音乐：开始、提前停止、查询状态，
// 以及注册一个"播放结束"回调。Update 每帧调用一次，用于检测自然播完。
//
// 实现约定：
//   - Stop 不触发 OnEnded 回调，提前停止由调用方自己处理
//   - 自然播完时回调只触发一次，回调在 Update 中同步执行
type MusicService interface {
	// Play 从头开始播放
	Play() error
	// Stop 停止播放
	Stop()
	// IsPlaying 是否正在播放
	IsPlaying() bool
	// OnEnded 设置自然播完时的回调，替换之前的回调
	OnEnded(callback func())
	// Update 推进内部状态，检测自然播完
	Update(deltaTime float64)
}

// SilentMusic 无声音乐服务
//
// 用于无界面模式和测试：按虚拟曲目时长计时，时长耗尽即视为自然播完。
// TrackLength <= 0 表示曲目无限长，只会被 Stop 结束。
type SilentMusic struct {
	TrackLength float64 // 虚拟曲目时长（秒）

	playing  bool
	position float64
	onEnded  func()

	// PlayCount 累计 Play 调用次数（测试用）
	PlayCount int
}

// NewSilentMusic 创建无声音乐服务
//
// 参数：
//   - trackLength: 虚拟曲目时长（秒），<= 0 表示无限长
func NewSilentMusic(trackLength float64) *SilentMusic {
	return &SilentMusic{TrackLength: trackLength}
}

// Play 从头开始播放
func (m *SilentMusic) Play() error {
	m.playing = true
	m.position = 0
	m.PlayCount++
	return nil
}

// Stop 停止播放，不触发回调
func (m *SilentMusic) Stop() {
	m.playing = false
}

// IsPlaying 是否正在播放
func (m *SilentMusic) IsPlaying() bool {
	return m.playing
}

// OnEnded 设置自然播完回调
func (m *SilentMusic) OnEnded(callback func()) {
	m.onEnded = callback
}

// Position 当前播放位置（秒）
func (m *SilentMusic) Position() float64 {
	return m.position
}

// Update 推进播放位置
func (m *SilentMusic) Update(deltaTime float64) {
	if !m.playing {
		return
	}
	m.position += deltaTime
	if m.TrackLength > 0 && m.position >= m.TrackLength {
		m.playing = false
		log.Printf("[SilentMusic] Track ended at %.2fs", m.position)
		if m.onEnded != nil {
			m.onEnded()
		}
	}
}
