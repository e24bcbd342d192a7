package game

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// MusicTrack 可被播放器读取的有限 PCM 音轨
type MusicTrack interface {
	io.ReadSeeker
	Length() int64
	Duration() time.Duration
}

// AudioManager 音频管理器
// 职责：
//   - 播放回合背景音乐（单曲，不循环）
//   - 实现 MusicService：播放、停止、自然播完回调
//   - 从 SettingsManager 读取音量和开关
//
// 音乐开关只控制是否静音，不影响回合计时：静音时音轨照常推进，自然播完仍会触发回调。
type AudioManager struct {
	settingsManager *SettingsManager // 设置管理器（用于读取音量设置，可为 nil）
	player          *audio.Player    // 回合音乐播放器
	duration        time.Duration    // 音轨时长
	playing         bool             // 逻辑上是否在播放（Play 之后、Stop 或播完之前）
	onEnded         func()           // 自然播完回调
}

// endTolerance 播放位置距离末尾小于该值视为播完
const endTolerance = 50 * time.Millisecond

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: ebiten 音频上下文
//   - track: 回合音乐（采样率必须与 ctx 一致）
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
//
// 返回：
//   - *AudioManager: 音频管理器实例
//   - error: 创建播放器失败时返回错误
func NewAudioManager(ctx *audio.Context, track MusicTrack, sm *SettingsManager) (*AudioManager, error) {
	if ctx == nil || track == nil {
		return nil, fmt.Errorf("audio context and track are required")
	}

	player, err := ctx.NewPlayer(track)
	if err != nil {
		return nil, fmt.Errorf("failed to create music player: %w", err)
	}

	am := &AudioManager{
		settingsManager: sm,
		player:          player,
		duration:        track.Duration(),
	}
	am.applyVolume()

	log.Printf("[AudioManager] Music track loaded (%.1fs)", am.duration.Seconds())
	return am, nil
}

// Play 从头播放回合音乐
func (am *AudioManager) Play() error {
	if err := am.player.Rewind(); err != nil {
		return fmt.Errorf("failed to rewind music: %w", err)
	}
	am.applyVolume()
	am.player.Play()
	am.playing = true

	log.Printf("[AudioManager] Playing music (volume: %.2f)", am.player.Volume())
	return nil
}

// Stop 停止音乐，不触发播完回调
func (am *AudioManager) Stop() {
	if !am.playing {
		return
	}
	am.player.Pause()
	am.playing = false
	log.Printf("[AudioManager] Music stopped at %.2fs", am.player.Position().Seconds())
}

// IsPlaying 音乐是否在播放（静音时仍视为播放中）
func (am *AudioManager) IsPlaying() bool {
	return am.playing
}

// OnEnded 设置自然播完回调
func (am *AudioManager) OnEnded(callback func()) {
	am.onEnded = callback
}

// Update 检测自然播完，每帧调用一次
func (am *AudioManager) Update(deltaTime float64) {
	if !am.playing || am.player.IsPlaying() {
		return
	}
	if am.player.Position() < am.duration-endTolerance {
		return
	}

	am.playing = false
	log.Printf("[AudioManager] Music ended naturally")
	if am.onEnded != nil {
		am.onEnded()
	}
}

// ToggleMusic 切换音乐开关（静音/恢复）
//
// 返回：
//   - bool: 切换后音乐是否开启
func (am *AudioManager) ToggleMusic() bool {
	enabled := true
	if am.settingsManager != nil {
		enabled = !am.settingsManager.GetSettings().MusicEnabled
		am.settingsManager.SetMusicEnabled(enabled)
		if err := am.settingsManager.Save(); err != nil {
			log.Printf("[AudioManager] Warning: Failed to save settings: %v", err)
		}
	}
	am.applyVolume()

	log.Printf("[AudioManager] Music enabled: %v", enabled)
	return enabled
}

// IsMusicEnabled 音乐是否开启（未静音）
func (am *AudioManager) IsMusicEnabled() bool {
	if am.settingsManager == nil {
		return true
	}
	return am.settingsManager.GetSettings().MusicEnabled
}

// SetMusicVolume 设置音乐音量，立即应用到当前音乐
//
// 参数：
//   - volume: 音量值 (0.0 ~ 1.0)
func (am *AudioManager) SetMusicVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetMusicVolume(volume)
	}
	am.applyVolume()
}

// GetMusicVolume 获取当前音乐音量设置
func (am *AudioManager) GetMusicVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().MusicVolume
	}
	return DefaultMusicVolume
}

// Close 释放播放器
func (am *AudioManager) Close() error {
	am.playing = false
	return am.player.Close()
}

// applyVolume 按设置应用音量，关闭时静音
func (am *AudioManager) applyVolume() {
	volume := am.GetMusicVolume()
	if !am.IsMusicEnabled() {
		volume = 0
	}
	am.player.SetVolume(volume)
}
