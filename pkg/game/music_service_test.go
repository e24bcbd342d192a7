package game

import (
	"testing"
)

// 编译期检查
var (
	_ MusicService = (*SilentMusic)(nil)
	_ MusicService = (*AudioManager)(nil)
)

// TestSilentMusicNaturalEnd 测试虚拟曲目播完只回调一次
func TestSilentMusicNaturalEnd(t *testing.T) {
	m := NewSilentMusic(1.0)
	ended := 0
	m.OnEnded(func() { ended++ })

	if err := m.Play(); err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	if !m.IsPlaying() {
		t.Fatal("music should be playing after Play()")
	}

	for i := 0; i < 9; i++ {
		m.Update(0.1)
	}
	if ended != 0 || !m.IsPlaying() {
		t.Fatalf("track should still be playing at %.2fs", m.Position())
	}

	m.Update(0.2)
	m.Update(0.2)
	if ended != 1 {
		t.Errorf("expected one ended callback, got %d", ended)
	}
	if m.IsPlaying() {
		t.Error("music should not be playing after the track ended")
	}
}

// TestSilentMusicStopDoesNotNotify 测试主动停止不触发回调
func TestSilentMusicStopDoesNotNotify(t *testing.T) {
	m := NewSilentMusic(0.5)
	ended := 0
	m.OnEnded(func() { ended++ })

	m.Play()
	m.Update(0.2)
	m.Stop()
	m.Update(1.0)

	if ended != 0 {
		t.Errorf("Stop() should not fire the ended callback, got %d", ended)
	}
	if m.IsPlaying() {
		t.Error("music should be stopped")
	}
}

// TestSilentMusicReplay 测试重新播放从头开始
func TestSilentMusicReplay(t *testing.T) {
	m := NewSilentMusic(0)
	m.Play()
	m.Update(5)
	m.Play()

	if m.Position() != 0 {
		t.Errorf("Play() should rewind, position %.2f", m.Position())
	}
	if m.PlayCount != 2 {
		t.Errorf("expected PlayCount 2, got %d", m.PlayCount)
	}

	// 无限长曲目不会自然结束
	m.Update(1000)
	if !m.IsPlaying() {
		t.Error("infinite track should keep playing")
	}
}
