package audio

import (
	"io"
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func TestRenderSilence(t *testing.T) {
	stream, err := Render(beep.Silence(1000), 8000)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if stream.Length() != 1000*bytesPerFrame {
		t.Errorf("Length() = %d, want %d", stream.Length(), 1000*bytesPerFrame)
	}
	if stream.Duration() != 125*time.Millisecond {
		t.Errorf("Duration() = %v, want 125ms", stream.Duration())
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	for i, b := range data {
		if b != 0 {
			t.Fatalf("byte %d = %d, silence should render to zeros", i, b)
		}
	}
}

func TestRenderRejectsInvalidInput(t *testing.T) {
	if _, err := Render(nil, 44100); err == nil {
		t.Error("expected error for nil streamer")
	}
	if _, err := Render(beep.Silence(10), 0); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestRenderClipsSamples(t *testing.T) {
	loud := newVolume(newTone(100, 10*time.Millisecond, squareWave, 8000, 0, 0), 4)
	stream, err := Render(loud, 8000)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	buf := make([]byte, bytesPerFrame)
	if _, err := stream.Read(buf); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	l := int16(buf[0]) | int16(buf[1])<<8
	if l != 32767 {
		t.Errorf("first sample = %d, want clipped 32767", l)
	}
}

func TestPCMStreamSeek(t *testing.T) {
	stream := NewPCMStream([]byte{1, 2, 3, 4, 5, 6, 7, 8}, 8000)

	tests := []struct {
		name   string
		offset int64
		whence int
		want   int64
		next   byte
	}{
		{"start", 4, io.SeekStart, 4, 5},
		{"current", -2, io.SeekCurrent, 3, 4},
		{"end", -1, io.SeekEnd, 7, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := stream.Seek(tt.offset, tt.whence)
			if err != nil {
				t.Fatalf("Seek failed: %v", err)
			}
			if pos != tt.want {
				t.Errorf("Seek() = %d, want %d", pos, tt.want)
			}
			b := make([]byte, 1)
			if _, err := stream.Read(b); err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if b[0] != tt.next {
				t.Errorf("next byte = %d, want %d", b[0], tt.next)
			}
		})
	}

	if _, err := stream.Seek(-100, io.SeekStart); err == nil {
		t.Error("expected error for negative position")
	}
	if _, err := stream.Seek(0, 42); err == nil {
		t.Error("expected error for invalid whence")
	}

	stream.Seek(0, io.SeekEnd)
	if _, err := stream.Read(make([]byte, 4)); err != io.EOF {
		t.Errorf("expected EOF at end, got %v", err)
	}
}

func TestRenderTuneIsFinite(t *testing.T) {
	cfg := DefaultTuneConfig()
	cfg.SampleRate = 8000
	cfg.Loops = 2

	stream, err := RenderTune(cfg)
	if err != nil {
		t.Fatalf("RenderTune failed: %v", err)
	}

	want := time.Duration(float64(cfg.Loops) * TuneBeats() * float64(time.Minute) / cfg.BPM)
	diff := stream.Duration() - want
	if diff < -50*time.Millisecond || diff > 50*time.Millisecond {
		t.Errorf("Duration() = %v, want about %v", stream.Duration(), want)
	}
	if stream.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", stream.SampleRate())
	}
}

func TestDefaultTuneOutlastsRound(t *testing.T) {
	cfg := DefaultTuneConfig()
	length := float64(cfg.Loops) * TuneBeats() * 60 / cfg.BPM
	if length <= 30 {
		t.Errorf("default track is %.1fs, should outlast a 30s round", length)
	}
}

func TestNewTuneRejectsInvalidConfig(t *testing.T) {
	for _, cfg := range []TuneConfig{
		{SampleRate: 0, BPM: 120, Loops: 1},
		{SampleRate: 8000, BPM: 0, Loops: 1},
		{SampleRate: 8000, BPM: 120, Loops: 0},
	} {
		if _, err := NewTune(cfg); err == nil {
			t.Errorf("expected error for %+v", cfg)
		}
	}
}

// TestEnvelopeGain 测试起音 / 释音包络
func TestEnvelopeGain(t *testing.T) {
	tests := []struct {
		name string
		pos  int
		want float64
	}{
		{"起音开始", 0, 0},
		{"起音中段", 5, 0.5},
		{"持续段", 50, 1},
		{"释音中段", 90, 0.5},
		{"最后一个采样", 99, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := envelopeGain(tt.pos, 100, 10, 20)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("envelopeGain(%d) = %.3f, want %.3f", tt.pos, got, tt.want)
			}
		})
	}

	if got := envelopeGain(0, 100, 0, 0); got != 1 {
		t.Errorf("without attack and release gain should be 1, got %.3f", got)
	}
}

// TestToneIsFinite 测试音符按时长结束且带包络
func TestToneIsFinite(t *testing.T) {
	tone := newTone(440, 100*time.Millisecond, triangleWave, 8000, 10*time.Millisecond, 10*time.Millisecond)

	buf := make([][2]float64, 300)
	total := 0
	for {
		n, ok := tone.Stream(buf)
		if total == 0 && buf[0][0] != 0 {
			t.Errorf("first sample should be silent under the attack ramp, got %.3f", buf[0][0])
		}
		for _, s := range buf[:n] {
			if s[0] != s[1] || s[0] < -1 || s[0] > 1 {
				t.Fatalf("sample %v out of range or not mono", s)
			}
		}
		total += n
		if !ok {
			break
		}
	}
	if total != 800 {
		t.Errorf("tone streamed %d samples, want 800", total)
	}
	if err := tone.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}
