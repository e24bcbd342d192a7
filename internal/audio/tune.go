package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// waveShape 把一个周期内的相位 [0, 1) 映射为 [-1, 1] 的采样值
type waveShape func(phase float64) float64

var (
	squareWave = func(phase float64) float64 {
		if phase < 0.5 {
			return 1
		}
		return -1
	}
	triangleWave = func(phase float64) float64 {
		return 4*math.Abs(phase-0.5) - 1
	}
)

// Note 旋律中的一个音符，Freq 为 0 表示休止
type Note struct {
	Freq  float64
	Beats float64
}

// TuneConfig 背景音乐合成参数
type TuneConfig struct {
	SampleRate int
	BPM        float64
	// Loops 旋律重复次数，播完即音乐自然结束
	Loops  int
	Volume float64
}

// DefaultTuneConfig 默认约 45 秒的音乐，长于最长回合
func DefaultTuneConfig() TuneConfig {
	return TuneConfig{
		SampleRate: 44100,
		BPM:        132,
		Loops:      6,
		Volume:     0.5,
	}
}

const (
	noteC4 = 261.63
	noteD4 = 293.66
	noteE4 = 329.63
	noteF4 = 349.23
	noteG4 = 392.00
	noteA4 = 440.00
	noteB4 = 493.88
	noteC5 = 523.25
	noteC3 = 130.81
	noteF3 = 174.61
	noteG3 = 196.00
)

// partyMelody 16 拍进行曲风格的主旋律
var partyMelody = []Note{
	{noteC4, 0.5}, {noteE4, 0.5}, {noteG4, 0.5}, {noteE4, 0.5},
	{noteF4, 0.5}, {noteA4, 0.5}, {noteG4, 1},
	{noteE4, 0.5}, {noteG4, 0.5}, {noteC5, 0.5}, {noteG4, 0.5},
	{noteA4, 0.5}, {noteF4, 0.5}, {noteE4, 1},
	{noteD4, 0.5}, {noteF4, 0.5}, {noteA4, 0.5}, {noteF4, 0.5},
	{noteG4, 0.5}, {noteB4, 0.5}, {noteC5, 1},
	{noteG4, 0.5}, {noteE4, 0.5}, {noteD4, 0.5}, {noteE4, 0.5},
	{noteC4, 1}, {0, 1},
}

// bassLine 16 拍低音，每小节一个根音
var bassLine = []Note{
	{noteC3, 4}, {noteF3, 4}, {noteG3, 4}, {noteC3, 4},
}

// envelopeGain 线性起音 / 释音包络
//
// 参数：
//   - pos: 当前采样序号
//   - total: 音符总采样数
//   - attack, release: 起音、释音的采样数，0 表示没有该段
//
// 返回：
//   - float64: [0, 1] 的增益
func envelopeGain(pos, total, attack, release int) float64 {
	gain := 1.0
	if attack > 0 && pos < attack {
		gain = float64(pos) / float64(attack)
	}
	if release > 0 {
		if left := total - pos; left < release {
			gain = math.Min(gain, float64(left)/float64(release))
		}
	}
	return gain
}

// newTone 生成一个带包络的定长音符
//
// 参数：
//   - freq: 频率（Hz）
//   - d: 时长
//   - shape: 波形
//   - rate: 采样率
//   - attack, release: 起音、释音时长
//
// 返回：
//   - beep.Streamer: 播完 d 后返回 ok=false 的有限流
func newTone(freq float64, d time.Duration, shape waveShape, rate beep.SampleRate, attack, release time.Duration) beep.Streamer {
	total := rate.N(d)
	attackN, releaseN := rate.N(attack), rate.N(release)
	step := freq / float64(rate)

	pos, phase := 0, 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := min(len(samples), total-pos)
		for i := 0; i < n; i++ {
			v := shape(phase) * envelopeGain(pos, total, attackN, releaseN)
			samples[i] = [2]float64{v, v}
			phase = math.Mod(phase+step, 1)
			pos++
		}
		return n, true
	})
}

// newVolume 按线性倍数缩放音量，vol <= 0 时静音
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// voice 把音符列表串成一条音轨
func voice(notes []Note, shape waveShape, beat time.Duration, rate beep.SampleRate) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		d := time.Duration(n.Beats * float64(beat))
		if n.Freq <= 0 {
			parts = append(parts, beep.Silence(rate.N(d)))
			continue
		}
		parts = append(parts, newTone(n.Freq, d, shape, rate, 10*time.Millisecond, d/3))
	}
	return beep.Seq(parts...)
}

// NewTune 合成回合背景音乐：方波主旋律叠加三角波低音，重复 cfg.Loops 次
//
// 返回：
//   - beep.Streamer: 有限长度的音乐流
//   - error: 采样率、BPM 或重复次数无效时返回错误
func NewTune(cfg TuneConfig) (beep.Streamer, error) {
	if cfg.SampleRate <= 0 || cfg.BPM <= 0 || cfg.Loops <= 0 {
		return nil, fmt.Errorf("invalid tune config: rate=%d bpm=%.1f loops=%d", cfg.SampleRate, cfg.BPM, cfg.Loops)
	}

	rate := beep.SampleRate(cfg.SampleRate)
	beat := time.Duration(float64(time.Minute) / cfg.BPM)

	bars := make([]beep.Streamer, 0, cfg.Loops)
	for i := 0; i < cfg.Loops; i++ {
		bars = append(bars, beep.Mix(
			newVolume(voice(partyMelody, squareWave, beat, rate), 0.35),
			newVolume(voice(bassLine, triangleWave, beat, rate), 0.5),
		))
	}

	return newVolume(beep.Seq(bars...), cfg.Volume), nil
}

// RenderTune 合成并渲染为 PCM
func RenderTune(cfg TuneConfig) (*PCMStream, error) {
	tune, err := NewTune(cfg)
	if err != nil {
		return nil, err
	}
	return Render(tune, cfg.SampleRate)
}

// TuneBeats 一遍主旋律的拍数
func TuneBeats() float64 {
	total := 0.0
	for _, n := range partyMelody {
		total += n.Beats
	}
	return total
}
