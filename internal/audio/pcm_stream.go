package audio

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/gopxl/beep"
)

// bytesPerFrame 16 位立体声：2 声道 * 2 字节
const bytesPerFrame = 4

// PCMStream 内存中的 16 位小端立体声 PCM
// 实现 io.ReadSeeker 并提供 Length，满足 Ebitengine audio.Player 对有限音源的要求
type PCMStream struct {
	data       []byte // 交错排列的 PCM（L, R, L, R...）
	sampleRate int    // 采样率（Hz）
	offset     int64  // 当前读取位置
}

// NewPCMStream 包装已编码的 PCM 字节
func NewPCMStream(data []byte, sampleRate int) *PCMStream {
	return &PCMStream{data: data, sampleRate: sampleRate}
}

// Render 把 beep 音频流完整渲染为 PCMStream
// 音频流必须是有限的，返回 ok=false 时停止渲染。
//
// 参数：
//   - s: 源音频流（采样值超出 [-1, 1] 时截断）
//   - sampleRate: 音频流使用的采样率
//
// 返回：
//   - *PCMStream: 渲染结果
//   - error: 音频流出错时返回错误
func Render(s beep.Streamer, sampleRate int) (*PCMStream, error) {
	if s == nil {
		return nil, fmt.Errorf("nil streamer")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	buf := make([][2]float64, 512)
	var data []byte
	for {
		n, ok := s.Stream(buf)
		for _, frame := range buf[:n] {
			l := toInt16(frame[0])
			r := toInt16(frame[1])
			data = append(data, byte(l), byte(l>>8), byte(r), byte(r>>8))
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to render stream: %w", err)
	}

	return NewPCMStream(data, sampleRate), nil
}

func toInt16(v float64) int16 {
	v = math.Max(-1, math.Min(1, v))
	return int16(v * math.MaxInt16)
}

// Read 实现 io.Reader
func (p *PCMStream) Read(b []byte) (n int, err error) {
	if p.offset >= int64(len(p.data)) {
		return 0, io.EOF
	}

	n = copy(b, p.data[p.offset:])
	p.offset += int64(n)
	return n, nil
}

// Seek 实现 io.Seeker
func (p *PCMStream) Seek(offset int64, whence int) (int64, error) {
	var newOffset int64

	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = p.offset + offset
	case io.SeekEnd:
		newOffset = int64(len(p.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}

	if newOffset < 0 {
		return 0, fmt.Errorf("negative position: %d", newOffset)
	}

	p.offset = newOffset
	return newOffset, nil
}

// Length 返回 PCM 数据总字节数
func (p *PCMStream) Length() int64 {
	return int64(len(p.data))
}

// SampleRate 返回采样率（Hz）
func (p *PCMStream) SampleRate() int {
	return p.sampleRate
}

// Duration 返回播放时长
func (p *PCMStream) Duration() time.Duration {
	if p.sampleRate <= 0 {
		return 0
	}
	frames := int64(len(p.data) / bytesPerFrame)
	return time.Duration(frames) * time.Second / time.Duration(p.sampleRate)
}
