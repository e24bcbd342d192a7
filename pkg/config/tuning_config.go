package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// TuningConfig 游戏数值配置
//
// 汇总了移动、转向、槽位判定和回合计时的全部常量。
// 默认值与 data/tuning.yaml 一致，文件中缺省的字段保留默认值。
//
// 配置文件位置: data/tuning.yaml
type TuningConfig struct {
	Arena      ArenaConfig      `yaml:"arena"`
	Actor      ActorConfig      `yaml:"actor"`
	Player     PlayerConfig     `yaml:"player"`
	Bot        BotConfig        `yaml:"bot"`
	Slots      SlotLayoutConfig `yaml:"slots"`
	Round      RoundConfig      `yaml:"round"`
	Animations AnimationsConfig `yaml:"animations"`
}

// Vec3Config YAML 中的三维坐标
type Vec3Config struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Vec 转换为 mgl64.Vec3
func (v Vec3Config) Vec() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// ArenaConfig 场地配置
type ArenaConfig struct {
	// FloorY 平台顶面高度（角色脚底所在平面）
	FloorY float64 `yaml:"floorY"`
	// HalfExtent 平台半边长，四面墙的内侧位于 ±HalfExtent
	HalfExtent float64 `yaml:"halfExtent"`
	// Gravity 重力加速度（负值向下）
	Gravity float64 `yaml:"gravity"`
}

// ActorConfig 角色胶囊体尺寸
type ActorConfig struct {
	Height float64 `yaml:"height"`
	Radius float64 `yaml:"radius"`
}

// OrbitConfig 绕圈运动参数
type OrbitConfig struct {
	Center       Vec3Config `yaml:"center"`
	Radius       float64    `yaml:"radius"`
	AngularSpeed float64    `yaml:"angularSpeed"` // 弧度/秒
}

// PlayerConfig 玩家移动参数
type PlayerConfig struct {
	Start        Vec3Config  `yaml:"start"`
	RunningSpeed float64     `yaml:"runningSpeed"`
	Damping      float64     `yaml:"damping"`      // 松开按键后的指数衰减系数
	RunThreshold float64     `yaml:"runThreshold"` // 平面速度超过此值播放奔跑动画
	Jog          OrbitConfig `yaml:"jog"`
}

// SeekConfig 寻路到达参数
type SeekConfig struct {
	MaxSpeed       float64 `yaml:"maxSpeed"`
	Acceleration   float64 `yaml:"acceleration"`
	ArriveDistance float64 `yaml:"arriveDistance"`
	ArrivedHeight  float64 `yaml:"arrivedHeight"` // 到达后角色中心的固定高度
}

// BotConfig 机器人转向参数
type BotConfig struct {
	Start Vec3Config  `yaml:"start"`
	Orbit OrbitConfig `yaml:"orbit"`
	// FacingEpsilon 绕圈时位移小于该值不更新朝向
	FacingEpsilon float64    `yaml:"facingEpsilon"`
	Seek          SeekConfig `yaml:"seek"`
}

// SlotLayoutConfig 槽位布局（正五边形）
type SlotLayoutConfig struct {
	Count            int     `yaml:"count"`
	Radius           float64 `yaml:"radius"`
	Height           float64 `yaml:"height"`
	HorizontalRadius float64 `yaml:"horizontalRadius"`
	VerticalRadius   float64 `yaml:"verticalRadius"`
}

// RoundConfig 回合流程参数
type RoundConfig struct {
	SafeZoneStartMs int `yaml:"safeZoneStartMs"`
	DurationMs      int `yaml:"durationMs"`
	GraceMs         int `yaml:"graceMs"`
	ScoreThreshold  int `yaml:"scoreThreshold"`
	// MaxRounds 回合上限，0 表示不限（平分时一直继续）
	MaxRounds int `yaml:"maxRounds"`
	// ResetSlotsEachRound 为 true 时每回合开始清空槽位占领
	ResetSlotsEachRound bool `yaml:"resetSlotsEachRound"`
}

// AnimationSetConfig 一个角色的动画集合
//
// 各状态字段给出对应的动画片段名；Clips 列出模型实际包含的片段及其时长（秒）。
// 状态映射到的片段不在 Clips 中时，播放请求会被静默忽略。
type AnimationSetConfig struct {
	Idle        string             `yaml:"idle"`
	Walking     string             `yaml:"walking"`
	Running     string             `yaml:"running"`
	Jogging     string             `yaml:"jogging"`
	Celebrating string             `yaml:"celebrating"`
	Clips       map[string]float64 `yaml:"clips"`
}

// AnimationsConfig 两个角色的动画集合
type AnimationsConfig struct {
	Player AnimationSetConfig `yaml:"player"`
	Bot    AnimationSetConfig `yaml:"bot"`
}

// DefaultTuning 返回默认数值配置
func DefaultTuning() *TuningConfig {
	return &TuningConfig{
		Arena: ArenaConfig{
			FloorY:     10.0,
			HalfExtent: 8.0,
			Gravity:    -9.81,
		},
		Actor: ActorConfig{
			Height: 1.7,
			Radius: 0.4,
		},
		Player: PlayerConfig{
			Start:        Vec3Config{X: -2, Y: 10.85, Z: 0},
			RunningSpeed: 8,
			Damping:      10,
			RunThreshold: 2.5,
			Jog: OrbitConfig{
				Center:       Vec3Config{X: 0, Y: 10.85, Z: 0},
				Radius:       4,
				AngularSpeed: 1.5,
			},
		},
		Bot: BotConfig{
			Start: Vec3Config{X: 2, Y: 10.85, Z: 0},
			Orbit: OrbitConfig{
				Center:       Vec3Config{X: -0.02, Y: 10.85, Z: 0},
				Radius:       3,
				AngularSpeed: 1.5,
			},
			FacingEpsilon: 0.001,
			Seek: SeekConfig{
				MaxSpeed:       2,
				Acceleration:   2,
				ArriveDistance: 0.5,
				ArrivedHeight:  10.85 + 0.9,
			},
		},
		Slots: SlotLayoutConfig{
			Count:            5,
			Radius:           6,
			Height:           10.6,
			HorizontalRadius: 1.5,
			VerticalRadius:   2.0,
		},
		Round: RoundConfig{
			SafeZoneStartMs: 5000,
			DurationMs:      30000,
			GraceMs:         4000,
			ScoreThreshold:  3,
		},
		Animations: AnimationsConfig{
			Player: AnimationSetConfig{
				Idle:    "idle",
				Running: "runBoy",
				Jogging: "runBoy",
				Clips: map[string]float64{
					"idle":   2.0,
					"runBoy": 0.8,
				},
			},
			Bot: AnimationSetConfig{
				Idle:        "Idle",
				Walking:     "Walking",
				Running:     "Running",
				Jogging:     "Running",
				Celebrating: "Victory",
				Clips: map[string]float64{
					"Idle":    2.0,
					"Walking": 1.0,
					"Running": 0.7,
					"Victory": 2.5,
				},
			},
		},
	}
}

// ParseTuningConfig 从 YAML 数据解析数值配置
// 未出现在 YAML 中的字段保留默认值
//
// 参数:
//   - data: YAML 内容
//
// 返回:
//   - *TuningConfig: 解析并校验后的配置
//   - error: 解析或校验失败时返回错误
func ParseTuningConfig(data []byte) (*TuningConfig, error) {
	cfg := DefaultTuning()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tuning config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadTuningConfig 加载数值配置文件
//
// 参数:
//   - path: 配置文件路径（如 "data/tuning.yaml"）
//
// 返回:
//   - *TuningConfig: 加载成功后的配置结构
//   - error: 读取、解析或校验失败时返回错误
func LoadTuningConfig(path string) (*TuningConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning config: %w", err)
	}
	return ParseTuningConfig(data)
}

// Validate 验证配置有效性
//
// 返回的错误均包裹 ErrInvalidTuning，可用 errors.Is 判断。
func (c *TuningConfig) Validate() error {
	if c.Arena.HalfExtent <= c.Actor.Radius {
		return invalidf("arena halfExtent(%.2f) must exceed actor radius(%.2f)", c.Arena.HalfExtent, c.Actor.Radius)
	}
	if c.Actor.Height <= 0 || c.Actor.Radius <= 0 {
		return invalidf("actor dimensions must be positive")
	}
	if c.Player.RunningSpeed <= 0 {
		return invalidf("player runningSpeed must be positive, got %.2f", c.Player.RunningSpeed)
	}
	if c.Player.Damping < 0 {
		return invalidf("player damping must not be negative, got %.2f", c.Player.Damping)
	}
	if err := c.Player.Jog.validate("player.jog"); err != nil {
		return err
	}
	if err := c.Bot.Orbit.validate("bot.orbit"); err != nil {
		return err
	}
	if c.Bot.Seek.MaxSpeed <= 0 || c.Bot.Seek.Acceleration <= 0 {
		return invalidf("bot seek maxSpeed and acceleration must be positive")
	}
	if c.Bot.Seek.ArriveDistance <= 0 {
		return invalidf("bot seek arriveDistance must be positive, got %.2f", c.Bot.Seek.ArriveDistance)
	}
	if c.Slots.Count < 0 {
		return invalidf("slot count must not be negative, got %d", c.Slots.Count)
	}
	if c.Slots.HorizontalRadius <= 0 || c.Slots.VerticalRadius <= 0 {
		return invalidf("slot detection radii must be positive")
	}
	if c.Round.SafeZoneStartMs < 0 {
		return invalidf("round safeZoneStartMs must not be negative, got %d", c.Round.SafeZoneStartMs)
	}
	if c.Round.DurationMs < c.Round.SafeZoneStartMs {
		return invalidf("round durationMs(%d) < safeZoneStartMs(%d)", c.Round.DurationMs, c.Round.SafeZoneStartMs)
	}
	if c.Round.GraceMs < 0 {
		return invalidf("round graceMs must not be negative, got %d", c.Round.GraceMs)
	}
	if c.Round.ScoreThreshold <= 0 {
		return invalidf("round scoreThreshold must be positive, got %d", c.Round.ScoreThreshold)
	}
	if c.Round.MaxRounds < 0 {
		return invalidf("round maxRounds must not be negative, got %d", c.Round.MaxRounds)
	}
	return nil
}

func (o OrbitConfig) validate(name string) error {
	if o.Radius <= 0 {
		return invalidf("%s radius must be positive, got %.2f", name, o.Radius)
	}
	if o.AngularSpeed == 0 {
		return invalidf("%s angularSpeed must not be zero", name)
	}
	return nil
}
