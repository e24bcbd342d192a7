package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// 启动配置相关的环境变量
const (
	// LaunchEnvPrefix 环境变量前缀，如 CHAIRS_VERBOSE=true
	LaunchEnvPrefix = "CHAIRS_"
	// LaunchConfigFileEnv 可选的启动配置文件路径
	LaunchConfigFileEnv = "CHAIRS_CONFIG"
)

// LaunchConfig 进程启动配置
//
// 加载顺序（优先级从低到高）：
//  1. DefaultLaunch() 默认值
//  2. CHAIRS_CONFIG 指向的 YAML 文件
//  3. CHAIRS_ 前缀的环境变量
//
// 命令行参数在 main 中最后覆盖。
type LaunchConfig struct {
	// Verbose 启用详细日志
	Verbose bool `koanf:"verbose"`
	// TuningPath 数值配置文件路径，为空时使用内嵌的 data/tuning.yaml
	TuningPath string `koanf:"tuning_path"`
	// MetricsAddr Prometheus 指标监听地址，为空表示不启动
	MetricsAddr string `koanf:"metrics_addr"`
	// Seed 随机种子，0 表示使用当前时间
	Seed int64 `koanf:"seed"`
	// WindowWidth / WindowHeight 窗口逻辑尺寸
	WindowWidth  int `koanf:"window_width"`
	WindowHeight int `koanf:"window_height"`
	// SettingsAppName gdata 存储使用的应用名
	SettingsAppName string `koanf:"settings_app_name"`
	// HeadlessGames 无界面模式下连续进行的对局数
	HeadlessGames int `koanf:"headless_games"`
	// HeadlessTickRate 无界面模式的固定帧率
	HeadlessTickRate int `koanf:"headless_tick_rate"`
}

// DefaultLaunch 返回默认启动配置
func DefaultLaunch() *LaunchConfig {
	return &LaunchConfig{
		Verbose:          false,
		TuningPath:       "",
		MetricsAddr:      "",
		Seed:             0,
		WindowWidth:      GameWindowWidth,
		WindowHeight:     GameWindowHeight,
		SettingsAppName:  "musicalchairs",
		HeadlessGames:    10,
		HeadlessTickRate: 60,
	}
}

// LoadLaunchConfig 按默认值 → 文件 → 环境变量的顺序构建启动配置
//
// 返回:
//   - *LaunchConfig: 合并后的配置
//   - error: 文件读取、解析或校验失败时返回错误
func LoadLaunchConfig() (*LaunchConfig, error) {
	base := DefaultLaunch()

	k := koanf.New(".")

	if path := os.Getenv(LaunchConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load launch config %s: %w", path, err)
		}
	}

	// CHAIRS_HEADLESS_GAMES -> headless_games，保留下划线以匹配 koanf 标签
	envProvider := env.Provider(LaunchEnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, LaunchEnvPrefix)
		return strings.ToLower(s)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load launch env: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal launch config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验启动配置
func (c *LaunchConfig) Validate() error {
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("%w: window size must be positive, got %dx%d", ErrInvalidLaunch, c.WindowWidth, c.WindowHeight)
	}
	if c.HeadlessGames < 0 {
		return fmt.Errorf("%w: headless_games must not be negative, got %d", ErrInvalidLaunch, c.HeadlessGames)
	}
	if c.HeadlessTickRate <= 0 {
		return fmt.Errorf("%w: headless_tick_rate must be positive, got %d", ErrInvalidLaunch, c.HeadlessTickRate)
	}
	if c.SettingsAppName == "" {
		return fmt.Errorf("%w: settings_app_name must not be empty", ErrInvalidLaunch)
	}
	return nil
}
