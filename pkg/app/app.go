// Package app 提供游戏应用的核心包装器
//
// 该包把音频、设置、场景管理器的初始化从 main 包中提取出来，
// main.go 只负责解析参数、加载配置并调用 NewApp()。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"

	chairsaudio "github.com/decker502/musicalchairs/internal/audio"
	"github.com/decker502/musicalchairs/pkg/config"
	"github.com/decker502/musicalchairs/pkg/game"
	"github.com/decker502/musicalchairs/pkg/scenes"
	"github.com/decker502/musicalchairs/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Tuning 已校验的数值配置
	Tuning *config.TuningConfig
	// Seed 停音时刻的随机种子，0 表示使用全局随机源
	Seed int64
	// SettingsAppName 用户设置的存储名
	SettingsAppName string
	// WindowWidth / WindowHeight 窗口尺寸（逻辑屏幕固定为 800x600，由 Ebitengine 缩放）
	WindowWidth  int
	WindowHeight int
	// Recorder 回合统计，可为 nil
	Recorder systems.RoundRecorder
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	audioManager             *game.AudioManager
	settingsManager          *game.SettingsManager
	width                    int
	height                   int
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 初始化顺序：日志 → 合成背景音乐 → 音频上下文 → 用户设置 → 场景管理器 → 第一局
//
// 返回：
//   - *App: 应用实例，交给 ebiten.RunGame
//   - error: 配置缺失、音乐合成或播放器创建失败时返回错误
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if cfg.Tuning == nil {
		return nil, fmt.Errorf("tuning config cannot be nil")
	}
	if cfg.WindowWidth <= 0 || cfg.WindowHeight <= 0 {
		cfg.WindowWidth, cfg.WindowHeight = config.GameWindowWidth, config.GameWindowHeight
	}

	// 合成背景音乐（PCM），音频上下文采样率必须与之一致
	track, err := chairsaudio.RenderTune(chairsaudio.DefaultTuneConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to render music: %w", err)
	}
	log.Printf("[App] Music track rendered: %v", track.Duration())

	audioContext := audio.NewContext(track.SampleRate())

	settingsManager := game.OpenSettingsManager(cfg.SettingsAppName)
	audioManager, err := game.NewAudioManager(audioContext, track, settingsManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio manager: %w", err)
	}
	log.Printf("[App] AudioManager initialized")

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}

	// 创建场景管理器，每局游戏由工厂创建新场景
	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(session *game.Session) (game.Scene, error) {
		return scenes.NewGameScene(sceneManager, session, scenes.GameSceneDeps{
			Tuning:   cfg.Tuning,
			Music:    audioManager,
			Recorder: cfg.Recorder,
			Rng:      rng,
			Verbose:  cfg.Verbose,
		})
	})
	if err := sceneManager.StartNewGame(); err != nil {
		_ = audioManager.Close()
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	if settingsManager.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		sceneManager:    sceneManager,
		audioManager:    audioManager,
		settingsManager: settingsManager,
		width:           cfg.WindowWidth,
		height:          cfg.WindowHeight,
		verbose:         cfg.Verbose,
	}, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.width, a.height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.width, a.height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

// toggleFullscreen 切换全屏并保存到用户设置
func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	ebiten.SetFullscreen(fullscreen)
	if !fullscreen {
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	}

	a.settingsManager.SetFullscreen(fullscreen)
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: Failed to save settings: %v", err)
	}
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Close 释放当前场景和音频播放器
func (a *App) Close() {
	a.sceneManager.Close()
	if err := a.audioManager.Close(); err != nil {
		log.Printf("[App] Warning: Failed to close audio: %v", err)
	}
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
