package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/decker502/musicalchairs/pkg/app"
	"github.com/decker502/musicalchairs/pkg/config"
	"github.com/decker502/musicalchairs/pkg/metrics"
	"github.com/decker502/musicalchairs/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose     = flag.Bool("verbose", false, "显示详细调试信息")
	tuningPath  = flag.String("tuning", "", "数值配置文件路径（默认使用内嵌的 data/tuning.yaml）")
	seed        = flag.Int64("seed", 0, "停音时刻随机种子，0 表示随机")
	metricsAddr = flag.String("metrics", "", "Prometheus 指标监听地址，如 :9090")
)

func main() {
	flag.Parse()

	launch, err := config.LoadLaunchConfig()
	if err != nil {
		log.Fatalf("启动配置加载失败: %v", err)
	}
	applyFlags(launch)
	if err := launch.Validate(); err != nil {
		log.Fatalf("启动参数无效: %v", err)
	}

	tuning, err := loadTuning(launch.TuningPath)
	if err != nil {
		log.Fatalf("数值配置加载失败: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var recorder systems.RoundRecorder
	if launch.MetricsAddr != "" {
		manager := metrics.NewManager()
		recorder = manager
		go func() {
			if err := metrics.Serve(ctx, launch.MetricsAddr, manager); err != nil {
				log.Printf("[Main] Metrics server failed: %v", err)
			}
		}()
	}

	gameApp, err := app.NewApp(app.Config{
		Verbose:         launch.Verbose,
		Tuning:          tuning,
		Seed:            launch.Seed,
		SettingsAppName: launch.SettingsAppName,
		WindowWidth:     launch.WindowWidth,
		WindowHeight:    launch.WindowHeight,
		Recorder:        recorder,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}
	defer gameApp.Close()

	ebiten.SetWindowSize(launch.WindowWidth, launch.WindowHeight)
	ebiten.SetWindowTitle("Musical Chairs")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}

// applyFlags 命令行中显式给出的参数覆盖启动配置
func applyFlags(launch *config.LaunchConfig) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "verbose":
			launch.Verbose = *verbose
		case "tuning":
			launch.TuningPath = *tuningPath
		case "seed":
			launch.Seed = *seed
		case "metrics":
			launch.MetricsAddr = *metricsAddr
		}
	})
}

// loadTuning 从文件或内嵌数据加载数值配置
func loadTuning(path string) (*config.TuningConfig, error) {
	if path != "" {
		return config.LoadTuningConfig(path)
	}
	return config.ParseTuningConfig(defaultTuningYAML)
}
