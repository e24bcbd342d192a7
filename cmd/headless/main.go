// headless 无界面运行完整对局
//
// 用脚本玩家（match.Autopilot）和静音音乐服务以固定帧率连续进行多局游戏，
// 打印每局结果；指定 -metrics 时同时提供 Prometheus 指标，跑完后保持服务直到 Ctrl+C。
//
// 用法:
//
//	go run ./cmd/headless -games 20 -seed 42
//	go run ./cmd/headless -metrics :9090
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/decker502/musicalchairs/pkg/components"
	"github.com/decker502/musicalchairs/pkg/config"
	"github.com/decker502/musicalchairs/pkg/game"
	"github.com/decker502/musicalchairs/pkg/match"
	"github.com/decker502/musicalchairs/pkg/metrics"
	"github.com/decker502/musicalchairs/pkg/systems"
)

// maxSimulatedMinutes 单局模拟时长上限，超过视为未完成
const maxSimulatedMinutes = 30

var (
	verbose     = flag.Bool("verbose", false, "显示详细调试信息")
	tuningPath  = flag.String("tuning", "", "数值配置文件路径（默认使用内置默认值）")
	games       = flag.Int("games", 0, "对局数（默认取启动配置 headless_games）")
	seed        = flag.Int64("seed", 0, "随机种子，0 表示使用当前时间")
	tickRate    = flag.Int("tick-rate", 0, "固定帧率（默认取启动配置 headless_tick_rate）")
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

	if !launch.Verbose {
		log.SetOutput(io.Discard)
	}

	tuning := config.DefaultTuning()
	if launch.TuningPath != "" {
		if tuning, err = config.LoadTuningConfig(launch.TuningPath); err != nil {
			fmt.Fprintf(os.Stderr, "数值配置加载失败: %v\n", err)
			os.Exit(1)
		}
	}

	if launch.Seed == 0 {
		launch.Seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(launch.Seed))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var recorder systems.RoundRecorder = systems.NopRoundRecorder{}
	serveErr := make(chan error, 1)
	if launch.MetricsAddr != "" {
		manager := metrics.NewManager()
		recorder = manager
		go func() { serveErr <- metrics.Serve(ctx, launch.MetricsAddr, manager) }()
	}

	fmt.Printf("Playing %d games at %d TPS (seed %d)\n", launch.HeadlessGames, launch.HeadlessTickRate, launch.Seed)

	wins := map[components.ActorIdentity]int{}
	for i := 1; i <= launch.HeadlessGames && ctx.Err() == nil; i++ {
		session := game.NewSession()
		result, simulated, err := playGame(session, tuning, recorder, rng, launch)
		if err != nil {
			fmt.Fprintf(os.Stderr, "game %d: %v\n", i, err)
			os.Exit(1)
		}

		if !result.Over {
			fmt.Printf("game %3d  session %s  unfinished after %.0fs  Boy %d : %d Girl\n",
				i, session.ShortID(), simulated, result.ScoreBoy, result.ScoreGirl)
			continue
		}
		wins[result.Winner]++
		fmt.Printf("game %3d  session %s  winner %-4s  rounds %d  Boy %d : %d Girl  (%.1fs simulated)\n",
			i, session.ShortID(), result.Winner, result.Rounds, result.ScoreBoy, result.ScoreGirl, simulated)
	}

	fmt.Printf("Boy %d wins, Girl %d wins, %d without winner\n",
		wins[components.ActorBoy], wins[components.ActorGirl], wins[components.ActorNone])

	if launch.MetricsAddr == "" {
		return
	}
	fmt.Printf("Metrics available at %s/metrics, press Ctrl+C to exit\n", launch.MetricsAddr)
	select {
	case <-ctx.Done():
		err = <-serveErr
	case err = <-serveErr:
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
		os.Exit(1)
	}
}

// playGame 以固定帧率打完一局
//
// 参数：
//   - session: 本局会话，会话 ID 出现在对局日志和返回结果中
//
// 返回：
//   - match.Result: 对局结果，超过时长上限时 Over 为 false
//   - float64: 模拟的总时长（秒）
//   - error: 对局构建失败时返回错误
func playGame(session *game.Session, tuning *config.TuningConfig, recorder systems.RoundRecorder, rng *rand.Rand, launch *config.LaunchConfig) (match.Result, float64, error) {
	m, err := match.NewMatch(match.Options{
		Tuning:   tuning,
		Recorder: recorder,
		Rng:      rng,
		Verbose:  launch.Verbose,
		Session:  session,
	})
	if err != nil {
		return match.Result{}, 0, err
	}
	m.Start()

	deltaTime := 1.0 / float64(launch.HeadlessTickRate)
	maxTicks := launch.HeadlessTickRate * 60 * maxSimulatedMinutes
	pilot := match.NewAutopilot()
	for m.Ticks() < maxTicks && !m.IsOver() {
		m.Step(deltaTime, pilot.Next(m, deltaTime))
	}

	return m.Result(), m.Clock(), nil
}

// applyFlags 命令行中显式给出的参数覆盖启动配置
func applyFlags(launch *config.LaunchConfig) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "verbose":
			launch.Verbose = *verbose
		case "tuning":
			launch.TuningPath = *tuningPath
		case "games":
			launch.HeadlessGames = *games
		case "seed":
			launch.Seed = *seed
		case "tick-rate":
			launch.HeadlessTickRate = *tickRate
		case "metrics":
			launch.MetricsAddr = *metricsAddr
		}
	})
}
