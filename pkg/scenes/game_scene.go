package scenes

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/decker502/musicalchairs/pkg/components"
	"github.com/decker502/musicalchairs/pkg/config"
	"github.com/decker502/musicalchairs/pkg/game"
	"github.com/decker502/musicalchairs/pkg/match"
	"github.com/decker502/musicalchairs/pkg/systems"
)

// panelKind 当前显示的回合面板
type panelKind int

const (
	panelNone panelKind = iota
	panelReady
	panelRoundResult
	panelVictory
)

// musicToggler 支持静音切换的音乐服务（AudioManager）
type musicToggler interface {
	ToggleMusic() bool
	IsMusicEnabled() bool
}

// GameSceneDeps 创建游戏场景所需的依赖
type GameSceneDeps struct {
	Tuning   *config.TuningConfig
	Music    game.MusicService
	Recorder systems.RoundRecorder
	Rng      *rand.Rand
	Verbose  bool
}

// GameScene 竞技场场景
//
// 持有一局对局（match.Match），每个 tick 读取键盘并推进模拟；
// 同时作为 RoundPresenter 接收开局 / 结算 / 胜利面板通知。
// 胜利面板上按"继续"会通过 SceneManager 开启新的会话。
type GameScene struct {
	sceneManager *game.SceneManager
	session      *game.Session
	match        *match.Match
	music        game.MusicService

	// readInput 读取本帧输入，测试中可替换
	readInput func() game.InputSnapshot

	panel       panelKind
	panelRound  int
	panelBoy    int
	panelGirl   int
	panelWinner components.ActorIdentity

	disposed bool
}

// NewGameScene 创建游戏场景并显示开局面板
//
// 参数：
//   - sm: 场景管理器（用于"再玩一次"）
//   - session: 本局会话
//   - deps: 数值配置、音乐服务等
//
// 返回：
//   - *GameScene: 场景实例
//   - error: 对局构建失败时返回错误
func NewGameScene(sm *game.SceneManager, session *game.Session, deps GameSceneDeps) (*GameScene, error) {
	if session == nil {
		session = game.NewSession()
	}

	s := &GameScene{
		sceneManager: sm,
		session:      session,
		readInput:    ReadKeyboard,
	}

	m, err := match.NewMatch(match.Options{
		Tuning:    deps.Tuning,
		Music:     deps.Music,
		Presenter: s,
		Recorder:  deps.Recorder,
		Rng:       deps.Rng,
		Verbose:   deps.Verbose,
		Session:   session,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build match: %w", err)
	}
	s.match = m
	s.music = m.Music()

	log.Printf("[GameScene] Session %s created", session.ShortID())
	m.Start()
	return s, nil
}

// ShowReady 实现 RoundPresenter
func (s *GameScene) ShowReady() {
	s.panel = panelReady
}

// ShowRoundResult 实现 RoundPresenter
func (s *GameScene) ShowRoundResult(round, scoreBoy, scoreGirl int) {
	s.panel = panelRoundResult
	s.panelRound = round
	s.panelBoy = scoreBoy
	s.panelGirl = scoreGirl
}

// ShowVictory 实现 RoundPresenter
func (s *GameScene) ShowVictory(winner components.ActorIdentity) {
	s.panel = panelVictory
	s.panelWinner = winner
}

// Update 读取输入并推进一帧
func (s *GameScene) Update(deltaTime float64) {
	if s.disposed {
		return
	}

	input := s.readInput()

	if input.WasReleased(game.KeyToggleMusic) {
		s.toggleMusic()
	}

	if s.match.IsOver() {
		if input.WasReleased(game.KeyContinue) {
			s.restartGame()
		}
		return
	}

	s.match.Step(deltaTime, input)
}

// toggleMusic 切换背景音乐静音
func (s *GameScene) toggleMusic() {
	toggler, ok := s.music.(musicToggler)
	if !ok {
		log.Printf("[GameScene] Music service does not support toggling")
		return
	}
	enabled := toggler.ToggleMusic()
	log.Printf("[GameScene] Music enabled: %v", enabled)
}

// musicEnabled 音乐是否开启；不支持切换的服务视为开启
func (s *GameScene) musicEnabled() bool {
	if toggler, ok := s.music.(musicToggler); ok {
		return toggler.IsMusicEnabled()
	}
	return true
}

// visiblePanel 当前应显示的面板
//
// 面板只在等待"继续"的阶段可见，回合开始后自动隐藏。
func (s *GameScene) visiblePanel() panelKind {
	switch s.match.Phase() {
	case components.PhaseWaitingToStart, components.PhaseRoundResolved, components.PhaseGameOver:
		return s.panel
	default:
		return panelNone
	}
}

// restartGame 开启新会话（"再玩一次"）
func (s *GameScene) restartGame() {
	if s.sceneManager == nil {
		return
	}
	log.Printf("[GameScene] Restarting after session %s", s.session.ShortID())
	if err := s.sceneManager.StartNewGame(); err != nil {
		log.Printf("[GameScene] Error: failed to restart: %v", err)
	}
}

// Dispose 停止音乐，场景不再更新
func (s *GameScene) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.music.Stop()
	log.Printf("[GameScene] Session %s disposed", s.session.ShortID())
}

// Match 返回场景持有的对局
func (s *GameScene) Match() *match.Match {
	return s.match
}

// Session 返回场景的会话
func (s *GameScene) Session() *game.Session {
	return s.session
}
