package match

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/decker502/musicalchairs/pkg/components"
	"github.com/decker502/musicalchairs/pkg/config"
	"github.com/decker502/musicalchairs/pkg/ecs"
	"github.com/decker502/musicalchairs/pkg/entities"
	"github.com/decker502/musicalchairs/pkg/game"
	"github.com/decker502/musicalchairs/pkg/systems"
)

// Options 创建一局游戏所需的协作者
type Options struct {
	// Tuning 数值配置（必填，会先校验）
	Tuning *config.TuningConfig
	// Music 音乐服务，nil 时使用无限长的 SilentMusic
	Music game.MusicService
	// Presenter 回合界面，可为 nil
	Presenter systems.RoundPresenter
	// Recorder 统计记录，可为 nil
	Recorder systems.RoundRecorder
	// Rng 停音时刻随机源，nil 时使用全局随机源
	Rng *rand.Rand
	// Verbose 输出逐帧日志
	Verbose bool
	// Session 本局会话，nil 时新建
	Session *game.Session
}

// Result 一局游戏的结果
type Result struct {
	SessionID string
	Over      bool
	Winner    components.ActorIdentity
	Rounds    int
	ScoreBoy  int
	ScoreGirl int
}

// Match 一局游戏的完整模拟世界
//
// 世界（场地、两个角色、五个槽位）只构建一次；每帧按固定顺序推进：
// 移动 → 转向 → 物理 → 占领 → 回合 → 动画 → 音乐。
type Match struct {
	tuning  *config.TuningConfig
	em      *ecs.EntityManager
	session *game.Session

	physics    *systems.PhysicsSystem
	animation  *systems.AnimationSystem
	locomotion *systems.LocomotionSystem
	steering   *systems.SteeringSystem
	capture    *systems.CaptureSystem
	round      *systems.RoundSystem
	music      game.MusicService

	player ecs.EntityID
	bot    ecs.EntityID
	slots  []ecs.EntityID

	clock float64
	ticks int
}

// NewMatch 构建世界并连接所有系统
//
// 返回：
//   - *Match: 对局实例，调用 Start 后显示开局面板
//   - error: 配置无效或实体创建失败时返回错误
func NewMatch(opts Options) (*Match, error) {
	if opts.Tuning == nil {
		return nil, fmt.Errorf("tuning config cannot be nil")
	}
	if err := opts.Tuning.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning: %w", err)
	}
	if opts.Music == nil {
		opts.Music = game.NewSilentMusic(0)
	}
	if opts.Session == nil {
		opts.Session = game.NewSession()
	}

	m := &Match{
		tuning:  opts.Tuning,
		em:      ecs.NewEntityManager(),
		session: opts.Session,
		music:   opts.Music,
	}

	var err error
	if m.player, err = entities.NewPlayerEntity(m.em, m.tuning); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	if m.bot, err = entities.NewBotEntity(m.em, m.tuning); err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	if m.slots, err = entities.NewSlotEntities(m.em, m.tuning.Slots); err != nil {
		return nil, fmt.Errorf("failed to create slots: %w", err)
	}

	m.physics = systems.NewPhysicsSystem(m.em, m.tuning.Arena)
	m.animation = systems.NewAnimationSystem(m.em)
	m.locomotion = systems.NewLocomotionSystem(m.em, m.physics, m.animation, m.tuning.Player)
	m.steering = systems.NewSteeringSystem(m.em, m.physics, m.animation, m.tuning.Bot)
	m.capture = systems.NewCaptureSystem(m.em)
	m.round = systems.NewRoundSystem(m.em, systems.RoundSystemDeps{
		Tuning:     m.tuning.Round,
		Music:      m.music,
		Physics:    m.physics,
		Locomotion: m.locomotion,
		Steering:   m.steering,
		Capture:    m.capture,
		Player:     m.player,
		Bot:        m.bot,
		Presenter:  opts.Presenter,
		Recorder:   opts.Recorder,
		Rng:        opts.Rng,
	})

	m.locomotion.SetVerbose(opts.Verbose)
	m.steering.SetVerbose(opts.Verbose)
	m.round.SetVerbose(opts.Verbose)

	log.Printf("[Match] Session %s: world built, player %d, bot %d, %d slots", m.session.ShortID(), m.player, m.bot, len(m.slots))
	return m, nil
}

// Start 显示开局面板，等待第一次"继续"
func (m *Match) Start() {
	log.Printf("[Match] Session %s: waiting for first round", m.session.ShortID())
	m.round.Start()
}

// Step 推进一帧
//
// 参数：
//   - deltaTime: 帧间隔（秒）
//   - input: 本帧输入快照；KeyContinue 松开时请求继续
func (m *Match) Step(deltaTime float64, input game.InputSnapshot) {
	if input.WasReleased(game.KeyContinue) {
		m.round.RequestContinue()
	}

	m.locomotion.Update(deltaTime, input)
	m.steering.Update(deltaTime)
	m.physics.Update(deltaTime)
	m.capture.Update(deltaTime)
	wasOver := m.IsOver()
	m.round.Update(deltaTime)
	if !wasOver && m.IsOver() {
		log.Printf("[Match] Session %s: game over, winner %s", m.session.ShortID(), m.round.Round().Winner)
	}
	m.animation.Update(deltaTime)
	m.music.Update(deltaTime)

	m.clock += deltaTime
	m.ticks++
}

// RequestContinue 请求开始 / 继续（等同于松开 KeyContinue）
func (m *Match) RequestContinue() {
	m.round.RequestContinue()
}

// SetPresenter 替换回合界面
func (m *Match) SetPresenter(p systems.RoundPresenter) {
	m.round.SetPresenter(p)
}

// Phase 当前回合阶段
func (m *Match) Phase() components.RoundPhase {
	return m.round.Phase()
}

// Round 回合组件（只读使用）
func (m *Match) Round() *components.RoundComponent {
	return m.round.Round()
}

// IsOver 游戏是否结束
func (m *Match) IsOver() bool {
	return m.round.Phase() == components.PhaseGameOver
}

// Result 当前结果；Over 为 false 时 Winner 无意义
func (m *Match) Result() Result {
	round := m.round.Round()
	rounds := round.Index
	if round.Phase == components.PhaseGameOver {
		rounds = round.Index - 1
	}
	return Result{
		SessionID: m.session.ID,
		Over:      round.Phase == components.PhaseGameOver,
		Winner:    round.Winner,
		Rounds:    rounds,
		ScoreBoy:  round.ScoreBoy,
		ScoreGirl: round.ScoreGirl,
	}
}

// EntityManager 实体管理器（渲染与测试读取组件用）
func (m *Match) EntityManager() *ecs.EntityManager {
	return m.em
}

// Player 玩家实体
func (m *Match) Player() ecs.EntityID {
	return m.player
}

// Bot 机器人实体
func (m *Match) Bot() ecs.EntityID {
	return m.bot
}

// Slots 按注册顺序的槽位实体
func (m *Match) Slots() []ecs.EntityID {
	return m.slots
}

// Session 本局会话
func (m *Match) Session() *game.Session {
	return m.session
}

// Tuning 数值配置
func (m *Match) Tuning() *config.TuningConfig {
	return m.tuning
}

// Music 音乐服务
func (m *Match) Music() game.MusicService {
	return m.music
}

// Clock 已模拟的总时间（秒）
func (m *Match) Clock() float64 {
	return m.clock
}

// Ticks 已推进的帧数
func (m *Match) Ticks() int {
	return m.ticks
}

// Transform 读取实体的变换组件
func (m *Match) Transform(id ecs.EntityID) (*components.TransformComponent, bool) {
	return ecs.GetComponent[*components.TransformComponent](m.em, id)
}

// Actor 读取实体的角色组件
func (m *Match) Actor(id ecs.EntityID) (*components.ActorComponent, bool) {
	return ecs.GetComponent[*components.ActorComponent](m.em, id)
}

// Slot 读取第 i 个槽位
func (m *Match) Slot(i int) (*components.SlotComponent, bool) {
	if i < 0 || i >= len(m.slots) {
		return nil, false
	}
	return ecs.GetComponent[*components.SlotComponent](m.em, m.slots[i])
}

// CurrentClip 实体当前播放的动画片段
func (m *Match) CurrentClip(id ecs.EntityID) string {
	return m.animation.Current(id)
}
