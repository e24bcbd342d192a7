package systems

import (
	"log"
	"math/rand"

	"github.com/decker502/musicalchairs/pkg/components"
	"github.com/decker502/musicalchairs/pkg/config"
	"github.com/decker502/musicalchairs/pkg/ecs"
	"github.com/decker502/musicalchairs/pkg/game"
	"github.com/go-gl/mathgl/mgl64"
)

// RoundPresenter 回合界面
//
// 协调器只推送数据，界面负责显示，并通过 RoundSystem.RequestContinue 回传"继续"。
type RoundPresenter interface {
	// ShowReady 第一回合开始前
	ShowReady()
	// ShowRoundResult 回合结算
	ShowRoundResult(round, scoreBoy, scoreGirl int)
	// ShowVictory 游戏结束；平局封顶结束时 winner 为 ActorNone
	ShowVictory(winner components.ActorIdentity)
}

// RoundRecorder 回合统计
type RoundRecorder interface {
	RoundStarted(round int)
	MusicStopped(source string, atSeconds float64)
	SlotCaptured(occupant string)
	RoundResolved(scoreBoy, scoreGirl int, durationSeconds float64)
	GameOver(winner string, rounds int)
}

// NopRoundRecorder 不做任何统计
type NopRoundRecorder struct{}

func (NopRoundRecorder) RoundStarted(int) {}
func (NopRoundRecorder) MusicStopped(string, float64) {}
func (NopRoundRecorder) SlotCaptured(string) {}
func (NopRoundRecorder) RoundResolved(int, int, float64) {}
func (NopRoundRecorder) GameOver(string, int) {}

type nopPresenter struct{}

func (nopPresenter) ShowReady() {}
func (nopPresenter) ShowRoundResult(int, int, int) {}
func (nopPresenter) ShowVictory(components.ActorIdentity) {}

// DrawMusicStop 抽取本回合的停音时刻
//
// stopTime = safeZoneStart + r * (duration - safeZoneStart)，r ∈ [0, 1)，
// 因此结果总在 [safeZoneStartMs, durationMs] 内。
//
// 参数：
//   - rng: 随机源，nil 时使用全局随机源
//   - safeZoneStartMs: 安全区起点（毫秒）
//   - durationMs: 回合时长（毫秒）
//
// 返回：
//   - float64: 停音时刻（毫秒）
func DrawMusicStop(rng *rand.Rand, safeZoneStartMs, durationMs int) float64 {
	r := 0.0
	if rng != nil {
		r = rng.Float64()
	} else {
		r = rand.Float64()
	}
	span := float64(durationMs - safeZoneStartMs)
	if span < 0 {
		span = 0
	}
	return float64(safeZoneStartMs) + r*span
}

// CheckVictory 胜负判定
//
// 任一方达到阈值且双方不平分时产生胜者；达到阈值的平局继续游戏。
func CheckVictory(scoreBoy, scoreGirl, threshold int) (components.ActorIdentity, bool) {
	if max(scoreBoy, scoreGirl) < threshold || scoreBoy == scoreGirl {
		return components.ActorNone, false
	}
	if scoreBoy > scoreGirl {
		return components.ActorBoy, true
	}
	return components.ActorGirl, true
}

// RoundSystemDeps 回合协调器依赖
type RoundSystemDeps struct {
	Tuning     config.RoundConfig
	Music      game.MusicService
	Physics    *PhysicsSystem
	Locomotion *LocomotionSystem
	Steering   *SteeringSystem
	Capture    *CaptureSystem
	Player     ecs.EntityID
	Bot        ecs.EntityID
	Presenter  RoundPresenter
	Recorder   RoundRecorder
	Rng        *rand.Rand
}

// RoundSystem 回合协调器（状态机）
//
// 阶段：WaitingToStart → MusicPlaying → CaptureWindow → RoundResolved → (MusicPlaying | GameOver)
//
// 外部事件（继续、音乐自然播完）经 RoundEventQueue 投递，在下一次 Update 开头处理；
// 停音截止时刻和宽限计时在 Update 中按帧推进。两种停音来源都归并到同一个
// "音乐结束"处理，每回合只处理一次。
type RoundSystem struct {
	entityManager *ecs.EntityManager
	deps          RoundSystemDeps
	queue         RoundEventQueue

	roundEntityID ecs.EntityID
	verbose       bool
}

// NewRoundSystem 创建回合协调器
//
// 创建回合单例实体，注册音乐播完回调和机器人到达回调。
//
// 参数：
//   - em: 实体管理器
//   - deps: 依赖（Presenter / Recorder / Rng 可为 nil）
//
// 返回：
//   - *RoundSystem: 协调器实例
func NewRoundSystem(em *ecs.EntityManager, deps RoundSystemDeps) *RoundSystem {
	if deps.Presenter == nil {
		deps.Presenter = nopPresenter{}
	}
	if deps.Recorder == nil {
		deps.Recorder = NopRoundRecorder{}
	}

	s := &RoundSystem{
		entityManager: em,
		deps:          deps,
	}

	s.roundEntityID = em.CreateEntity()
	ecs.AddComponent(em, s.roundEntityID, &components.RoundComponent{
		Phase:          components.PhaseWaitingToStart,
		GraceRemaining: -1,
	})

	deps.Music.OnEnded(func() {
		s.queue.Post(RoundEvent{Kind: EventMusicEnded, Source: "natural"})
	})
	deps.Steering.SetArrivalListener(s.onBotArrived)
	deps.Capture.SetEnabled(false)
	deps.Capture.SetCaptureListener(func(_ *components.SlotComponent, who components.ActorIdentity) {
		s.deps.Recorder.SlotCaptured(who.String())
	})

	log.Printf("[RoundSystem] Created round entity (ID: %d), threshold %d", s.roundEntityID, deps.Tuning.ScoreThreshold)
	return s
}

// SetVerbose 设置是否输出详细日志
func (s *RoundSystem) SetVerbose(verbose bool) {
	s.verbose = verbose
}

// SetPresenter 替换回合界面
func (s *RoundSystem) SetPresenter(p RoundPresenter) {
	if p == nil {
		p = nopPresenter{}
	}
	s.deps.Presenter = p
}

// Start 显示开局面板，等待第一次"继续"
func (s *RoundSystem) Start() {
	s.deps.Presenter.ShowReady()
}

// Round 返回回合组件
func (s *RoundSystem) Round() *components.RoundComponent {
	round, _ := ecs.GetComponent[*components.RoundComponent](s.entityManager, s.roundEntityID)
	return round
}

// Phase 当前阶段
func (s *RoundSystem) Phase() components.RoundPhase {
	return s.Round().Phase
}

// RequestContinue 投递"继续"事件
func (s *RoundSystem) RequestContinue() {
	s.queue.Post(RoundEvent{Kind: EventContinue, Source: "ui"})
}

// Queue 返回事件队列（测试与外部投递用）
func (s *RoundSystem) Queue() *RoundEventQueue {
	return &s.queue
}

// Update 处理待处理事件并推进计时
//
// 参数：
//   - deltaTime: 帧间隔（秒）
func (s *RoundSystem) Update(deltaTime float64) {
	round := s.Round()

	for _, event := range s.queue.Drain() {
		switch event.Kind {
		case EventContinue:
			s.handleContinue(round)
		case EventMusicEnded:
			s.handleMusicEnded(round, event.Source)
		}
	}

	switch round.Phase {
	case components.PhaseMusicPlaying:
		round.Elapsed += deltaTime
		if round.Elapsed >= round.MusicStopAt {
			if s.deps.Music.IsPlaying() {
				s.deps.Music.Stop()
			}
			s.handleMusicEnded(round, "deadline")
		}

	case components.PhaseCaptureWindow:
		round.Elapsed += deltaTime
		if round.GraceRemaining >= 0 {
			round.GraceRemaining -= deltaTime
			if round.GraceRemaining <= 0 {
				s.resolveRound(round)
			}
		}
	}
}

// handleContinue 处理"继续"
//
// 只在 WaitingToStart 和 RoundResolved 阶段有效，其他阶段忽略。
func (s *RoundSystem) handleContinue(round *components.RoundComponent) {
	switch round.Phase {
	case components.PhaseWaitingToStart:
		round.Index++
		s.startRound(round)

	case components.PhaseRoundResolved:
		round.Index++

		if winner, ok := CheckVictory(round.ScoreBoy, round.ScoreGirl, s.deps.Tuning.ScoreThreshold); ok {
			s.gameOver(round, winner)
			return
		}

		if s.deps.Tuning.MaxRounds > 0 && round.Index > s.deps.Tuning.MaxRounds {
			// 封顶：分高者胜，平分记为无胜者
			winner := components.ActorNone
			switch {
			case round.ScoreBoy > round.ScoreGirl:
				winner = components.ActorBoy
			case round.ScoreGirl > round.ScoreBoy:
				winner = components.ActorGirl
			}
			log.Printf("[RoundSystem] Round cap %d reached", s.deps.Tuning.MaxRounds)
			s.gameOver(round, winner)
			return
		}

		s.startRound(round)

	default:
		log.Printf("[RoundSystem] Ignoring continue in phase %s", round.Phase)
	}
}

// startRound 开始一个回合
func (s *RoundSystem) startRound(round *components.RoundComponent) {
	if round.Index > 1 {
		s.repositionActors()
	}
	if s.deps.Tuning.ResetSlotsEachRound {
		s.deps.Capture.ResetSlots()
	}

	round.CaptureEnabled = false
	s.deps.Capture.SetEnabled(false)
	round.Elapsed = 0
	round.MusicEnded = false
	round.GraceRemaining = -1
	round.MusicStopAt = DrawMusicStop(s.deps.Rng, s.deps.Tuning.SafeZoneStartMs, s.deps.Tuning.DurationMs) / 1000

	if err := s.deps.Music.Play(); err != nil {
		// 没有音乐也能靠截止时刻推进回合
		log.Printf("[RoundSystem] Warning: failed to start music: %v", err)
	}

	s.deps.Steering.StartOrbit(s.deps.Bot)
	round.Phase = components.PhaseMusicPlaying

	s.deps.Recorder.RoundStarted(round.Index)
	log.Printf("[RoundSystem] Round %d started, music stops at %.2fs", round.Index, round.MusicStopAt)
}

// repositionActors 把两个角色放回开局站位
func (s *RoundSystem) repositionActors() {
	for _, id := range []ecs.EntityID{s.deps.Player, s.deps.Bot} {
		actor, ok := ecs.GetComponent[*components.ActorComponent](s.entityManager, id)
		if !ok {
			continue
		}
		transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		if !ok {
			continue
		}
		if id == s.deps.Player && s.deps.Locomotion != nil {
			s.deps.Locomotion.StopJog(id)
		}
		transform.Position = actor.StartPosition
		s.deps.Physics.SetLinearVelocity(id, mgl64.Vec3{})
		s.deps.Physics.SetAngularVelocity(id, mgl64.Vec3{})
	}
	s.deps.Steering.StopBehavior(s.deps.Bot)
	log.Printf("[RoundSystem] Actors repositioned")
}

// handleMusicEnded 音乐结束：打开占领，机器人前往最近槽位
func (s *RoundSystem) handleMusicEnded(round *components.RoundComponent, source string) {
	if round.Phase != components.PhaseMusicPlaying || round.MusicEnded {
		if s.verbose {
			log.Printf("[RoundSystem] Ignoring music ended (%s) in phase %s", source, round.Phase)
		}
		return
	}
	round.MusicEnded = true
	round.Phase = components.PhaseCaptureWindow
	round.CaptureEnabled = true
	s.deps.Capture.SetEnabled(true)

	s.deps.Recorder.MusicStopped(source, round.Elapsed)
	log.Printf("[RoundSystem] Music ended (%s) at %.2fs, capture window open", source, round.Elapsed)

	if !s.deps.Steering.StartSeek(s.deps.Bot, s.deps.Capture.Slots()) {
		// 没有目标，直接开始宽限计时
		s.startGrace(round)
	}
}

// onBotArrived 机器人到达槽位，开始宽限计时
func (s *RoundSystem) onBotArrived(id ecs.EntityID) {
	if id != s.deps.Bot {
		return
	}
	round := s.Round()
	if round.Phase != components.PhaseCaptureWindow || round.GraceRemaining >= 0 {
		return
	}
	s.startGrace(round)
}

func (s *RoundSystem) startGrace(round *components.RoundComponent) {
	round.GraceRemaining = float64(s.deps.Tuning.GraceMs) / 1000
	log.Printf("[RoundSystem] Grace period %.2fs started", round.GraceRemaining)
}

// resolveRound 结算：关闭占领，按占领情况重新计算分数
func (s *RoundSystem) resolveRound(round *components.RoundComponent) {
	round.Phase = components.PhaseRoundResolved
	round.CaptureEnabled = false
	round.GraceRemaining = -1
	s.deps.Capture.SetEnabled(false)

	round.ScoreBoy, round.ScoreGirl = s.deps.Capture.Scores()

	s.deps.Recorder.RoundResolved(round.ScoreBoy, round.ScoreGirl, round.Elapsed)
	s.deps.Presenter.ShowRoundResult(round.Index, round.ScoreBoy, round.ScoreGirl)
	log.Printf("[RoundSystem] Round %d resolved: Boy %d, Girl %d", round.Index, round.ScoreBoy, round.ScoreGirl)
}

// gameOver 进入终态
func (s *RoundSystem) gameOver(round *components.RoundComponent, winner components.ActorIdentity) {
	round.Phase = components.PhaseGameOver
	round.Winner = winner
	round.CaptureEnabled = false
	s.deps.Capture.SetEnabled(false)
	s.deps.Music.Stop()
	s.deps.Steering.StopBehavior(s.deps.Bot)

	rounds := round.Index - 1
	s.deps.Recorder.GameOver(winner.String(), rounds)
	s.deps.Presenter.ShowVictory(winner)
	log.Printf("[RoundSystem] Game over after %d rounds, winner: %s", rounds, winner)
}
