package match

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/decker502/musicalchairs/pkg/components"
	"github.com/decker502/musicalchairs/pkg/config"
	"github.com/decker502/musicalchairs/pkg/game"
	"github.com/decker502/musicalchairs/pkg/systems"
)

const frame = 1.0 / 30

type countingRecorder struct {
	started   int
	captures  map[string]int
	resolved  int
	gameOvers int
}

func (r *countingRecorder) RoundStarted(int)                { r.started++ }
func (r *countingRecorder) MusicStopped(string, float64)    {}
func (r *countingRecorder) SlotCaptured(occupant string)    { r.captures[occupant]++ }
func (r *countingRecorder) RoundResolved(int, int, float64) { r.resolved++ }
func (r *countingRecorder) GameOver(string, int)            { r.gameOvers++ }

func quickTuning() *config.TuningConfig {
	tuning := config.DefaultTuning()
	tuning.Round.SafeZoneStartMs = 1000
	tuning.Round.DurationMs = 2000
	tuning.Round.GraceMs = 1500
	return tuning
}

func TestNewMatchValidates(t *testing.T) {
	if _, err := NewMatch(Options{}); err == nil {
		t.Error("expected error for nil tuning")
	}

	bad := config.DefaultTuning()
	bad.Round.ScoreThreshold = 0
	_, err := NewMatch(Options{Tuning: bad})
	if !errors.Is(err, config.ErrInvalidTuning) {
		t.Errorf("expected ErrInvalidTuning, got %v", err)
	}
}

func TestNewMatchBuildsWorld(t *testing.T) {
	m, err := NewMatch(Options{Tuning: config.DefaultTuning()})
	if err != nil {
		t.Fatalf("NewMatch() error: %v", err)
	}

	if len(m.Slots()) != 5 {
		t.Fatalf("expected 5 slots, got %d", len(m.Slots()))
	}
	for i := range m.Slots() {
		slot, ok := m.Slot(i)
		if !ok || slot.Index != i || slot.Occupant != components.ActorNone {
			t.Errorf("slot %d not built correctly: %+v", i, slot)
		}
	}
	if _, ok := m.Slot(5); ok {
		t.Error("Slot(5) should not exist")
	}

	player, _ := m.Actor(m.Player())
	bot, _ := m.Actor(m.Bot())
	if player.Identity != components.ActorBoy || bot.Identity != components.ActorGirl {
		t.Errorf("unexpected identities %s / %s", player.Identity, bot.Identity)
	}
	if m.Phase() != components.PhaseWaitingToStart {
		t.Errorf("expected WaitingToStart, got %s", m.Phase())
	}
	if m.CurrentClip(m.Player()) != "idle" {
		t.Errorf("player should start idle, got %q", m.CurrentClip(m.Player()))
	}
}

func TestStepContinueFromInput(t *testing.T) {
	music := game.NewSilentMusic(0)
	m, err := NewMatch(Options{Tuning: config.DefaultTuning(), Music: music})
	if err != nil {
		t.Fatalf("NewMatch() error: %v", err)
	}
	m.Start()

	m.Step(frame, game.NewInputSnapshot())
	if m.Phase() != components.PhaseWaitingToStart {
		t.Fatalf("should wait without input, got %s", m.Phase())
	}

	in := game.NewInputSnapshot()
	in.Released[game.KeyContinue] = true
	m.Step(frame, in)

	if m.Phase() != components.PhaseMusicPlaying {
		t.Fatalf("expected MusicPlaying, got %s", m.Phase())
	}
	if !music.IsPlaying() {
		t.Error("music should be playing")
	}
	if m.Ticks() != 2 {
		t.Errorf("expected 2 ticks, got %d", m.Ticks())
	}
	if m.Music() != game.MusicService(music) {
		t.Error("Music() should return the injected service")
	}
}

// TestAutopilotPlaysFullGame 测试脚本玩家能把一局游戏打完
func TestAutopilotPlaysFullGame(t *testing.T) {
	recorder := &countingRecorder{captures: make(map[string]int)}
	m, err := NewMatch(Options{
		Tuning:   quickTuning(),
		Recorder: recorder,
		Rng:      rand.New(rand.NewSource(7)),
	})
	if err != nil {
		t.Fatalf("NewMatch() error: %v", err)
	}
	m.Start()

	pilot := NewAutopilot()
	for i := 0; i < 30*60*5 && !m.IsOver(); i++ {
		m.Step(frame, pilot.Next(m, frame))
	}

	if !m.IsOver() {
		t.Fatalf("game did not finish, phase %s, round %d", m.Phase(), m.Round().Index)
	}

	result := m.Result()
	if !result.Over || result.Winner == components.ActorNone {
		t.Errorf("expected a winner, got %+v", result)
	}
	if result.ScoreBoy+result.ScoreGirl > 5 {
		t.Errorf("scores exceed slot count: %+v", result)
	}
	if max(result.ScoreBoy, result.ScoreGirl) < 3 || result.ScoreBoy == result.ScoreGirl {
		t.Errorf("game over without a valid victory: %+v", result)
	}
	if result.Rounds != recorder.resolved || recorder.started != recorder.resolved {
		t.Errorf("rounds %d, started %d, resolved %d", result.Rounds, recorder.started, recorder.resolved)
	}
	if recorder.captures["Boy"] == 0 {
		t.Error("autopilot should capture at least one slot")
	}
	if recorder.captures["Boy"]+recorder.captures["Girl"] != result.ScoreBoy+result.ScoreGirl {
		t.Errorf("captures %v do not match final scores %+v", recorder.captures, result)
	}
	if recorder.gameOvers != 1 {
		t.Errorf("expected one game over, got %d", recorder.gameOvers)
	}
}

// TestAutopilotContinuesOnce 测试每个等待阶段只松开一次继续键
func TestAutopilotContinuesOnce(t *testing.T) {
	m, err := NewMatch(Options{Tuning: config.DefaultTuning()})
	if err != nil {
		t.Fatalf("NewMatch() error: %v", err)
	}

	pilot := NewAutopilot()
	pilot.ContinueDelay = 0.1

	presses := 0
	for i := 0; i < 10; i++ {
		in := pilot.Next(m, frame)
		if in.WasReleased(game.KeyContinue) {
			presses++
			// 不推进对局，阶段保持不变
		}
	}
	if presses != 1 {
		t.Errorf("expected one continue press, got %d", presses)
	}
}

// roundCaptureRecorder 按回合统计占领次数
type roundCaptureRecorder struct {
	systems.NopRoundRecorder
	current  map[string]int
	perRound []map[string]int
}

func (r *roundCaptureRecorder) RoundStarted(int) {
	r.current = make(map[string]int)
	r.perRound = append(r.perRound, r.current)
}

func (r *roundCaptureRecorder) SlotCaptured(occupant string) {
	r.current[occupant]++
}

// TestAutopilotTakesOneSlotPerRound 测试脚本玩家每回合只占一个槽位，游戏持续多个回合
func TestAutopilotTakesOneSlotPerRound(t *testing.T) {
	for _, seed := range []int64{1, 7, 42} {
		recorder := &roundCaptureRecorder{}
		m, err := NewMatch(Options{
			Tuning:   quickTuning(),
			Recorder: recorder,
			Rng:      rand.New(rand.NewSource(seed)),
		})
		if err != nil {
			t.Fatalf("NewMatch() error: %v", err)
		}
		m.Start()

		pilot := NewAutopilot()
		for i := 0; i < 30*60*5 && !m.IsOver(); i++ {
			m.Step(frame, pilot.Next(m, frame))
		}
		if !m.IsOver() {
			t.Fatalf("seed %d: game did not finish", seed)
		}

		for i, captures := range recorder.perRound {
			if captures["Boy"] > 1 {
				t.Errorf("seed %d round %d: player captured %d slots", seed, i+1, captures["Boy"])
			}
		}
		// 每回合每方最多得一分，达到阈值至少需要三个回合
		if result := m.Result(); result.Rounds < 3 {
			t.Errorf("seed %d: game ended after %d rounds: %+v", seed, result.Rounds, result)
		}
	}
}

func TestMatchCarriesSession(t *testing.T) {
	session := game.NewSession()
	m, err := NewMatch(Options{Tuning: config.DefaultTuning(), Session: session})
	if err != nil {
		t.Fatalf("NewMatch() error: %v", err)
	}
	if m.Session() != session || m.Result().SessionID != session.ID {
		t.Errorf("match should carry session %s, got %s", session.ID, m.Result().SessionID)
	}

	fresh, err := NewMatch(Options{Tuning: config.DefaultTuning()})
	if err != nil {
		t.Fatalf("NewMatch() error: %v", err)
	}
	if fresh.Session() == nil || fresh.Result().SessionID == "" || fresh.Result().SessionID == session.ID {
		t.Error("match without a session should create its own")
	}
}
