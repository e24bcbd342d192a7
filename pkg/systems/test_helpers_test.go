package systems

import (
	"math/rand"
	"testing"

	"github.com/decker502/musicalchairs/pkg/components"
	"github.com/decker502/musicalchairs/pkg/config"
	"github.com/decker502/musicalchairs/pkg/ecs"
	"github.com/decker502/musicalchairs/pkg/entities"
	"github.com/decker502/musicalchairs/pkg/game"
)

// testWorld 测试用的完整模拟世界
// 系统更新顺序与正式对局一致：移动 → 转向 → 物理 → 占领 → 回合 → 动画 → 音乐
type testWorld struct {
	tuning *config.TuningConfig
	em     *ecs.EntityManager

	physics    *PhysicsSystem
	animation  *AnimationSystem
	locomotion *LocomotionSystem
	steering   *SteeringSystem
	capture    *CaptureSystem
	round      *RoundSystem

	music     *game.SilentMusic
	presenter *recordingPresenter
	recorder  *countingRecorder

	player ecs.EntityID
	bot    ecs.EntityID
	slots  []ecs.EntityID
}

// newTestWorld 创建测试世界
// mutate 可在创建系统之前修改数值配置
func newTestWorld(t *testing.T, mutate func(*config.TuningConfig)) *testWorld {
	t.Helper()

	tuning := config.DefaultTuning()
	if mutate != nil {
		mutate(tuning)
	}
	if err := tuning.Validate(); err != nil {
		t.Fatalf("invalid test tuning: %v", err)
	}

	w := &testWorld{
		tuning:    tuning,
		em:        ecs.NewEntityManager(),
		music:     game.NewSilentMusic(0),
		presenter: &recordingPresenter{},
		recorder:  &countingRecorder{},
	}

	var err error
	if w.player, err = entities.NewPlayerEntity(w.em, tuning); err != nil {
		t.Fatalf("create player: %v", err)
	}
	if w.bot, err = entities.NewBotEntity(w.em, tuning); err != nil {
		t.Fatalf("create bot: %v", err)
	}
	if w.slots, err = entities.NewSlotEntities(w.em, tuning.Slots); err != nil {
		t.Fatalf("create slots: %v", err)
	}

	w.physics = NewPhysicsSystem(w.em, tuning.Arena)
	w.animation = NewAnimationSystem(w.em)
	w.locomotion = NewLocomotionSystem(w.em, w.physics, w.animation, tuning.Player)
	w.steering = NewSteeringSystem(w.em, w.physics, w.animation, tuning.Bot)
	w.capture = NewCaptureSystem(w.em)
	w.round = NewRoundSystem(w.em, RoundSystemDeps{
		Tuning:     tuning.Round,
		Music:      w.music,
		Physics:    w.physics,
		Locomotion: w.locomotion,
		Steering:   w.steering,
		Capture:    w.capture,
		Player:     w.player,
		Bot:        w.bot,
		Presenter:  w.presenter,
		Recorder:   w.recorder,
		Rng:        rand.New(rand.NewSource(1)),
	})
	return w
}

// tick 按正式顺序推进一帧
func (w *testWorld) tick(dt float64, input game.InputSnapshot) {
	w.locomotion.Update(dt, input)
	w.steering.Update(dt)
	w.physics.Update(dt)
	w.capture.Update(dt)
	w.round.Update(dt)
	w.animation.Update(dt)
	w.music.Update(dt)
}

// runUntil 推进直到 cond 为真，最多 maxTicks 帧
func (w *testWorld) runUntil(t *testing.T, dt float64, maxTicks int, cond func() bool) int {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		if cond() {
			return i
		}
		w.tick(dt, game.NewInputSnapshot())
	}
	if !cond() {
		t.Fatalf("condition not reached after %d ticks (phase %s)", maxTicks, w.round.Phase())
	}
	return maxTicks
}

func (w *testWorld) transform(id ecs.EntityID) *components.TransformComponent {
	tr, _ := ecs.GetComponent[*components.TransformComponent](w.em, id)
	return tr
}

func (w *testWorld) actor(id ecs.EntityID) *components.ActorComponent {
	a, _ := ecs.GetComponent[*components.ActorComponent](w.em, id)
	return a
}

func (w *testWorld) slot(i int) *components.SlotComponent {
	s, _ := ecs.GetComponent[*components.SlotComponent](w.em, w.slots[i])
	return s
}

// held 构造按住指定按键的输入
func held(keys ...game.Key) game.InputSnapshot {
	in := game.NewInputSnapshot()
	for _, k := range keys {
		in.Held[k] = true
	}
	return in
}

// recordingPresenter 记录界面调用
type recordingPresenter struct {
	readyCount int
	results    [][3]int
	victories  []components.ActorIdentity
}

func (p *recordingPresenter) ShowReady() { p.readyCount++ }
func (p *recordingPresenter) ShowRoundResult(round, boy, girl int) {
	p.results = append(p.results, [3]int{round, boy, girl})
}
func (p *recordingPresenter) ShowVictory(winner components.ActorIdentity) {
	p.victories = append(p.victories, winner)
}

// countingRecorder 记录统计调用
type countingRecorder struct {
	roundsStarted int
	musicStops    []string
	captures      []string
	resolved      int
	gameOvers     []string
}

func (r *countingRecorder) RoundStarted(int) { r.roundsStarted++ }
func (r *countingRecorder) MusicStopped(source string, _ float64) {
	r.musicStops = append(r.musicStops, source)
}
func (r *countingRecorder) SlotCaptured(occupant string) {
	r.captures = append(r.captures, occupant)
}
func (r *countingRecorder) RoundResolved(int, int, float64) { r.resolved++ }
func (r *countingRecorder) GameOver(winner string, _ int) {
	r.gameOvers = append(r.gameOvers, winner)
}
