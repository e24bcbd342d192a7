package match

import (
	"math"

	"github.com/decker502/musicalchairs/pkg/components"
	"github.com/decker502/musicalchairs/pkg/ecs"
	"github.com/decker502/musicalchairs/pkg/game"
)

// Autopilot 脚本化的玩家输入
//
// 用于无界面运行和集成测试：
//   - 等待开局 / 回合结算时，停顿 ContinueDelay 秒后松开继续键
//   - 音乐播放时进入绕圈模式
//   - 占领窗口打开后，停顿 ReactionTime 秒，再用方向键走向最近的空槽位；
//     本回合占到一个槽位后原地停下，其余槽位留给机器人
type Autopilot struct {
	ContinueDelay float64
	ReactionTime  float64
	// Deadzone 每个轴上距离目标小于该值时不再按键
	Deadzone float64

	phase     components.RoundPhase
	phaseTime float64
	continued bool
	// ownedAtOpen 占领窗口打开时玩家已占的槽位数
	ownedAtOpen int
}

// NewAutopilot 创建默认参数的脚本玩家
func NewAutopilot() *Autopilot {
	return &Autopilot{
		ContinueDelay: 0.5,
		ReactionTime:  0.3,
		Deadzone:      0.3,
		phase:         -1,
	}
}

// Next 根据对局状态生成本帧输入
//
// 参数：
//   - m: 对局
//   - deltaTime: 帧间隔（秒）
func (a *Autopilot) Next(m *Match, deltaTime float64) game.InputSnapshot {
	in := game.NewInputSnapshot()

	phase := m.Phase()
	if phase != a.phase {
		a.phase = phase
		a.phaseTime = 0
		a.continued = false
		if phase == components.PhaseCaptureWindow {
			a.ownedAtOpen = ownedSlots(m, playerIdentity(m))
		}
	} else {
		a.phaseTime += deltaTime
	}

	switch phase {
	case components.PhaseWaitingToStart, components.PhaseRoundResolved:
		if !a.continued && a.phaseTime >= a.ContinueDelay {
			in.Released[game.KeyContinue] = true
			a.continued = true
		}

	case components.PhaseMusicPlaying:
		in.Held[game.KeyJog] = true

	case components.PhaseCaptureWindow:
		if a.phaseTime < a.ReactionTime {
			break
		}
		if ownedSlots(m, playerIdentity(m)) > a.ownedAtOpen {
			break
		}
		a.steerToFreeSlot(m, in)
	}

	return in
}

// steerToFreeSlot 按方向键走向最近的空槽位
func (a *Autopilot) steerToFreeSlot(m *Match, in game.InputSnapshot) {
	tr, ok := m.Transform(m.Player())
	if !ok {
		return
	}

	target, found := nearestFreeSlot(m, tr.Position.X(), tr.Position.Z())
	if !found {
		return
	}

	dx := target.Position.X() - tr.Position.X()
	dz := target.Position.Z() - tr.Position.Z()
	switch {
	case dx > a.Deadzone:
		in.Held[game.KeyRight] = true
	case dx < -a.Deadzone:
		in.Held[game.KeyLeft] = true
	}
	switch {
	case dz > a.Deadzone:
		in.Held[game.KeyForward] = true
	case dz < -a.Deadzone:
		in.Held[game.KeyBack] = true
	}
}

// nearestFreeSlot 平面距离最近的空槽位
func nearestFreeSlot(m *Match, x, z float64) (*components.SlotComponent, bool) {
	var best *components.SlotComponent
	bestDist := math.Inf(1)
	for _, id := range m.Slots() {
		slot, ok := ecs.GetComponent[*components.SlotComponent](m.EntityManager(), id)
		if !ok || slot.Occupant != components.ActorNone {
			continue
		}
		d := math.Hypot(slot.Position.X()-x, slot.Position.Z()-z)
		if d < bestDist {
			best, bestDist = slot, d
		}
	}
	return best, best != nil
}

// playerIdentity 玩家角色身份
func playerIdentity(m *Match) components.ActorIdentity {
	actor, ok := m.Actor(m.Player())
	if !ok {
		return components.ActorNone
	}
	return actor.Identity
}

// ownedSlots 统计 who 占领的槽位数
func ownedSlots(m *Match, who components.ActorIdentity) int {
	count := 0
	for i := range m.Slots() {
		if slot, ok := m.Slot(i); ok && slot.Occupant == who && who != components.ActorNone {
			count++
		}
	}
	return count
}
