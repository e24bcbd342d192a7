package components

// RoundPhase 回合阶段
type RoundPhase int

const (
	// PhaseWaitingToStart 等待外部"继续"触发
	PhaseWaitingToStart RoundPhase = iota

	// PhaseMusicPlaying 音乐播放中，角色绕圈
	PhaseMusicPlaying

	// PhaseCaptureWindow 音乐已停，可以占领槽位
	PhaseCaptureWindow

	// PhaseRoundResolved 回合结算，等待"继续"
	PhaseRoundResolved

	// PhaseGameOver 游戏结束（终态）
	PhaseGameOver
)

// String 返回 RoundPhase 的字符串表示
func (p RoundPhase) String() string {
	switch p {
	case PhaseWaitingToStart:
		return "WaitingToStart"
	case PhaseMusicPlaying:
		return "MusicPlaying"
	case PhaseCaptureWindow:
		return "CaptureWindow"
	case PhaseRoundResolved:
		return "RoundResolved"
	case PhaseGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// RoundComponent 回合状态（单例实体）
//
// 分数不做增量修改，每次结算时由槽位占领情况重新计算。
type RoundComponent struct {
	// Index 回合序号；游戏开始时为 0，每次"继续"加 1，第一回合为 1
	Index int

	// Phase 当前阶段
	Phase RoundPhase

	// CaptureEnabled 是否允许占领槽位
	CaptureEnabled bool

	// Elapsed 本回合音乐开始后经过的时间（秒）
	Elapsed float64

	// MusicStopAt 本回合抽取的停音时刻（秒）
	MusicStopAt float64

	// MusicEnded 本回合"音乐结束"通知是否已经处理
	MusicEnded bool

	// GraceRemaining 进入结算前剩余的宽限时间（秒），负值表示尚未开始计时
	GraceRemaining float64

	// ScoreBoy / ScoreGirl 最近一次结算的分数
	ScoreBoy  int
	ScoreGirl int

	// Winner 获胜者，GameOver 之前为 ActorNone
	Winner ActorIdentity
}
