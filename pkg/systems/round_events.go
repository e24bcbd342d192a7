package systems

// RoundEventKind 回合事件类型
type RoundEventKind int

const (
	// EventContinue 外部"开始 / 继续"触发
	EventContinue RoundEventKind = iota
	// EventMusicEnded 音乐结束（提前停止或自然播完）
	EventMusicEnded
)

// String 返回 RoundEventKind 的字符串表示
func (k RoundEventKind) String() string {
	switch k {
	case EventContinue:
		return "Continue"
	case EventMusicEnded:
		return "MusicEnded"
	default:
		return "Unknown"
	}
}

// RoundEvent 投递给回合协调器的外部事件
type RoundEvent struct {
	Kind   RoundEventKind
	Source string // 事件来源，仅用于日志和指标（如 "deadline"、"natural"、"ui"）
}

// RoundEventQueue 回合事件队列
//
// 外部通知（按钮点击、音乐播完回调）不会立即改变状态，
// 而是投递到队列，在协调器下一次 Update 开头按投递顺序处理。
// 整个模拟是单线程的，队列不加锁。
type RoundEventQueue struct {
	events []RoundEvent
}

// Post 投递事件
func (q *RoundEventQueue) Post(event RoundEvent) {
	q.events = append(q.events, event)
}

// Drain 取出全部待处理事件并清空队列
func (q *RoundEventQueue) Drain() []RoundEvent {
	if len(q.events) == 0 {
		return nil
	}
	events := q.events
	q.events = nil
	return events
}

// Len 待处理事件数
func (q *RoundEventQueue) Len() int {
	return len(q.events)
}
