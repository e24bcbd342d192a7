package game

// Key 逻辑按键
//
// 模拟核心只认识逻辑按键，物理键位到逻辑按键的映射由场景层负责
// （见 pkg/scenes/input_mapping.go）。
type Key int

const (
	// KeyForward 向前（+Z）
	KeyForward Key = iota
	// KeyBack 向后（-Z）
	KeyBack
	// KeyLeft 向左（-X）
	KeyLeft
	// KeyRight 向右（+X）
	KeyRight
	// KeyJog 切换绕圈慢跑
	KeyJog
	// KeyContinue 开始 / 继续下一回合
	KeyContinue
	// KeyToggleMusic 暂停 / 恢复背景音乐
	KeyToggleMusic
)

// String 返回 Key 的字符串表示
func (k Key) String() string {
	switch k {
	case KeyForward:
		return "Forward"
	case KeyBack:
		return "Back"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyJog:
		return "Jog"
	case KeyContinue:
		return "Continue"
	case KeyToggleMusic:
		return "ToggleMusic"
	default:
		return "Unknown"
	}
}

// InputSnapshot 一帧的输入快照
//
// Held 为本帧按住的按键；Released 为本帧刚松开的按键（一次性动作）。
// 模拟核心只读取快照，不持有它。
type InputSnapshot struct {
	Held     map[Key]bool
	Released map[Key]bool
}

// NewInputSnapshot 创建空的输入快照
func NewInputSnapshot() InputSnapshot {
	return InputSnapshot{
		Held:     make(map[Key]bool),
		Released: make(map[Key]bool),
	}
}

// IsHeld 按键是否按住（nil map 视为未按下）
func (in InputSnapshot) IsHeld(k Key) bool {
	return in.Held[k]
}

// WasReleased 按键是否在本帧松开
func (in InputSnapshot) WasReleased(k Key) bool {
	return in.Released[k]
}

// AnyHeld 任一按键按住时返回 true
func (in InputSnapshot) AnyHeld(keys ...Key) bool {
	for _, k := range keys {
		if in.Held[k] {
			return true
		}
	}
	return false
}
