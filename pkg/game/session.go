package game

import (
	"time"

	"github.com/google/uuid"
)

// Session 一次游戏会话
//
// 从第一回合开始到 GameOver（或"再玩一次"）为止。
// ID 仅用于日志和指标关联，不做持久化。
type Session struct {
	ID        string
	StartedAt time.Time
}

// NewSession 创建新的游戏会话
func NewSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
}

// ShortID 返回会话 ID 前 8 位，用于日志前缀
func (s *Session) ShortID() string {
	if len(s.ID) < 8 {
		return s.ID
	}
	return s.ID[:8]
}
