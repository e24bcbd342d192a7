package config

import (
	"errors"
	"fmt"
)

// 包级哨兵错误，调用方可以用 errors.Is 判断
var (
	// ErrInvalidTuning 数值配置校验失败
	ErrInvalidTuning = errors.New("invalid tuning config")
	// ErrInvalidLaunch 启动配置校验失败
	ErrInvalidLaunch = errors.New("invalid launch config")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTuning, fmt.Sprintf(format, args...))
}
