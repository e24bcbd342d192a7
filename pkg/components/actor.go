package components

import (
	"github.com/decker502/musicalchairs/pkg/config"
	"github.com/go-gl/mathgl/mgl64"
)

// ActorIdentity 角色身份（同时用作槽位占领者）
type ActorIdentity int

const (
	// ActorNone 无角色（空槽位）
	ActorNone ActorIdentity = iota

	// ActorBoy 玩家控制的角色
	ActorBoy

	// ActorGirl 机器人角色
	ActorGirl
)

// String 返回 ActorIdentity 的字符串表示
func (a ActorIdentity) String() string {
	switch a {
	case ActorNone:
		return "None"
	case ActorBoy:
		return "Boy"
	case ActorGirl:
		return "Girl"
	default:
		return "Unknown"
	}
}

// LocomotionState 角色移动状态
type LocomotionState int

const (
	// LocomotionIdle 静止
	LocomotionIdle LocomotionState = iota

	// LocomotionWalking 行走（机器人寻路时）
	LocomotionWalking

	// LocomotionRunning 奔跑（玩家速度超过阈值时）
	LocomotionRunning

	// LocomotionJogging 绕圈慢跑（玩家绕圈模式或机器人绕圈）
	LocomotionJogging

	// LocomotionCelebrating 庆祝（机器人到达槽位后）
	LocomotionCelebrating
)

// String 返回 LocomotionState 的字符串表示
func (s LocomotionState) String() string {
	switch s {
	case LocomotionIdle:
		return "Idle"
	case LocomotionWalking:
		return "Walking"
	case LocomotionRunning:
		return "Running"
	case LocomotionJogging:
		return "Jogging"
	case LocomotionCelebrating:
		return "Celebrating"
	default:
		return "Unknown"
	}
}

// ActorComponent 角色组件
//
// 标记一个实体为参与游戏的角色，保存身份、当前移动状态、
// 回合开始时的站位以及该角色可用的动画集合。
type ActorComponent struct {
	// Identity 角色身份，决定占领槽位时写入的占领者
	Identity ActorIdentity

	// State 当前移动状态
	State LocomotionState

	// StartPosition 回合开始站位（第 2 回合起每回合复位到这里）
	StartPosition mgl64.Vec3

	// Animations 状态到动画片段的映射
	Animations config.AnimationSetConfig
}

// ClipFor 返回移动状态对应的动画片段名，未配置时返回空字符串
func (c *ActorComponent) ClipFor(state LocomotionState) string {
	switch state {
	case LocomotionIdle:
		return c.Animations.Idle
	case LocomotionWalking:
		return c.Animations.Walking
	case LocomotionRunning:
		return c.Animations.Running
	case LocomotionJogging:
		return c.Animations.Jogging
	case LocomotionCelebrating:
		return c.Animations.Celebrating
	default:
		return ""
	}
}
