package game

import (
	"errors"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrNoSceneFactory 未设置场景工厂时 StartNewGame 返回的错误
var ErrNoSceneFactory = errors.New("scene factory not set")

// SceneFactory 场景工厂函数类型
// 为一局新游戏创建场景，避免 game 包依赖 scenes 包
type SceneFactory func(session *Session) (Scene, error)

// SceneManager manages the game's high-level state by controlling which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	session      *Session
	sceneFactory SceneFactory
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo or StartNewGame to set one.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene to the provided scene.
// The previous scene is disposed if it implements Disposable.
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene == scene {
		return
	}
	sm.disposeCurrent()
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Session 返回当前这局游戏的会话，尚未开局时返回 nil
func (sm *SceneManager) Session() *Session {
	return sm.session
}

// StartNewGame 创建新会话并切换到新场景
//
// 返回：
//   - error: 未设置工厂或场景创建失败时返回错误，当前场景保持不变
func (sm *SceneManager) StartNewGame() error {
	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] Error: SceneFactory not set")
		return ErrNoSceneFactory
	}

	session := NewSession()
	scene, err := sm.sceneFactory(session)
	if err != nil {
		log.Printf("[SceneManager] Error: failed to create scene for session %s: %v", session.ShortID(), err)
		return err
	}

	sm.SwitchTo(scene)
	sm.session = session
	log.Printf("[SceneManager] Started session %s", session.ShortID())
	return nil
}

// Close 释放当前场景
func (sm *SceneManager) Close() {
	sm.disposeCurrent()
	sm.currentScene = nil
}

func (sm *SceneManager) disposeCurrent() {
	if d, ok := sm.currentScene.(Disposable); ok {
		d.Dispose()
	}
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
