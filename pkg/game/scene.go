package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a game scene (the arena, a result screen).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Disposable 是一个可选接口，场景被替换或程序退出时释放资源
//
// 实现此接口的场景会在以下时机被调用 Dispose()：
//   - SceneManager 切换到另一个场景（例如"再来一局"）
//   - 游戏窗口关闭
type Disposable interface {
	Dispose()
}
