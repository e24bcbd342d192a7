package scenes

import (
	"github.com/decker502/musicalchairs/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// heldBindings 持续按住生效的键位
var heldBindings = map[game.Key][]ebiten.Key{
	game.KeyForward: {ebiten.KeyW, ebiten.KeyArrowUp},
	game.KeyBack:    {ebiten.KeyS, ebiten.KeyArrowDown},
	game.KeyLeft:    {ebiten.KeyA, ebiten.KeyArrowLeft},
	game.KeyRight:   {ebiten.KeyD, ebiten.KeyArrowRight},
	game.KeyJog:     {ebiten.KeyJ},
}

// releaseBindings 松开时触发一次的键位
var releaseBindings = map[game.Key][]ebiten.Key{
	game.KeyContinue:    {ebiten.KeyEnter, ebiten.KeySpace},
	game.KeyToggleMusic: {ebiten.KeyM},
}

// ReadKeyboard 读取本帧键盘状态并转换为逻辑按键快照
//
// 必须在 ebiten 的 Update 中调用，inpututil 的"刚松开"状态只在当前 tick 有效。
func ReadKeyboard() game.InputSnapshot {
	in := game.NewInputSnapshot()

	for key, physical := range heldBindings {
		for _, k := range physical {
			if ebiten.IsKeyPressed(k) {
				in.Held[key] = true
				break
			}
		}
	}

	for key, physical := range releaseBindings {
		for _, k := range physical {
			if inpututil.IsKeyJustReleased(k) {
				in.Released[key] = true
				break
			}
		}
	}

	return in
}
