package scenes

import (
	"github.com/decker502/musicalchairs/pkg/game"
)

// Scene is a type alias for game.Scene.
// Scenes in this package are created through the SceneManager factory.
type Scene = game.Scene
