package scenes

import (
	"github.com/decker502/spriteanim/pkg/game"
)

// Scene 是 game.Scene 的别名，场景实现只需满足 game.Scene 接口
type Scene = game.Scene

var (
	_ Scene         = (*PreviewScene)(nil)
	_ game.Saveable = (*PreviewScene)(nil)
)
