package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 一个可以独立更新和绘制的画面（如动画预览）
type Scene interface {
	// Update 推进场景逻辑，deltaTime 为距上一帧的秒数
	Update(deltaTime float64)

	// Draw 把场景绘制到 screen
	Draw(screen *ebiten.Image)
}

// Saveable 可选接口：场景在程序退出时保存状态
type Saveable interface {
	// SaveOnExit 保存状态，返回 false 表示保存失败（程序仍会正常退出）
	SaveOnExit() bool
}
