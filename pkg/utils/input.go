// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// SwipeThreshold 判定为滑动的最小位移（像素），小于它视为点击
const SwipeThreshold = 40

// Gesture 一次按下到释放之间的指针手势
type Gesture int

const (
	GestureNone Gesture = iota
	GestureTap
	GestureSwipeLeft
	GestureSwipeRight
	GestureSwipeUp
	GestureSwipeDown
)

// ClassifyGesture 根据按下到释放的位移判定手势
// 位移较大的轴决定滑动方向
func ClassifyGesture(dx, dy int) Gesture {
	adx, ady := abs(dx), abs(dy)
	if adx < SwipeThreshold && ady < SwipeThreshold {
		return GestureTap
	}
	if adx >= ady {
		if dx < 0 {
			return GestureSwipeLeft
		}
		return GestureSwipeRight
	}
	if dy < 0 {
		return GestureSwipeUp
	}
	return GestureSwipeDown
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// GestureTracker 统一跟踪鼠标和触摸输入
//
// 每帧调用一次 Update，释放指针的那一帧返回识别出的手势和按下位置。
// 触摸优先于鼠标；同一时间只跟踪第一个触摸点。
type GestureTracker struct {
	pressed        bool
	touch          bool
	touchID        ebiten.TouchID
	startX, startY int
	lastX, lastY   int
}

// Update 读取当前帧的输入
//
// 返回：
//   - Gesture: 本帧完成的手势，没有完成时为 GestureNone
//   - x, y: 手势起点
func (g *GestureTracker) Update() (Gesture, int, int) {
	if !g.pressed {
		if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
			x, y := ebiten.TouchPosition(ids[0])
			g.begin(x, y)
			g.touch = true
			g.touchID = ids[0]
		} else if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			x, y := ebiten.CursorPosition()
			g.begin(x, y)
		}
		return GestureNone, 0, 0
	}

	if g.touch {
		// 触摸释放后 TouchPosition 返回 (0, 0)，使用最后一次记录的位置
		if !inpututil.IsTouchJustReleased(g.touchID) {
			g.lastX, g.lastY = ebiten.TouchPosition(g.touchID)
			return GestureNone, 0, 0
		}
	} else {
		if !inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			return GestureNone, 0, 0
		}
		g.lastX, g.lastY = ebiten.CursorPosition()
	}
	return g.end()
}

// Feed 直接输入一次完整的按下与释放（用于测试和回放）
func (g *GestureTracker) Feed(startX, startY, endX, endY int) (Gesture, int, int) {
	g.begin(startX, startY)
	g.lastX, g.lastY = endX, endY
	return g.end()
}

func (g *GestureTracker) begin(x, y int) {
	g.pressed = true
	g.touch = false
	g.startX, g.startY = x, y
	g.lastX, g.lastY = x, y
}

func (g *GestureTracker) end() (Gesture, int, int) {
	g.pressed = false
	g.touch = false
	return ClassifyGesture(g.lastX-g.startX, g.lastY-g.startY), g.startX, g.startY
}

// Pressed 当前是否有未释放的指针
func (g *GestureTracker) Pressed() bool {
	return g.pressed
}
