package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneManager 管理当前活动场景，同一时刻只有一个场景被更新和绘制
type SceneManager struct {
	currentScene Scene
}

// NewSceneManager 创建没有活动场景的管理器，使用 SwitchTo 设置初始场景
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SwitchTo 切换活动场景，切换前会让旧场景保存状态
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.SaveCurrent()
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// SaveCurrent 如果当前场景实现了 Saveable，调用其 SaveOnExit
func (sm *SceneManager) SaveCurrent() {
	saveable, ok := sm.currentScene.(Saveable)
	if !ok {
		return
	}
	if !saveable.SaveOnExit() {
		log.Printf("[SceneManager] Warning: 场景保存失败")
	}
}

// Update 更新当前场景
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
