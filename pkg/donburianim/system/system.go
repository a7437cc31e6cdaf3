// Package system 把 donburianim 接入 donburi 的 ecs.ECS 调度器
//
// 用法：
//
//	e := ecs.NewECS(donburi.NewWorld())
//	e.AddSystem(system.UpdateAnimations)
package system

import (
	"time"

	"github.com/decker502/spriteanim/pkg/donburianim"
	"github.com/yohamta/donburi/ecs"
)

// UpdateAnimations 以 donburianim.TickDelta 推进所有动画，可直接传给 ecs.AddSystem
func UpdateAnimations(e *ecs.ECS) {
	donburianim.Advance(e.World, donburianim.TickDelta)
}

// New 返回按固定时长推进的系统函数（用于非 60 TPS 的游戏）
func New(tick time.Duration) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		donburianim.Advance(e.World, tick)
	}
}
