// Package donburianim 在 donburi ECS 上播放精灵动画
//
// 语义与 systems.AnimationSystem 相同：
//   - 拥有 Animation 组件的实体自动获得 State 组件，失去 Animation 后 State 被移除
//   - 带 Playing 标签的实体按 Speed 推进时间
//   - Sprite 组件同步当前图集索引
//   - Once 动画结束后移除 Playing 标签
//
// 本包只依赖 donburi 核心，不依赖渲染，可用于无窗口的工具和服务端。
// 接入 ecs.ECS 的系统函数在子包 system 中。
//
// 用法：
//
//	world := donburi.NewWorld()
//	entry := world.Entry(world.Create(donburianim.Sprite))
//	donburianim.Play(entry, library.MustGet("hero_run"))
//	donburianim.Advance(world, donburianim.TickDelta)
package donburianim

import (
	"log"
	"time"

	"github.com/decker502/spriteanim/pkg/anim"
	"github.com/yohamta/donburi"
)

// TickDelta ebiten 默认 60 TPS 下每个 tick 的时长
const TickDelta = time.Second / 60

// AnimationData 实体播放的共享动画定义
type AnimationData struct {
	Animation *anim.Animation
}

// SpeedData 播放速度倍率，0 或负数表示暂停；没有该组件时按 1.0 播放
type SpeedData struct {
	Speed float64
}

// SpriteData 当前帧的图集索引，由宿主的渲染代码解析为图像
type SpriteData struct {
	Index uint
}

var (
	Animation = donburi.NewComponentType[AnimationData]()
	State     = donburi.NewComponentType[anim.State]()
	Speed     = donburi.NewComponentType[SpeedData]()
	Sprite    = donburi.NewComponentType[SpriteData]()
	Playing   = donburi.NewTag().SetName("Playing")
)

// Advance 推进世界中所有动画 delta 时长
func Advance(world donburi.World, delta time.Duration) {
	var missing, orphans, ended []*donburi.Entry

	Animation.Each(world, func(entry *donburi.Entry) {
		if !entry.HasComponent(State) {
			missing = append(missing, entry)
		}
	})
	for _, entry := range missing {
		entry.AddComponent(State)
		State.SetValue(entry, anim.NewState())
	}

	State.Each(world, func(entry *donburi.Entry) {
		if !entry.HasComponent(Animation) {
			orphans = append(orphans, entry)
		}
	})
	for _, entry := range orphans {
		entry.RemoveComponent(State)
	}

	State.Each(world, func(entry *donburi.Entry) {
		data := Animation.Get(entry)
		if data.Animation == nil || data.Animation.IsEmpty() {
			return
		}
		state := State.Get(entry)

		if entry.HasComponent(Playing) {
			d := delta
			if entry.HasComponent(Speed) {
				d = anim.ScaleDelta(delta, Speed.Get(entry).Speed)
			}
			state.Update(data.Animation, d)
			if state.IsEnded() {
				ended = append(ended, entry)
			}
		}

		if entry.HasComponent(Sprite) {
			Sprite.Get(entry).Index = state.SpriteFrameIndex()
		}
	})
	for _, entry := range ended {
		entry.RemoveComponent(Playing)
		log.Printf("[donburianim] Animation ended (entity %v)", entry.Entity())
	}
}

// Play 让实体从头播放指定动画
func Play(entry *donburi.Entry, animation *anim.Animation) {
	if !entry.HasComponent(Animation) {
		entry.AddComponent(Animation)
	}
	Animation.SetValue(entry, AnimationData{Animation: animation})
	Restart(entry)
}

// Restart 重置播放进度并恢复播放，对没有 Animation 组件的实体无效
func Restart(entry *donburi.Entry) {
	if !entry.HasComponent(Animation) {
		return
	}
	if !entry.HasComponent(State) {
		entry.AddComponent(State)
	}
	State.SetValue(entry, anim.NewState())
	if !entry.HasComponent(Playing) {
		entry.AddComponent(Playing)
	}
}
