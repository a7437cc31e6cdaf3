package components

import (
	"time"

	"github.com/decker502/spriteanim/pkg/anim"
)

// AnimationComponent 指定实体播放的动画
//
// Animation 是共享的只读定义（通常来自 config.AnimationLibrary），
// 多个实体可以引用同一个定义。替换 Animation 不会重置播放进度；
// 需要从头播放时调用 AnimationSystem.Restart。
type AnimationComponent struct {
	Animation *anim.Animation
}

// AnimationStateComponent 实体自己的播放进度
//
// 由 AnimationSystem 自动添加：拥有 AnimationComponent 的实体
// 在下一次 Update 时获得该组件；AnimationComponent 被移除后，
// 该组件也会在下一次 Update 时被移除。
type AnimationStateComponent struct {
	State anim.State
}

// PlayComponent 标记组件：拥有它的实体每帧推进动画
//
// Once 模式的动画结束后，AnimationSystem 会移除该组件，
// 实体停在最后一帧。
type PlayComponent struct{}

// PlaybackSpeedComponent 播放速度倍率
//
// 缺省为 1.0；0 表示暂停，2.0 表示两倍速。负数按 0 处理。
type PlaybackSpeedComponent struct {
	Speed float64
}

// Scale 按倍率缩放一帧的时间增量
func (c *PlaybackSpeedComponent) Scale(delta time.Duration) time.Duration {
	if c == nil {
		return delta
	}
	return anim.ScaleDelta(delta, c.Speed)
}
