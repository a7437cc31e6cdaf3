package utils

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// SpeedRampDuration 播放速度从当前值过渡到目标值所用的时间（秒）
const SpeedRampDuration = 0.35

// SpeedRamp 平滑过渡的播放速度，目标速度通过缓出补间逐渐逼近
type SpeedRamp struct {
	current float64
	target  float64
	tween   *gween.Tween
}

// NewSpeedRamp 创建初始速度为 speed 的速度补间
func NewSpeedRamp(speed float64) *SpeedRamp {
	return &SpeedRamp{current: speed, target: speed}
}

// RampTo 从当前值开始向 target 过渡
func (r *SpeedRamp) RampTo(target float64) {
	if target == r.target {
		return
	}
	r.target = target
	r.tween = gween.New(float32(r.current), float32(target), SpeedRampDuration, ease.OutCubic)
}

// Set 立即切换到 speed，取消正在进行的过渡
func (r *SpeedRamp) Set(speed float64) {
	r.current = speed
	r.target = speed
	r.tween = nil
}

// Update 推进补间，返回当前速度
func (r *SpeedRamp) Update(deltaTime float64) float64 {
	if r.tween == nil {
		return r.current
	}
	value, finished := r.tween.Update(float32(deltaTime))
	if finished {
		r.current = r.target
		r.tween = nil
	} else {
		r.current = float64(value)
	}
	return r.current
}

// Current 当前速度
func (r *SpeedRamp) Current() float64 {
	return r.current
}

// Target 目标速度
func (r *SpeedRamp) Target() float64 {
	return r.target
}
