package anim

import (
	"fmt"
	"math"
	"time"
)

// FrameRate 描述每帧的显示时长
//
// 只在构建 Animation 时使用，播放过程中不再参与计算。
type FrameRate struct {
	frameDuration time.Duration
}

// FrameRateFromFPS 根据每秒帧数计算帧时长（1s / fps）
//
// fps 必须是有限正数，否则返回 ErrInvalidFrameDuration。
func FrameRateFromFPS(fps float64) (FrameRate, error) {
	if math.IsNaN(fps) || math.IsInf(fps, 0) || fps <= 0 {
		return FrameRate{}, fmt.Errorf("%w: invalid fps %v", ErrInvalidFrameDuration, fps)
	}
	d := time.Duration(float64(time.Second) / fps)
	if d <= 0 {
		// fps 过大，换算后不足 1ns
		return FrameRate{}, fmt.Errorf("%w: fps %v is too high", ErrInvalidFrameDuration, fps)
	}
	return FrameRate{frameDuration: d}, nil
}

// MustFrameRateFromFPS 同 FrameRateFromFPS，但 fps 非法时 panic
func MustFrameRateFromFPS(fps float64) FrameRate {
	r, err := FrameRateFromFPS(fps)
	if err != nil {
		panic(err)
	}
	return r
}

// FrameRateFromFrameDuration 直接使用给定的帧时长
func FrameRateFromFrameDuration(d time.Duration) FrameRate {
	return FrameRate{frameDuration: d}
}

// FrameRateFromTotalDuration 把整段动画时长平均分配到每一帧
//
// 仅在帧数预先已知时有意义（通常是解析动画文件时）。
//
// 返回：
//   - FrameRate: 每帧时长为 total / frameCount
//   - bool: frameCount <= 0 时为 false，表示无法得出帧时长
func FrameRateFromTotalDuration(total time.Duration, frameCount int) (FrameRate, bool) {
	if frameCount <= 0 {
		return FrameRate{}, false
	}
	return FrameRate{frameDuration: total / time.Duration(frameCount)}, true
}

// FrameDuration 返回每帧时长
func (r FrameRate) FrameDuration() time.Duration {
	return r.frameDuration
}

// ScaleDelta 按播放速度倍率缩放时间增量
//
// speed <= 0 或 NaN 时返回 0（暂停）。
func ScaleDelta(delta time.Duration, speed float64) time.Duration {
	if !(speed > 0) {
		return 0
	}
	return time.Duration(float64(delta) * speed)
}
