// Package anim 实现精灵图集动画的播放状态机
//
// 本包只负责时间计算：给定一组帧（图集索引 + 显示时长）和播放模式，
// 把累计的时间增量换算成"当前应该显示哪一个图集帧"。
// 渲染、资源加载、持久化都不在本包的职责范围内。
package anim

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidFrameDuration 帧时长为零/负数，或帧率不是有限正数
	ErrInvalidFrameDuration = errors.New("anim: frame duration must be strictly positive")

	// ErrEmptyAnimation 对没有任何帧的动画调用了 Update（调用方的编程错误）
	ErrEmptyAnimation = errors.New("anim: cannot advance an animation with no frames")
)

// Frame 动画中的一帧
type Frame struct {
	Index    uint          // 图集中的帧索引（不校验越界，由渲染层负责）
	Duration time.Duration // 显示时长，必须 > 0
}

// NewFrame 创建一帧
//
// 时长为零会让推进循环无法前进，因此直接拒绝。
//
// 参数：
//   - index: 图集帧索引
//   - duration: 显示时长
//
// 返回：
//   - Frame: 新的帧
//   - error: 时长 <= 0 时返回 ErrInvalidFrameDuration
func NewFrame(index uint, duration time.Duration) (Frame, error) {
	if duration <= 0 {
		return Frame{}, fmt.Errorf("%w: frame %d has duration %v", ErrInvalidFrameDuration, index, duration)
	}
	return Frame{Index: index, Duration: duration}, nil
}

// MustNewFrame 同 NewFrame，但时长非法时 panic
func MustNewFrame(index uint, duration time.Duration) Frame {
	f, err := NewFrame(index, duration)
	if err != nil {
		panic(err)
	}
	return f
}
