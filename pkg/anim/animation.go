package anim

import (
	"fmt"
	"time"
)

// Animation 不可变的动画定义
//
// 帧按插入顺序播放。构建完成后不再修改，
// 因此可以通过指针被任意多个 State 和 goroutine 共享而无需加锁。
type Animation struct {
	frames []Frame
	mode   Mode
}

// FromFrames 用给定的帧构建动画，播放模式默认为 RepeatFrom(0)
//
// 会复制传入的切片，调用方之后修改原切片不会影响动画。
func FromFrames(frames []Frame) Animation {
	owned := make([]Frame, len(frames))
	copy(owned, frames)
	return Animation{frames: owned, mode: ModeRepeat()}
}

// FromIndices 为每个图集索引生成一帧，所有帧共用 rate 的帧时长
//
// 索引可以是任意有限序列（倒序、拼接的多段范围都可以），
// 从而无需额外的 API 就能表达倒放或组合动画。
//
// 返回：
//   - Animation: 新的动画
//   - error: 帧时长非法时返回 ErrInvalidFrameDuration
func FromIndices(indices []uint, rate FrameRate) (Animation, error) {
	frames := make([]Frame, 0, len(indices))
	for _, idx := range indices {
		f, err := NewFrame(idx, rate.FrameDuration())
		if err != nil {
			return Animation{}, err
		}
		frames = append(frames, f)
	}
	return Animation{frames: frames, mode: ModeRepeat()}, nil
}

// MustFromIndices 同 FromIndices，但出错时 panic
func MustFromIndices(indices []uint, rate FrameRate) Animation {
	a, err := FromIndices(indices, rate)
	if err != nil {
		panic(err)
	}
	return a
}

// IndexRange 返回闭区间 [from, to] 的索引序列
// from > to 时返回倒序序列，例如 IndexRange(3, 1) = [3 2 1]
func IndexRange(from, to uint) []uint {
	if from <= to {
		out := make([]uint, 0, to-from+1)
		for i := from; ; i++ {
			out = append(out, i)
			if i == to {
				break
			}
		}
		return out
	}
	out := make([]uint, 0, from-to+1)
	for i := from; ; i-- {
		out = append(out, i)
		if i == to {
			break
		}
	}
	return out
}

// Once 返回只播放一次的副本
func (a Animation) Once() Animation { return a.WithMode(ModeOnce()) }

// Repeat 返回从第 0 帧循环的副本
func (a Animation) Repeat() Animation { return a.WithMode(ModeRepeat()) }

// RepeatFrom 返回播完后从 loopFrom 帧循环的副本
func (a Animation) RepeatFrom(loopFrom int) Animation { return a.WithMode(ModeRepeatFrom(loopFrom)) }

// PingPong 返回来回播放的副本
func (a Animation) PingPong() Animation { return a.WithMode(ModePingPong()) }

// WithMode 返回使用指定模式的副本
// 帧切片在副本之间共享，这是安全的，因为任何副本都不会修改它。
func (a Animation) WithMode(m Mode) Animation {
	a.mode = m
	return a
}

// Mode 返回播放模式
func (a Animation) Mode() Mode { return a.mode }

// Len 返回帧数
func (a Animation) Len() int { return len(a.frames) }

// IsEmpty 动画是否没有任何帧
// 空动画不能被推进，集成层应在播放前过滤掉。
func (a Animation) IsEmpty() bool { return len(a.frames) == 0 }

// Frame 返回第 i 帧（逻辑索引）
func (a Animation) Frame(i int) Frame { return a.frames[i] }

// Frames 返回所有帧的副本
func (a Animation) Frames() []Frame {
	out := make([]Frame, len(a.frames))
	copy(out, a.frames)
	return out
}

// TotalDuration 返回正向播放一遍所有帧的总时长
func (a Animation) TotalDuration() time.Duration {
	var total time.Duration
	for _, f := range a.frames {
		total += f.Duration
	}
	return total
}

func (a Animation) String() string {
	return fmt.Sprintf("Animation{frames=%d, mode=%s, total=%v}", len(a.frames), a.mode, a.TotalDuration())
}
