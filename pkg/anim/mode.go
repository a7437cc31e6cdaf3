package anim

import "fmt"

// ModeKind 播放模式的种类
type ModeKind int

const (
	// RepeatFrom 正向播放，播完最后一帧后跳回 LoopFrom（0 即普通循环）
	// 放在第一位，使 Mode 的零值就是默认的 RepeatFrom(0)
	RepeatFrom ModeKind = iota

	// Once 正向播放到最后一帧后停住，并标记结束
	Once

	// PingPong 正向播放到最后一帧，再反向播放到第一帧，如此往复
	PingPong
)

// String 返回模式种类的字符串表示（用于日志）
func (k ModeKind) String() string {
	switch k {
	case RepeatFrom:
		return "RepeatFrom"
	case Once:
		return "Once"
	case PingPong:
		return "PingPong"
	default:
		return "Unknown"
	}
}

// Mode 动画的播放模式
//
// LoopFrom 只在 Kind == RepeatFrom 时有意义。
// 构建时不校验 LoopFrom 是否越界。
type Mode struct {
	Kind     ModeKind
	LoopFrom int
}

// ModeOnce 只播放一次
func ModeOnce() Mode { return Mode{Kind: Once} }

// ModeRepeat 从第 0 帧开始循环
func ModeRepeat() Mode { return Mode{Kind: RepeatFrom} }

// ModeRepeatFrom 播完后从 loopFrom 帧开始循环
func ModeRepeatFrom(loopFrom int) Mode { return Mode{Kind: RepeatFrom, LoopFrom: loopFrom} }

// ModePingPong 来回播放
func ModePingPong() Mode { return Mode{Kind: PingPong} }

func (m Mode) String() string {
	switch m.Kind {
	case RepeatFrom:
		if m.LoopFrom == 0 {
			return "Repeat"
		}
		return fmt.Sprintf("RepeatFrom(%d)", m.LoopFrom)
	default:
		return m.Kind.String()
	}
}
