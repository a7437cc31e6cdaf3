package anim

import "time"

// State 单个动画实例的播放游标
//
// 零值即默认状态：第一帧、已用时间为零、正向、未结束。
// State 只能由驱动它的那一个调用方修改；共享的是 Animation，不是 State。
type State struct {
	animationFrameIndex int           // 在 frames 中的逻辑位置（不是图集索引）
	spriteFrameIndex    uint          // frames[animationFrameIndex].Index 的缓存
	elapsedInFrame      time.Duration // 当前帧已累计的时间，Update 返回后总是 < 当前帧时长
	goingBackward       bool          // 反向播放中（仅 PingPong 使用）
	ended               bool          // Once 模式已播完最后一帧
}

// NewState 返回默认状态
func NewState() State {
	return State{}
}

// Reset 恢复默认状态，用于从头重新播放
func (s *State) Reset() {
	*s = State{}
}

// SpriteFrameIndex 返回当前应显示的图集帧索引
func (s *State) SpriteFrameIndex() uint { return s.spriteFrameIndex }

// AnimationFrameIndex 返回当前逻辑帧索引
func (s *State) AnimationFrameIndex() int { return s.animationFrameIndex }

// IsEnded 仅当 Once 模式的动画播放完毕时为 true
func (s *State) IsEnded() bool { return s.ended }

// ElapsedInFrame 返回当前帧已累计的时间
func (s *State) ElapsedInFrame() time.Duration { return s.elapsedInFrame }

// GoingBackward PingPong 模式下是否正在反向播放
func (s *State) GoingBackward() bool { return s.goingBackward }

// Update 按时间增量推进动画
//
// 使用循环逐帧扣除时长，因此一次很大的 delta（例如掉帧）会正确地跳过多帧，
// 余下的时间保留到下一次调用，不会产生累计误差。
//
// 参数：
//   - animation: 至少包含一帧的动画，空动画会 panic(ErrEmptyAnimation)
//   - delta: 经过的时间，负数按 0 处理
func (s *State) Update(animation *Animation, delta time.Duration) {
	n := animation.Len()
	if n == 0 {
		panic(ErrEmptyAnimation)
	}
	if delta < 0 {
		delta = 0
	}

	frame := animation.frames[wrapIndex(s.animationFrameIndex, n)]
	s.spriteFrameIndex = frame.Index
	s.elapsedInFrame += delta

	for s.elapsedInFrame >= frame.Duration {
		onLastFrame := s.animationFrameIndex >= n-1

		switch animation.mode.Kind {
		case RepeatFrom:
			if onLastFrame {
				// LoopFrom 越界时不做修正：索引停在范围外，读取时取模
				s.animationFrameIndex = animation.mode.LoopFrom
			} else {
				s.animationFrameIndex++
			}
		case PingPong:
			s.stepPingPong(onLastFrame, n)
		case Once:
			if onLastFrame {
				s.ended = true
			} else {
				s.animationFrameIndex++
			}
		}

		s.elapsedInFrame -= frame.Duration
		frame = animation.frames[wrapIndex(s.animationFrameIndex, n)]
		s.spriteFrameIndex = frame.Index
	}
}

// stepPingPong 在端点处翻转方向并在同一步离开端点，端点帧不会连续显示两次
func (s *State) stepPingPong(onLastFrame bool, n int) {
	if n == 1 {
		// 只有一帧时没有可以折返的位置，停在第 0 帧
		s.animationFrameIndex = 0
		return
	}
	if s.goingBackward {
		if s.animationFrameIndex == 0 {
			s.goingBackward = false
			s.animationFrameIndex++
		} else {
			s.animationFrameIndex--
		}
		return
	}
	if onLastFrame {
		s.goingBackward = true
		s.animationFrameIndex--
	} else {
		s.animationFrameIndex++
	}
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
