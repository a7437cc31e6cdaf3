package anim

import "time"

// StateSnapshot State 的可序列化副本
//
// 核心包本身不做持久化，集成层可以用它保存/恢复播放进度。
type StateSnapshot struct {
	AnimationFrameIndex int           `yaml:"animationFrameIndex"`
	SpriteFrameIndex    uint          `yaml:"spriteFrameIndex"`
	ElapsedInFrame      time.Duration `yaml:"elapsedInFrame"`
	GoingBackward       bool          `yaml:"goingBackward"`
	Ended               bool          `yaml:"ended"`
}

// Snapshot 导出当前状态
func (s *State) Snapshot() StateSnapshot {
	return StateSnapshot{
		AnimationFrameIndex: s.animationFrameIndex,
		SpriteFrameIndex:    s.spriteFrameIndex,
		ElapsedInFrame:      s.elapsedInFrame,
		GoingBackward:       s.goingBackward,
		Ended:               s.ended,
	}
}

// RestoreState 由快照重建状态
func RestoreState(snap StateSnapshot) State {
	return State{
		animationFrameIndex: snap.AnimationFrameIndex,
		spriteFrameIndex:    snap.SpriteFrameIndex,
		elapsedInFrame:      snap.ElapsedInFrame,
		goingBackward:       snap.GoingBackward,
		ended:               snap.Ended,
	}
}
