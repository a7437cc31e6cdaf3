package anim

import (
	"errors"
	"math"
	"testing"
	"time"
)

// TestNewFrameRejectsNonPositiveDuration 测试零/负时长的帧无法构建
func TestNewFrameRejectsNonPositiveDuration(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Millisecond} {
		if _, err := NewFrame(3, d); !errors.Is(err, ErrInvalidFrameDuration) {
			t.Errorf("NewFrame(3, %v): expected ErrInvalidFrameDuration, got %v", d, err)
		}
	}

	f, err := NewFrame(3, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewFrame failed: %v", err)
	}
	if f.Index != 3 || f.Duration != 50*time.Millisecond {
		t.Errorf("unexpected frame %+v", f)
	}
}

func TestMustNewFramePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNewFrame with zero duration should panic")
		}
	}()
	MustNewFrame(0, 0)
}

// TestFrameRateFromFPSInvalid 测试非法帧率全部被拒绝
func TestFrameRateFromFPSInvalid(t *testing.T) {
	tests := []struct {
		name string
		fps  float64
	}{
		{"zero", 0},
		{"negative", -1},
		{"NaN", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FrameRateFromFPS(tt.fps); !errors.Is(err, ErrInvalidFrameDuration) {
				t.Errorf("FrameRateFromFPS(%v): expected ErrInvalidFrameDuration, got %v", tt.fps, err)
			}
		})
	}
}

func TestFrameRateFromFPS(t *testing.T) {
	tests := []struct {
		fps  float64
		want time.Duration
	}{
		{10, 100 * time.Millisecond},
		{4, 250 * time.Millisecond},
		{0.5, 2 * time.Second},
	}

	for _, tt := range tests {
		rate, err := FrameRateFromFPS(tt.fps)
		if err != nil {
			t.Fatalf("FrameRateFromFPS(%v) failed: %v", tt.fps, err)
		}
		if rate.FrameDuration() != tt.want {
			t.Errorf("FrameRateFromFPS(%v): got %v, want %v", tt.fps, rate.FrameDuration(), tt.want)
		}
	}
}

func TestFrameRateFromTotalDuration(t *testing.T) {
	rate, ok := FrameRateFromTotalDuration(time.Second, 4)
	if !ok {
		t.Fatal("expected a frame duration for 4 frames")
	}
	if rate.FrameDuration() != 250*time.Millisecond {
		t.Errorf("got %v, want 250ms", rate.FrameDuration())
	}

	if _, ok := FrameRateFromTotalDuration(time.Second, 0); ok {
		t.Error("zero frames should yield no duration")
	}
}

func TestFrameRateFromFrameDuration(t *testing.T) {
	if got := FrameRateFromFrameDuration(42 * time.Millisecond).FrameDuration(); got != 42*time.Millisecond {
		t.Errorf("got %v, want 42ms", got)
	}
}

// TestFromIndicesRejectsZeroRate 测试零帧时长无法生成动画
func TestFromIndicesRejectsZeroRate(t *testing.T) {
	_, err := FromIndices([]uint{0, 1}, FrameRateFromFrameDuration(0))
	if !errors.Is(err, ErrInvalidFrameDuration) {
		t.Errorf("expected ErrInvalidFrameDuration, got %v", err)
	}
}

func TestIndexRange(t *testing.T) {
	tests := []struct {
		from, to uint
		want     []uint
	}{
		{0, 2, []uint{0, 1, 2}},
		{3, 1, []uint{3, 2, 1}},
		{5, 5, []uint{5}},
		{1, 0, []uint{1, 0}},
	}

	for _, tt := range tests {
		got := IndexRange(tt.from, tt.to)
		if len(got) != len(tt.want) {
			t.Errorf("IndexRange(%d, %d) = %v, want %v", tt.from, tt.to, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("IndexRange(%d, %d) = %v, want %v", tt.from, tt.to, got, tt.want)
				break
			}
		}
	}
}

// TestAnimationBuilders 测试链式设置模式返回副本，不修改原动画
func TestAnimationBuilders(t *testing.T) {
	base := MustFromIndices(IndexRange(0, 3), FrameRateFromFrameDuration(100*time.Millisecond))

	if base.Mode() != ModeRepeat() {
		t.Errorf("default mode: got %v, want Repeat", base.Mode())
	}

	once := base.Once()
	if once.Mode().Kind != Once {
		t.Errorf("Once(): got %v", once.Mode())
	}
	if base.Mode() != ModeRepeat() {
		t.Error("builder should not modify the receiver")
	}

	if m := base.RepeatFrom(2).Mode(); m.Kind != RepeatFrom || m.LoopFrom != 2 {
		t.Errorf("RepeatFrom(2): got %v", m)
	}
	if m := base.PingPong().Mode(); m.Kind != PingPong {
		t.Errorf("PingPong(): got %v", m)
	}
	if m := base.PingPong().Repeat().Mode(); m != ModeRepeat() {
		t.Errorf("Repeat(): got %v", m)
	}

	if base.Len() != 4 || base.TotalDuration() != 400*time.Millisecond {
		t.Errorf("unexpected animation %v", base)
	}
}

// TestFromFramesCopiesInput 测试调用方修改原切片不影响动画
func TestFromFramesCopiesInput(t *testing.T) {
	frames := []Frame{MustNewFrame(7, time.Millisecond), MustNewFrame(8, time.Millisecond)}
	a := FromFrames(frames)
	frames[0].Index = 99

	if a.Frame(0).Index != 7 {
		t.Errorf("animation frame changed through caller slice: got %d", a.Frame(0).Index)
	}

	out := a.Frames()
	out[1].Index = 99
	if a.Frame(1).Index != 8 {
		t.Error("Frames() should return a copy")
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeOnce(), "Once"},
		{ModeRepeat(), "Repeat"},
		{ModeRepeatFrom(3), "RepeatFrom(3)"},
		{ModePingPong(), "PingPong"},
		{Mode{}, "Repeat"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestScaleDelta(t *testing.T) {
	tests := []struct {
		speed float64
		want  time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{0.5, 50 * time.Millisecond},
		{0, 0},
		{-1, 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := ScaleDelta(100*time.Millisecond, tt.speed); got != tt.want {
			t.Errorf("ScaleDelta(100ms, %v) = %v, want %v", tt.speed, got, tt.want)
		}
	}
}
