package system

import (
	"testing"
	"time"

	"github.com/decker502/spriteanim/pkg/anim"
	"github.com/decker502/spriteanim/pkg/donburianim"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

func newAnimation(mode anim.Mode, indices ...uint) *anim.Animation {
	a := anim.MustFromIndices(indices, anim.FrameRateFromFrameDuration(100*time.Millisecond)).WithMode(mode)
	return &a
}

func TestNew_FixedTick(t *testing.T) {
	world := donburi.NewWorld()
	e := ecs.NewECS(world)
	e.AddSystem(New(100 * time.Millisecond))

	entry := world.Entry(world.Create(donburianim.Sprite))
	donburianim.Play(entry, newAnimation(anim.ModePingPong(), 0, 1, 2))

	want := []uint{1, 2, 1, 0, 1}
	for i, w := range want {
		e.Update()
		if got := donburianim.Sprite.Get(entry).Index; got != w {
			t.Fatalf("tick %d: expected %d, got %d", i, w, got)
		}
	}
}

func TestUpdateAnimations_TickDelta(t *testing.T) {
	world := donburi.NewWorld()
	e := ecs.NewECS(world)
	e.AddSystem(UpdateAnimations)

	entry := world.Entry(world.Create(donburianim.Animation, donburianim.Playing))
	donburianim.Animation.SetValue(entry, donburianim.AnimationData{Animation: newAnimation(anim.ModeRepeat(), 0, 1)})
	e.Update()
	if got := donburianim.State.Get(entry).ElapsedInFrame(); got != donburianim.TickDelta {
		t.Errorf("expected %v elapsed, got %v", donburianim.TickDelta, got)
	}
}
