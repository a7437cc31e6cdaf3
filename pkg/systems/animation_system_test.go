package systems

import (
	"testing"
	"time"

	"github.com/decker502/spriteanim/pkg/anim"
	"github.com/decker502/spriteanim/pkg/atlas"
	"github.com/decker502/spriteanim/pkg/components"
	"github.com/decker502/spriteanim/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
)

func newTestAnimation(mode anim.Mode, indices ...uint) *anim.Animation {
	a := anim.MustFromIndices(indices, anim.FrameRateFromFrameDuration(100*time.Millisecond)).WithMode(mode)
	return &a
}

func spawnPlaying(em *ecs.EntityManager, a *anim.Animation) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.AnimationComponent{Animation: a})
	ecs.AddComponent(em, id, &components.PlayComponent{})
	ecs.AddComponent(em, id, &components.SpriteComponent{})
	return id
}

func spriteIndex(t *testing.T, em *ecs.EntityManager, id ecs.EntityID) uint {
	t.Helper()
	sprite, ok := ecs.GetComponent[*components.SpriteComponent](em, id)
	if !ok {
		t.Fatalf("entity %d has no sprite", id)
	}
	return sprite.Index
}

// TestAnimationSystem_AdvancesPlayingEntities 测试播放中的实体按时间推进
func TestAnimationSystem_AdvancesPlayingEntities(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewAnimationSystem(em)
	id := spawnPlaying(em, newTestAnimation(anim.ModeRepeat(), 3, 4, 5))

	system.Update(0.05)
	if !ecs.HasComponent[*components.AnimationStateComponent](em, id) {
		t.Fatal("state should be inserted automatically")
	}
	if got := spriteIndex(t, em, id); got != 3 {
		t.Errorf("expected atlas index 3, got %d", got)
	}

	system.Update(0.06)
	if got := spriteIndex(t, em, id); got != 4 {
		t.Errorf("expected atlas index 4, got %d", got)
	}

	// 一次跨越多帧：剩余 10ms + 250ms -> 经过第 5 帧回到第 3 帧
	system.Update(0.25)
	if got := spriteIndex(t, em, id); got != 3 {
		t.Errorf("expected wrap to atlas index 3, got %d", got)
	}
}

func TestAnimationSystem_WithoutPlayDoesNotAdvance(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewAnimationSystem(em)
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.AnimationComponent{Animation: newTestAnimation(anim.ModeRepeat(), 7, 8)})
	ecs.AddComponent(em, id, &components.SpriteComponent{Index: 99})

	system.Update(1)
	if got := spriteIndex(t, em, id); got != 7 {
		t.Errorf("paused entity should show its first frame, got %d", got)
	}
	state, _ := ecs.GetComponent[*components.AnimationStateComponent](em, id)
	if state.State.ElapsedInFrame() != 0 {
		t.Errorf("paused entity should not accumulate time, got %v", state.State.ElapsedInFrame())
	}
}

// TestAnimationSystem_OnceRemovesPlay 测试 Once 动画结束后移除 PlayComponent
func TestAnimationSystem_OnceRemovesPlay(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewAnimationSystem(em)
	id := spawnPlaying(em, newTestAnimation(anim.ModeOnce(), 0, 1, 2))

	system.Update(0.25)
	if !ecs.HasComponent[*components.PlayComponent](em, id) {
		t.Fatal("animation should still be playing")
	}

	system.Update(0.1)
	if ecs.HasComponent[*components.PlayComponent](em, id) {
		t.Error("PlayComponent should be removed once the animation ended")
	}
	if got := spriteIndex(t, em, id); got != 2 {
		t.Errorf("expected to rest on last frame 2, got %d", got)
	}

	system.Restart(id)
	if !ecs.HasComponent[*components.PlayComponent](em, id) {
		t.Error("Restart should resume playback")
	}
	system.Update(0)
	if got := spriteIndex(t, em, id); got != 0 {
		t.Errorf("Restart should rewind to frame 0, got %d", got)
	}
	state, _ := ecs.GetComponent[*components.AnimationStateComponent](em, id)
	if state.State.IsEnded() {
		t.Error("Restart should clear the ended flag")
	}
}

func TestAnimationSystem_PlaybackSpeed(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewAnimationSystem(em)
	a := newTestAnimation(anim.ModeRepeat(), 0, 1, 2, 3)

	fast := spawnPlaying(em, a)
	ecs.AddComponent(em, fast, &components.PlaybackSpeedComponent{Speed: 2})
	paused := spawnPlaying(em, a)
	ecs.AddComponent(em, paused, &components.PlaybackSpeedComponent{Speed: 0})
	normal := spawnPlaying(em, a)

	system.Update(0.1)

	if got := spriteIndex(t, em, fast); got != 2 {
		t.Errorf("double speed: expected frame 2, got %d", got)
	}
	if got := spriteIndex(t, em, paused); got != 0 {
		t.Errorf("paused: expected frame 0, got %d", got)
	}
	if got := spriteIndex(t, em, normal); got != 1 {
		t.Errorf("normal speed: expected frame 1, got %d", got)
	}
}

// TestAnimationSystem_StateLifecycle 测试移除动画后播放状态也被清理
func TestAnimationSystem_StateLifecycle(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewAnimationSystem(em)
	id := spawnPlaying(em, newTestAnimation(anim.ModePingPong(), 0, 1, 2))

	system.Update(0.15)
	ecs.RemoveComponent[*components.AnimationComponent](em, id)
	system.Update(0.1)
	if ecs.HasComponent[*components.AnimationStateComponent](em, id) {
		t.Fatal("orphan state should be removed")
	}

	// 重新添加动画：从头开始
	ecs.AddComponent(em, id, &components.AnimationComponent{Animation: newTestAnimation(anim.ModeRepeat(), 5, 6)})
	system.Update(0)
	if got := spriteIndex(t, em, id); got != 5 {
		t.Errorf("expected fresh state on atlas index 5, got %d", got)
	}
}

func TestAnimationSystem_SharedAnimation(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewAnimationSystem(em)
	shared := newTestAnimation(anim.ModeRepeat(), 0, 1, 2)

	early := spawnPlaying(em, shared)
	system.Update(0.1)
	late := spawnPlaying(em, shared)
	system.Update(0.1)

	if got := spriteIndex(t, em, early); got != 2 {
		t.Errorf("early entity: expected frame 2, got %d", got)
	}
	if got := spriteIndex(t, em, late); got != 1 {
		t.Errorf("late entity: expected frame 1, got %d", got)
	}
}

func TestAnimationSystem_EmptyAndNilAnimations(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewAnimationSystem(em)
	empty := &anim.Animation{}
	spawnPlaying(em, empty)
	spawnPlaying(em, nil)

	// 不应 panic
	system.Update(0.1)
}

func TestAnimationSystem_ResolvesAtlasImage(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewAnimationSystem(em)
	sheet, err := atlas.New(ebiten.NewImage(32, 16), 16, 16)
	if err != nil {
		t.Fatalf("atlas.New failed: %v", err)
	}

	id := em.CreateEntity()
	system.Play(id, newTestAnimation(anim.ModeRepeat(), 0, 1, 5))
	ecs.AddComponent(em, id, &components.SpriteComponent{Atlas: sheet})

	system.Update(0)
	sprite, _ := ecs.GetComponent[*components.SpriteComponent](em, id)
	if sprite.Image != sheet.Cell(0) {
		t.Error("sprite image should be atlas cell 0")
	}

	system.Update(0.1)
	if sprite.Image != sheet.Cell(1) {
		t.Error("sprite image should be atlas cell 1")
	}

	// 图集中没有第 5 帧
	system.Update(0.1)
	if sprite.Index != 5 || sprite.Image != nil {
		t.Errorf("out-of-range index should clear the image, got index %d", sprite.Index)
	}
}

func TestSecondsToDuration(t *testing.T) {
	if got := secondsToDuration(0.5); got != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %v", got)
	}
	if got := secondsToDuration(-1); got != 0 {
		t.Errorf("negative seconds should map to 0, got %v", got)
	}
}
