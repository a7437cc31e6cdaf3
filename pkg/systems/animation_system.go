package systems

import (
	"log"
	"math"
	"time"

	"github.com/decker502/spriteanim/pkg/anim"
	"github.com/decker502/spriteanim/pkg/components"
	"github.com/decker502/spriteanim/pkg/ecs"
)

// AnimationSystem 推进所有实体的精灵动画
//
// 每次 Update：
//  1. 为拥有 AnimationComponent 但没有播放状态的实体添加 AnimationStateComponent
//  2. 移除已经失去 AnimationComponent 的实体上残留的播放状态
//  3. 拥有 PlayComponent 的实体按 deltaTime * 播放速度 推进
//  4. 把当前图集索引同步到 SpriteComponent
//  5. Once 动画结束后移除 PlayComponent
type AnimationSystem struct {
	entityManager *ecs.EntityManager
}

// NewAnimationSystem 创建动画系统
func NewAnimationSystem(em *ecs.EntityManager) *AnimationSystem {
	return &AnimationSystem{
		entityManager: em,
	}
}

// Update 推进一帧
//
// 参数：
//   - deltaTime: 距上一帧的时间（秒），负数按 0 处理
func (s *AnimationSystem) Update(deltaTime float64) {
	s.UpdateDuration(secondsToDuration(deltaTime))
}

// UpdateDuration 同 Update，时间增量以 time.Duration 给出
func (s *AnimationSystem) UpdateDuration(delta time.Duration) {
	s.ensureStates()
	s.dropOrphanStates()

	for _, id := range ecs.GetEntitiesWith2[*components.AnimationComponent, *components.AnimationStateComponent](s.entityManager) {
		animComp, _ := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id)
		stateComp, _ := ecs.GetComponent[*components.AnimationStateComponent](s.entityManager, id)

		if animComp.Animation == nil || animComp.Animation.IsEmpty() {
			continue
		}

		if ecs.HasComponent[*components.PlayComponent](s.entityManager, id) {
			speed, _ := ecs.GetComponent[*components.PlaybackSpeedComponent](s.entityManager, id)
			stateComp.State.Update(animComp.Animation, speed.Scale(delta))

			if stateComp.State.IsEnded() {
				ecs.RemoveComponent[*components.PlayComponent](s.entityManager, id)
				log.Printf("[AnimationSystem] 动画播放完成 (实体ID: %d)，停在图集帧 %d", id, stateComp.State.SpriteFrameIndex())
			}
		}

		if sprite, ok := ecs.GetComponent[*components.SpriteComponent](s.entityManager, id); ok {
			sprite.SetIndex(stateComp.State.SpriteFrameIndex())
		}
	}
}

// Play 让实体从头播放指定动画
func (s *AnimationSystem) Play(id ecs.EntityID, animation *anim.Animation) {
	ecs.AddComponent(s.entityManager, id, &components.AnimationComponent{Animation: animation})
	s.Restart(id)
}

// Restart 重置实体的播放进度并恢复播放
//
// 对没有 AnimationComponent 的实体无效。
func (s *AnimationSystem) Restart(id ecs.EntityID) {
	if !ecs.HasComponent[*components.AnimationComponent](s.entityManager, id) {
		return
	}
	if stateComp, ok := ecs.GetComponent[*components.AnimationStateComponent](s.entityManager, id); ok {
		stateComp.State.Reset()
	} else {
		ecs.AddComponent(s.entityManager, id, &components.AnimationStateComponent{State: anim.NewState()})
	}
	ecs.AddComponent(s.entityManager, id, &components.PlayComponent{})
}

func (s *AnimationSystem) ensureStates() {
	for _, id := range ecs.GetEntitiesWith1[*components.AnimationComponent](s.entityManager) {
		if ecs.HasComponent[*components.AnimationStateComponent](s.entityManager, id) {
			continue
		}
		ecs.AddComponent(s.entityManager, id, &components.AnimationStateComponent{State: anim.NewState()})

		animComp, _ := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id)
		if animComp.Animation == nil || animComp.Animation.IsEmpty() {
			log.Printf("[AnimationSystem] Warning: 实体 %d 的动画为空，跳过播放", id)
		}
	}
}

func (s *AnimationSystem) dropOrphanStates() {
	for _, id := range ecs.GetEntitiesWith1[*components.AnimationStateComponent](s.entityManager) {
		if !ecs.HasComponent[*components.AnimationComponent](s.entityManager, id) {
			ecs.RemoveComponent[*components.AnimationStateComponent](s.entityManager, id)
		}
	}
}

func secondsToDuration(seconds float64) time.Duration {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
