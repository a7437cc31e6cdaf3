package systems

import (
	"github.com/decker502/spriteanim/pkg/components"
	"github.com/decker502/spriteanim/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
)

// SpriteRenderSystem 绘制所有拥有 SpriteComponent 和 PositionComponent 的实体
//
// 绘制顺序为实体 ID 升序；Image 为空（图集越界或尚未同步）的实体被跳过。
// 可选的 ScaleComponent 控制缩放，缩放使用最近邻采样以保持像素风格。
type SpriteRenderSystem struct {
	entityManager *ecs.EntityManager
}

// NewSpriteRenderSystem 创建精灵渲染系统
func NewSpriteRenderSystem(em *ecs.EntityManager) *SpriteRenderSystem {
	return &SpriteRenderSystem{entityManager: em}
}

// Draw 绘制到 screen，返回实际绘制的实体数量
//
// 参数：
//   - screen: 目标图像
//   - cameraX, cameraY: 摄像机偏移，实体位置减去该偏移得到屏幕坐标
func (s *SpriteRenderSystem) Draw(screen *ebiten.Image, cameraX, cameraY float64) int {
	drawn := 0
	for _, id := range ecs.GetEntitiesWith2[*components.SpriteComponent, *components.PositionComponent](s.entityManager) {
		sprite, _ := ecs.GetComponent[*components.SpriteComponent](s.entityManager, id)
		if sprite.Image == nil {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)

		op := &ebiten.DrawImageOptions{}
		if scale, ok := ecs.GetComponent[*components.ScaleComponent](s.entityManager, id); ok {
			op.GeoM.Scale(scale.ScaleX, scale.ScaleY)
		}
		op.GeoM.Translate(pos.X-cameraX, pos.Y-cameraY)
		op.Filter = ebiten.FilterNearest

		screen.DrawImage(sprite.Image, op)
		drawn++
	}
	return drawn
}
