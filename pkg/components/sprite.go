package components

import (
	"github.com/decker502/spriteanim/pkg/atlas"
	"github.com/hajimehoshi/ebiten/v2"
)

// SpriteComponent 存储实体当前绘制的图集帧
//
// Index 由 AnimationSystem 每帧写入（当前帧的图集索引）。
// Atlas 不为空时，Image 同步为 Atlas.Cell(Index)；
// 索引超出图集范围时 Image 为 nil，渲染时跳过。
type SpriteComponent struct {
	Atlas *atlas.Atlas
	Index uint
	Image *ebiten.Image
}

// SetIndex 切换到新的图集索引并同步 Image
func (s *SpriteComponent) SetIndex(index uint) {
	if s.Index == index && (s.Image != nil || s.Atlas == nil) {
		return
	}
	s.Index = index
	if s.Atlas != nil {
		s.Image = s.Atlas.Cell(index)
	}
}
