package config

import (
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/decker502/spriteanim/internal/animdef"
	"github.com/decker502/spriteanim/pkg/anim"
	"github.com/lafriks/go-tiled"
)

// Tiled 图块属性名
const (
	TiledModeProperty = "animation_mode" // 播放模式：once / repeat / ping-pong / repeat-from:N
	TiledNameProperty = "animation_name" // 可选：自定义动画名，默认为 "<图块集名>/<图块ID>"
)

// LoadTiledAnimations 从 Tiled 地图（.tmx）中提取所有图块动画
//
// 地图引用的每个图块集中，带有动画的图块都会生成一个动画：
//   - 帧的图集索引 = 图块集内的图块 ID
//   - 帧时长 = 文件中的毫秒数，为 0 的帧会被拒绝
//   - 图块属性 animation_mode 指定播放模式，缺省为 repeat
//
// 参数：
//   - fsys: 文件系统（外部图块集 .tsx 也从这里读取）
//   - tmxPath: 地图文件路径
//
// 返回：
//   - map[string]anim.Animation: 动画名 -> 动画
//   - error: 加载或校验错误，格式错误均包装 animdef.ErrInvalidFormat
func LoadTiledAnimations(fsys fs.FS, tmxPath string) (map[string]anim.Animation, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("%w: load TMX %s: %w", animdef.ErrInvalidFormat, tmxPath, err)
	}

	animations := make(map[string]anim.Animation)
	for _, tileset := range levelMap.Tilesets {
		for _, tile := range tileset.Tiles {
			if len(tile.Animation) == 0 {
				continue
			}

			name := tile.Properties.GetString(TiledNameProperty)
			if name == "" {
				name = fmt.Sprintf("%s/%d", tileset.Name, tile.ID)
			}
			if _, exists := animations[name]; exists {
				return nil, fmt.Errorf("%w: %s: duplicate animation name %s", animdef.ErrInvalidFormat, tmxPath, name)
			}

			mode, err := animdef.ParseMode(tile.Properties.GetString(TiledModeProperty))
			if err != nil {
				return nil, fmt.Errorf("%w: %s: tile %s: %w", animdef.ErrInvalidFormat, tmxPath, name, err)
			}

			frames := make([]anim.Frame, 0, len(tile.Animation))
			for _, af := range tile.Animation {
				f, err := anim.NewFrame(uint(af.TileID), time.Duration(af.Duration)*time.Millisecond)
				if err != nil {
					return nil, fmt.Errorf("%w: %s: tile %s: %w", animdef.ErrInvalidFormat, tmxPath, name, err)
				}
				frames = append(frames, f)
			}
			animations[name] = anim.FromFrames(frames).WithMode(mode)
		}
	}

	if len(animations) == 0 {
		log.Printf("[TiledAnimation] Warning: %s contains no animated tiles", tmxPath)
	}
	return animations, nil
}
