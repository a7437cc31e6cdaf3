// Package atlas 将网格排列的精灵图（sprite sheet）切分为按索引访问的帧图像
//
// 图集索引按行优先顺序编号：第 0 行从左到右为 0..columns-1，依此类推。
// 动画帧中的 Index 就是这里的图集索引。
package atlas

import (
	"errors"
	"fmt"
	"image"
	_ "image/png" // 注册 PNG 解码器
	"io/fs"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrInvalidGrid 单元格尺寸非法或精灵图放不下一个单元格
var ErrInvalidGrid = errors.New("invalid atlas grid")

// Atlas 网格精灵图
//
// 子图像在第一次访问时创建并缓存，之后每帧返回同一个 *ebiten.Image。
type Atlas struct {
	sheet      *ebiten.Image
	cellWidth  int
	cellHeight int
	columns    int
	rows       int
	wrap       bool

	cache map[uint]*ebiten.Image
	mu    sync.Mutex
}

// New 以固定单元格尺寸切分精灵图
//
// 参数：
//   - sheet: 精灵图
//   - cellWidth, cellHeight: 单元格像素尺寸，必须 > 0
//
// 返回：
//   - *Atlas: 图集（不足一个单元格的右侧、底部余量被忽略）
//   - error: 尺寸非法时返回 ErrInvalidGrid
func New(sheet *ebiten.Image, cellWidth, cellHeight int) (*Atlas, error) {
	if sheet == nil {
		return nil, fmt.Errorf("%w: nil sheet", ErrInvalidGrid)
	}
	if cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf("%w: cell size %dx%d", ErrInvalidGrid, cellWidth, cellHeight)
	}

	bounds := sheet.Bounds()
	columns := bounds.Dx() / cellWidth
	rows := bounds.Dy() / cellHeight
	if columns == 0 || rows == 0 {
		return nil, fmt.Errorf("%w: sheet %dx%d smaller than cell %dx%d",
			ErrInvalidGrid, bounds.Dx(), bounds.Dy(), cellWidth, cellHeight)
	}

	return &Atlas{
		sheet:      sheet,
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
		columns:    columns,
		rows:       rows,
		cache:      make(map[uint]*ebiten.Image),
	}, nil
}

// Load 从文件系统读取 PNG 精灵图并切分
func Load(fsys fs.FS, path string, cellWidth, cellHeight int) (*Atlas, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sprite sheet %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sprite sheet %s: %w", path, err)
	}
	return New(ebiten.NewImageFromImage(img), cellWidth, cellHeight)
}

// FrameCount 图集中的单元格数量
func (a *Atlas) FrameCount() int {
	return a.columns * a.rows
}

// CellSize 单元格像素尺寸
func (a *Atlas) CellSize() (width, height int) {
	return a.cellWidth, a.cellHeight
}

// SetWrap 设置越界索引的处理方式
//
// wrap 为 true 时索引按单元格数量取模，任何索引都有对应的单元格
// （用于占位图集）；默认为 false，越界索引没有图像。
func (a *Atlas) SetWrap(wrap bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.wrap = wrap
}

// CellRect 返回图集索引在精灵图中的矩形区域
//
// 返回的 bool 为 false 表示索引超出图集范围。
func (a *Atlas) CellRect(index uint) (image.Rectangle, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cellRect(index)
}

func (a *Atlas) cellRect(index uint) (image.Rectangle, bool) {
	count := uint(a.FrameCount())
	if a.wrap {
		index %= count
	}
	if index >= count {
		return image.Rectangle{}, false
	}
	col := int(index) % a.columns
	row := int(index) / a.columns
	min := a.sheet.Bounds().Min.Add(image.Pt(col*a.cellWidth, row*a.cellHeight))
	return image.Rectangle{Min: min, Max: min.Add(image.Pt(a.cellWidth, a.cellHeight))}, true
}

// Cell 返回图集索引对应的子图像，索引越界时返回 nil
func (a *Atlas) Cell(index uint) *ebiten.Image {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.wrap {
		index %= uint(a.FrameCount())
	}
	if img, ok := a.cache[index]; ok {
		return img
	}
	rect, ok := a.cellRect(index)
	if !ok {
		return nil
	}
	img := a.sheet.SubImage(rect).(*ebiten.Image)
	a.cache[index] = img
	return img
}
