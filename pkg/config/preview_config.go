package config

import (
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"
)

// SheetConfig 一张网格精灵图
type SheetConfig struct {
	Image      string `yaml:"image"`       // 图片路径（如 "assets/sheets/coins.png"）
	CellWidth  int    `yaml:"cell_width"`  // 单元格宽度（像素）
	CellHeight int    `yaml:"cell_height"` // 单元格高度（像素）
}

// SheetBinding 把动画名（支持 path.Match 通配符）绑定到精灵图
type SheetBinding struct {
	Animation string `yaml:"animation"`
	Sheet     string `yaml:"sheet"`
}

// PreviewConfig 预览器配置：每个动画用哪张精灵图绘制
type PreviewConfig struct {
	Sheets   map[string]SheetConfig `yaml:"sheets"`
	Bindings []SheetBinding         `yaml:"bindings"`
}

// LoadPreviewConfig 加载并校验预览器配置
//
// 参数：
//   - fsys: 文件系统
//   - filePath: 配置文件路径（如 "data/preview.yaml"）
func LoadPreviewConfig(fsys fs.FS, filePath string) (*PreviewConfig, error) {
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read preview config %s: %w", filePath, err)
	}

	var cfg PreviewConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse preview config %s: %w", filePath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid preview config %s: %w", filePath, err)
	}
	return &cfg, nil
}

// Validate 检查精灵图尺寸和绑定引用
func (c *PreviewConfig) Validate() error {
	for name, sheet := range c.Sheets {
		if sheet.Image == "" {
			return fmt.Errorf("sheet %s: image is required", name)
		}
		if sheet.CellWidth <= 0 || sheet.CellHeight <= 0 {
			return fmt.Errorf("sheet %s: cell size must be positive, got %dx%d", name, sheet.CellWidth, sheet.CellHeight)
		}
	}
	for i, b := range c.Bindings {
		if _, ok := c.Sheets[b.Sheet]; !ok {
			return fmt.Errorf("binding %d: unknown sheet %q", i, b.Sheet)
		}
		if _, err := path.Match(b.Animation, ""); err != nil {
			return fmt.Errorf("binding %d: bad pattern %q: %w", i, b.Animation, err)
		}
	}
	return nil
}

// SheetFor 返回动画使用的精灵图名称及配置，按绑定顺序取第一个匹配项
func (c *PreviewConfig) SheetFor(animation string) (string, SheetConfig, bool) {
	for _, b := range c.Bindings {
		if ok, _ := path.Match(b.Animation, animation); ok {
			return b.Sheet, c.Sheets[b.Sheet], true
		}
	}
	return "", SheetConfig{}, false
}
