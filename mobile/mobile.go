//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包，
// 仅在使用 -tags mobile 构建时编译。
// 构建前需要把根目录的 assets/ 和 data/ 复制到本目录（见 embed.go）：
//
//	cp -r ../assets ../data .
//	ebitenmobile bind -target android -tags mobile -javapkg com.decker.spriteanim -o build/spriteanim.aar ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/spriteanim/pkg/app"
	"github.com/decker502/spriteanim/pkg/embedded"
)

func init() {
	embedded.Init(assetsFS, dataFS)

	cfg := app.DefaultConfig()
	cfg.Verbose = true

	previewApp, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("预览器初始化失败: %v", err)
	}

	mobile.SetGame(previewApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
