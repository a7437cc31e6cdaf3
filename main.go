package main

import (
	"flag"
	"log"

	"github.com/decker502/spriteanim/pkg/app"
	"github.com/decker502/spriteanim/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	defaults := app.DefaultConfig()
	verbose := flag.Bool("verbose", true, "详细日志")
	root := flag.String("root", "", "从磁盘目录加载资源（包含 data/ 和 assets/），并在文件变化时热重载；为空时使用内嵌资源")
	animDir := flag.String("animations", defaults.AnimationDir, "动画定义目录（相对于资源根目录）")
	previewConfig := flag.String("config", defaults.PreviewConfig, "预览配置文件（相对于资源根目录）")
	noSave := flag.Bool("nosave", false, "不读取、不保存设置和播放进度")
	flag.Parse()

	embedded.Init(assetsFS, dataFS)

	cfg := defaults
	cfg.Verbose = *verbose
	cfg.Root = *root
	cfg.AnimationDir = *animDir
	cfg.PreviewConfig = *previewConfig
	cfg.NoSave = *noSave

	previewApp, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("预览器初始化失败: %v", err)
	}

	ebiten.SetWindowSize(app.ScreenWidth, app.ScreenHeight)
	ebiten.SetWindowTitle("Sprite Animation Preview")
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(previewApp); err != nil {
		log.Fatal(err)
	}
}
