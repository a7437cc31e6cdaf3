// Package app 提供预览器应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/decker502/spriteanim/pkg/config"
	"github.com/decker502/spriteanim/pkg/embedded"
	"github.com/decker502/spriteanim/pkg/game"
	"github.com/decker502/spriteanim/pkg/scenes"
	"github.com/decker502/spriteanim/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// 逻辑屏幕尺寸
const (
	ScreenWidth  = 640
	ScreenHeight = 480
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Root 磁盘资源根目录（包含 data/ 和 assets/），为空时使用内嵌资源；
	// 设置后动画目录的变化会被热重载
	Root string
	// AnimationDir 动画定义目录，相对于资源根目录
	AnimationDir string
	// PreviewConfig 预览配置文件，相对于资源根目录
	PreviewConfig string
	// AppName gdata 存储使用的应用名
	AppName string
	// NoSave 不读取、不保存设置和播放进度
	NoSave bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		AnimationDir:  "data/animations",
		PreviewConfig: "data/preview.yaml",
		AppName:       "spriteanim_preview",
	}
}

// App 实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	watcher      *config.LibraryWatcher
	verbose      bool
}

// NewApp 创建并初始化预览器
//
// 使用内嵌资源时，调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	var fsys fs.FS
	if cfg.Root != "" {
		fsys = os.DirFS(cfg.Root)
	} else {
		if !embedded.IsInitialized() {
			return nil, fmt.Errorf("embedded resources not initialized and no root directory given")
		}
		fsys = embedded.FS()
	}

	library, err := config.LoadAnimationLibrary(fsys, cfg.AnimationDir)
	if err != nil {
		return nil, fmt.Errorf("动画库加载失败: %w", err)
	}

	previewConfig, err := config.LoadPreviewConfig(fsys, cfg.PreviewConfig)
	if err != nil {
		log.Printf("[App] Warning: %v (all animations use placeholder sheets)", err)
		previewConfig = nil
	}

	var gdataManager *gdata.Manager
	if !cfg.NoSave {
		if err := utils.EnsureStorageDir(); err != nil {
			log.Printf("[App] Warning: %v", err)
		}
		gdataManager, err = gdata.Open(gdata.Config{AppName: cfg.AppName})
		if err != nil {
			log.Printf("[App] Warning: gdata 初始化失败: %v (settings will not be saved)", err)
			gdataManager = nil
		}
	}

	a := &App{
		sceneManager: game.NewSceneManager(),
		verbose:      cfg.Verbose,
	}
	opts := scenes.PreviewOptions{
		Library:  library,
		Config:   previewConfig,
		Assets:   fsys,
		Settings: game.NewSettingsManager(gdataManager),
		States:   game.NewStateStore(gdataManager),
	}

	if cfg.Root != "" {
		watcher, err := config.NewLibraryWatcher(library, cfg.Root, filepath.FromSlash(cfg.AnimationDir))
		if err != nil {
			log.Printf("[App] Warning: 无法监视 %s: %v (hot reload disabled)", cfg.AnimationDir, err)
		} else {
			a.watcher = watcher
			opts.Reloads = watcher.Events
			go logWatcherErrors(watcher)
		}
	}

	scene, err := scenes.NewPreviewScene(opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.sceneManager.SwitchTo(scene)
	return a, nil
}

func logWatcherErrors(w *config.LibraryWatcher) {
	for err := range w.Errors {
		log.Printf("[App] Hot reload: %v", err)
	}
}

// Update 更新预览器
// 每个 tick 调用一次；窗口关闭时保存状态并结束游戏循环
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.Close()
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	a.sceneManager.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

// Draw 绘制当前场景
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 全屏时用黑色填充 letterbox，并用最近邻缩放保持像素清晰
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// Close 保存当前场景状态并停止热重载，可重复调用
func (a *App) Close() {
	a.sceneManager.SaveCurrent()
	if a.watcher != nil {
		_ = a.watcher.Close()
		a.watcher = nil
	}
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
