package scenes

import (
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"log"

	"github.com/decker502/spriteanim/pkg/anim"
	"github.com/decker502/spriteanim/pkg/atlas"
	"github.com/decker502/spriteanim/pkg/components"
	"github.com/decker502/spriteanim/pkg/config"
	"github.com/decker502/spriteanim/pkg/ecs"
	"github.com/decker502/spriteanim/pkg/game"
	"github.com/decker502/spriteanim/pkg/systems"
	"github.com/decker502/spriteanim/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 预览布局
const (
	previewColumns     = 4
	previewSlotWidth   = 150.0
	previewSlotHeight  = 150.0
	previewMarginX     = 20.0
	previewMarginY     = 60.0
	previewLabelOffset = 4.0
	placeholderCell    = 16
	placeholderGrid    = 8 // 占位图集为 placeholderGrid x placeholderGrid 个单元格
	speedStep          = 0.25
)

// PreviewOptions 创建预览场景所需的依赖
type PreviewOptions struct {
	Library  *config.AnimationLibrary
	Config   *config.PreviewConfig // 可为 nil：所有动画使用占位图集
	Assets   fs.FS                 // 读取精灵图的文件系统
	Settings *game.SettingsManager
	States   *game.StateStore     // 可为 nil：不恢复、不保存播放进度
	Reloads  <-chan string        // 可为 nil：动画库热重载通知
}

// PreviewScene 动画预览场景
//
// 动画库中的每个动画对应一个实体，按名称排序后排成网格，
// 由 AnimationSystem 推进、SpriteRenderSystem 绘制。
//
// 操作：
//   - ←/→: 选择动画        - R: 从头播放选中的动画
//   - ↑/↓: 调整播放速度    - Space: 暂停/继续
//   - =/-: 缩放            - G: 显示单元格边框
//
// 触摸/鼠标：点击格子选中，再次点击选中的格子从头播放；
// 左右滑动切换动画，上下滑动调整播放速度，点击空白处暂停。
type PreviewScene struct {
	entityManager *ecs.EntityManager
	animSystem    *systems.AnimationSystem
	renderSystem  *systems.SpriteRenderSystem

	library  *config.AnimationLibrary
	config   *config.PreviewConfig
	assets   fs.FS
	settings *game.SettingsManager
	states   *game.StateStore
	reloads  <-chan string

	names    []string
	entities map[string]ecs.EntityID
	selected int

	atlases     map[string]*atlas.Atlas // 精灵图名称 -> 图集
	speed       *components.PlaybackSpeedComponent
	speedRamp   *utils.SpeedRamp
	placeholder *atlas.Atlas
	gestures    utils.GestureTracker
}

// NewPreviewScene 创建预览场景
func NewPreviewScene(opts PreviewOptions) (*PreviewScene, error) {
	if opts.Library == nil {
		return nil, fmt.Errorf("preview scene needs an animation library")
	}
	if opts.Settings == nil {
		opts.Settings = game.NewSettingsManager(nil)
	}

	em := ecs.NewEntityManager()
	s := &PreviewScene{
		entityManager: em,
		animSystem:    systems.NewAnimationSystem(em),
		renderSystem:  systems.NewSpriteRenderSystem(em),
		library:       opts.Library,
		config:        opts.Config,
		assets:        opts.Assets,
		settings:      opts.Settings,
		states:        opts.States,
		reloads:       opts.Reloads,
		entities:      make(map[string]ecs.EntityID),
		atlases:       make(map[string]*atlas.Atlas),
	}

	settings := s.settings.GetSettings()
	initialSpeed := settings.PlaybackSpeed
	if settings.Paused {
		initialSpeed = 0
	}
	s.speed = &components.PlaybackSpeedComponent{Speed: initialSpeed}
	s.speedRamp = utils.NewSpeedRamp(initialSpeed)

	s.syncEntities()
	for i, name := range s.names {
		if name == settings.Selected {
			s.selected = i
		}
	}

	log.Printf("[PreviewScene] Previewing %d animations", len(s.names))
	return s, nil
}

// Update 处理输入并推进所有动画
func (s *PreviewScene) Update(deltaTime float64) {
	s.handleInput()
	s.step(deltaTime)
}

func (s *PreviewScene) step(deltaTime float64) {
	s.drainReloads()

	s.speed.Speed = s.speedRamp.Update(deltaTime)
	s.animSystem.Update(deltaTime)
	s.entityManager.RemoveMarkedEntities()
}

func (s *PreviewScene) handleInput() {
	if gesture, x, y := s.gestures.Update(); gesture != utils.GestureNone {
		s.HandleGesture(gesture, x, y)
		return
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		s.Select(s.selected + 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		s.Select(s.selected - 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		s.ChangeSpeed(speedStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		s.ChangeSpeed(-speedStep)
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		s.TogglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		s.RestartSelected()
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		s.settings.SetShowGrid(!s.settings.GetSettings().ShowGrid)
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		s.ChangeScale(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		s.ChangeScale(-1)
	}
}

// HandleGesture 处理一次指针手势
//
// 参数：
//   - gesture: 识别出的手势
//   - x, y: 手势起点（逻辑屏幕坐标）
func (s *PreviewScene) HandleGesture(gesture utils.Gesture, x, y int) {
	switch gesture {
	case utils.GestureTap:
		i := SlotAt(x, y)
		switch {
		case i < 0 || i >= len(s.names):
			s.TogglePause()
		case i == s.selected:
			s.RestartSelected()
		default:
			s.Select(i)
		}
	case utils.GestureSwipeLeft:
		s.Select(s.selected + 1)
	case utils.GestureSwipeRight:
		s.Select(s.selected - 1)
	case utils.GestureSwipeUp:
		s.ChangeSpeed(speedStep)
	case utils.GestureSwipeDown:
		s.ChangeSpeed(-speedStep)
	}
}

// Select 选中第 i 个动画（首尾循环）
func (s *PreviewScene) Select(i int) {
	if len(s.names) == 0 {
		return
	}
	s.selected = (i%len(s.names) + len(s.names)) % len(s.names)
	s.settings.SetSelected(s.names[s.selected])
}

// Selected 当前选中的动画名，没有动画时返回空字符串
func (s *PreviewScene) Selected() string {
	if len(s.names) == 0 {
		return ""
	}
	return s.names[s.selected]
}

// ChangeSpeed 调整播放速度，变化通过补间平滑过渡
func (s *PreviewScene) ChangeSpeed(delta float64) {
	s.settings.SetPlaybackSpeed(s.settings.GetSettings().PlaybackSpeed + delta)
	if !s.settings.GetSettings().Paused {
		s.speedRamp.RampTo(s.settings.GetSettings().PlaybackSpeed)
	}
}

// TogglePause 暂停或继续所有动画
func (s *PreviewScene) TogglePause() {
	paused := !s.settings.GetSettings().Paused
	s.settings.SetPaused(paused)
	if paused {
		s.speedRamp.RampTo(0)
	} else {
		s.speedRamp.RampTo(s.settings.GetSettings().PlaybackSpeed)
	}
}

// ChangeScale 调整绘制缩放并重新排列实体
func (s *PreviewScene) ChangeScale(delta float64) {
	s.settings.SetScale(s.settings.GetSettings().Scale + delta)
	scale := s.settings.GetSettings().Scale
	for _, id := range s.entities {
		if comp, ok := ecs.GetComponent[*components.ScaleComponent](s.entityManager, id); ok {
			comp.ScaleX, comp.ScaleY = scale, scale
		}
	}
}

// RestartSelected 让选中的动画从头播放
func (s *PreviewScene) RestartSelected() {
	if id, ok := s.entities[s.Selected()]; ok {
		s.animSystem.Restart(id)
	}
}

// State 返回动画当前的播放状态（用于显示和测试）
func (s *PreviewScene) State(name string) (anim.State, bool) {
	id, ok := s.entities[name]
	if !ok {
		return anim.State{}, false
	}
	comp, ok := ecs.GetComponent[*components.AnimationStateComponent](s.entityManager, id)
	if !ok {
		return anim.State{}, false
	}
	return comp.State, true
}

// Names 预览中的动画名（已排序）
func (s *PreviewScene) Names() []string {
	return s.names
}

// SaveOnExit 保存所有动画的播放进度和预览设置
func (s *PreviewScene) SaveOnExit() bool {
	ok := true
	if s.states != nil {
		for _, name := range s.names {
			state, found := s.State(name)
			if !found {
				continue
			}
			if err := s.states.Save(name, &state); err != nil {
				log.Printf("[PreviewScene] Warning: %v", err)
				ok = false
			}
		}
	}
	if err := s.settings.Save(); err != nil {
		log.Printf("[PreviewScene] Warning: %v", err)
		ok = false
	}
	return ok
}

// drainReloads 处理所有等待中的热重载通知
func (s *PreviewScene) drainReloads() {
	if s.reloads == nil {
		return
	}
	changed := false
	for {
		select {
		case file, ok := <-s.reloads:
			if !ok {
				s.reloads = nil
			} else {
				log.Printf("[PreviewScene] %s reloaded", file)
				changed = true
				continue
			}
		default:
		}
		if changed {
			s.syncEntities()
		}
		return
	}
}

// syncEntities 让实体集合与动画库一致
//
// 新动画生成实体并尝试恢复保存的进度；定义变化的动画从头播放；
// 库中已不存在的动画对应的实体被销毁。
func (s *PreviewScene) syncEntities() {
	selected := s.Selected()
	s.names = s.library.Names()

	present := make(map[string]bool, len(s.names))
	for i, name := range s.names {
		present[name] = true
		a := s.library.MustGet(name)

		id, exists := s.entities[name]
		if !exists {
			id = s.spawn(name, a)
			s.entities[name] = id
		} else if comp, ok := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id); ok && comp.Animation != a {
			s.animSystem.Play(id, a)
			s.bindSprite(id, name)
		}

		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		pos.X, pos.Y = slotPosition(i)
	}

	for name, id := range s.entities {
		if !present[name] {
			s.entityManager.DestroyEntity(id)
			delete(s.entities, name)
		}
	}

	s.selected = 0
	for i, name := range s.names {
		if name == selected {
			s.selected = i
		}
	}
}

func (s *PreviewScene) spawn(name string, a *anim.Animation) ecs.EntityID {
	id := s.entityManager.CreateEntity()
	scale := s.settings.GetSettings().Scale

	ecs.AddComponent(s.entityManager, id, &components.AnimationComponent{Animation: a})
	ecs.AddComponent(s.entityManager, id, &components.PositionComponent{})
	ecs.AddComponent(s.entityManager, id, &components.ScaleComponent{ScaleX: scale, ScaleY: scale})
	ecs.AddComponent(s.entityManager, id, s.speed)
	s.bindSprite(id, name)

	state := anim.NewState()
	if s.states != nil {
		state = s.states.LoadOrNew(name)
	}
	ecs.AddComponent(s.entityManager, id, &components.AnimationStateComponent{State: state})
	if !state.IsEnded() {
		ecs.AddComponent(s.entityManager, id, &components.PlayComponent{})
	}
	return id
}

// bindSprite 为实体选择图集：配置中绑定的精灵图，或者占位图集
func (s *PreviewScene) bindSprite(id ecs.EntityID, name string) {
	ecs.AddComponent(s.entityManager, id, &components.SpriteComponent{Atlas: s.atlasFor(name)})
}

func (s *PreviewScene) atlasFor(name string) *atlas.Atlas {
	if s.config != nil && s.assets != nil {
		if sheetName, sheet, ok := s.config.SheetFor(name); ok {
			if cached, ok := s.atlases[sheetName]; ok {
				return cached
			}
			loaded, err := atlas.Load(s.assets, sheet.Image, sheet.CellWidth, sheet.CellHeight)
			if err == nil {
				s.atlases[sheetName] = loaded
				return loaded
			}
			log.Printf("[PreviewScene] Warning: %v (using placeholder)", err)
		}
	}
	return s.placeholderAtlas()
}

// placeholderAtlas 返回共享的占位图集，每格一种颜色
//
// 图集尺寸固定，任意大的图集索引按单元格数量取模。
func (s *PreviewScene) placeholderAtlas() *atlas.Atlas {
	if s.placeholder != nil {
		return s.placeholder
	}

	size := placeholderGrid * placeholderCell
	sheet := ebiten.NewImage(size, size)
	for i := 0; i < placeholderGrid*placeholderGrid; i++ {
		x := (i % placeholderGrid) * placeholderCell
		y := (i / placeholderGrid) * placeholderCell
		rect := image.Rect(x, y, x+placeholderCell, y+placeholderCell)
		sheet.SubImage(rect).(*ebiten.Image).Fill(placeholderColor(i))
	}
	placeholder, err := atlas.New(sheet, placeholderCell, placeholderCell)
	if err != nil {
		// 尺寸由常量决定，不会失败
		panic(err)
	}
	placeholder.SetWrap(true)
	s.placeholder = placeholder
	return placeholder
}

// Draw 绘制所有动画和说明文字
func (s *PreviewScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 32, G: 32, B: 40, A: 255})
	s.renderSystem.Draw(screen, 0, 0)

	settings := s.settings.GetSettings()
	for i, name := range s.names {
		x, y := slotPosition(i)
		id := s.entities[name]

		if sprite, ok := ecs.GetComponent[*components.SpriteComponent](s.entityManager, id); ok && sprite.Atlas != nil {
			w, h := sprite.Atlas.CellSize()
			sw, sh := float32(float64(w)*settings.Scale), float32(float64(h)*settings.Scale)
			if i == s.selected {
				vector.StrokeRect(screen, float32(x)-2, float32(y)-2, sw+4, sh+4, 2, color.RGBA{R: 255, G: 220, A: 255}, false)
			} else if settings.ShowGrid {
				vector.StrokeRect(screen, float32(x), float32(y), sw, sh, 1, color.RGBA{R: 90, G: 90, B: 110, A: 255}, false)
			}
		}

		label := name
		if state, ok := s.State(name); ok {
			label = fmt.Sprintf("%s\n#%d frame %d", name, state.AnimationFrameIndex(), state.SpriteFrameIndex())
			if state.IsEnded() {
				label += " (ended)"
			}
		}
		ebitenutil.DebugPrintAt(screen, label, int(x), int(y+previewSlotHeight-40+previewLabelOffset))
	}

	status := fmt.Sprintf("speed x%.2f (target x%.2f)  scale x%.0f", s.speedRamp.Current(), settings.PlaybackSpeed, settings.Scale)
	if settings.Paused {
		status += "  [paused]"
	}
	if name := s.Selected(); name != "" {
		a := s.library.MustGet(name)
		status += fmt.Sprintf("\n%s: %s", name, a.String())
	}
	ebitenutil.DebugPrintAt(screen, status, int(previewMarginX), 8)

	help := "<-/-> select  up/down speed  space pause  R restart  +/- scale  G grid"
	if utils.IsMobile() {
		help = "tap select/restart  swipe left/right select  swipe up/down speed  tap empty pause"
	}
	h := screen.Bounds().Dy()
	ebitenutil.DebugPrintAt(screen, help, int(previewMarginX), h-20)
}

// SlotAt 返回屏幕坐标所在的格子序号，不在任何格子内时返回 -1
func SlotAt(x, y int) int {
	fx := float64(x) - previewMarginX
	fy := float64(y) - previewMarginY
	if fx < 0 || fy < 0 {
		return -1
	}
	col := int(fx / previewSlotWidth)
	if col >= previewColumns {
		return -1
	}
	return int(fy/previewSlotHeight)*previewColumns + col
}

func slotPosition(i int) (float64, float64) {
	col := i % previewColumns
	row := i / previewColumns
	return previewMarginX + float64(col)*previewSlotWidth, previewMarginY + float64(row)*previewSlotHeight
}

func placeholderColor(i int) color.Color {
	palette := []color.RGBA{
		{R: 230, G: 90, B: 90, A: 255},
		{R: 240, G: 180, B: 70, A: 255},
		{R: 120, G: 200, B: 90, A: 255},
		{R: 80, G: 170, B: 220, A: 255},
		{R: 150, G: 110, B: 220, A: 255},
	}
	return palette[i%len(palette)]
}
