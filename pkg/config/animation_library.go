package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/decker502/spriteanim/internal/animdef"
	"github.com/decker502/spriteanim/pkg/anim"
)

// ErrAnimationNotFound 库中没有指定名称的动画
var ErrAnimationNotFound = errors.New("animation not found")

// AnimationLibrary 动画库
//
// 按名称管理共享的、只读的动画定义（*anim.Animation）。
// 同一个定义可以被任意多个实体的播放状态引用。
//
// 架构说明：
//   - 定义来自一个 fs.FS 中的目录（embed.FS 或 os.DirFS 均可）
//   - 单动画文件以文件名（不含扩展名）为动画名
//   - 库文件（animations: {...}）一次贡献多个名称
//   - .tmx 文件贡献其中所有图块集的图块动画
//   - 重新加载只替换库中的指针，已经分发出去的旧指针依然有效
type AnimationLibrary struct {
	fsys       fs.FS
	animations map[string]*anim.Animation // 动画名 -> 共享定义
	sources    map[string][]string        // 文件路径 -> 该文件贡献的动画名
	mu         sync.RWMutex               // 读写锁（并发安全）
}

// NewAnimationLibrary 创建空的动画库
//
// 参数：
//   - fsys: 后续 LoadFile/ReloadFile 读取文件所用的文件系统，可为 nil（仅手动注册）
func NewAnimationLibrary(fsys fs.FS) *AnimationLibrary {
	return &AnimationLibrary{
		fsys:       fsys,
		animations: make(map[string]*anim.Animation),
		sources:    make(map[string][]string),
	}
}

// LoadAnimationLibrary 从目录加载所有动画定义文件
//
// 参数：
//   - fsys: 文件系统
//   - dir: 目录路径（如 "data/animations"）
//
// 返回：
//   - *AnimationLibrary: 动画库
//   - error: 读取、解析错误，或不同文件之间出现重复的动画名
func LoadAnimationLibrary(fsys fs.FS, dir string) (*AnimationLibrary, error) {
	lib := NewAnimationLibrary(fsys)

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("扫描目录 %s 失败: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !IsAnimationSource(entry.Name()) {
			continue
		}
		filePath := path.Join(dir, entry.Name())
		animations, err := readAnimationSource(fsys, filePath)
		if err != nil {
			return nil, fmt.Errorf("加载文件 %s 失败: %w", filePath, err)
		}
		for name := range animations {
			if _, exists := lib.animations[name]; exists {
				return nil, fmt.Errorf("重复的动画名称: %s (%s)", name, filePath)
			}
		}
		lib.install(filePath, animations)
	}

	log.Printf("[AnimationLibrary] Loaded %d animations from %s", len(lib.animations), dir)
	return lib, nil
}

// IsAnimationSource 判断文件是否是动画库可以加载的文件（YAML 定义或 Tiled 地图）
func IsAnimationSource(filePath string) bool {
	return animdef.IsDefinitionFile(filePath) || isTiledMap(filePath)
}

// LoadFile 加载（或重新加载）单个文件，返回该文件贡献的动画名
//
// 该文件之前贡献、但新内容中已不存在的动画会被移除。
func (l *AnimationLibrary) LoadFile(filePath string) ([]string, error) {
	if l.fsys == nil {
		return nil, fmt.Errorf("animation library has no file system")
	}
	animations, err := readAnimationSource(l.fsys, filePath)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	// 其它文件（或 Register）已经占用的名称不能被覆盖
	for name := range animations {
		if _, exists := l.animations[name]; !exists || containsName(l.sources[filePath], name) {
			continue
		}
		owner, ok := l.ownerOf(name)
		if !ok {
			owner = "Register"
		}
		return nil, fmt.Errorf("重复的动画名称: %s (%s, 已由 %s 定义)", name, filePath, owner)
	}
	for _, name := range l.sources[filePath] {
		delete(l.animations, name)
	}
	names := l.install(filePath, animations)
	log.Printf("[AnimationLibrary] Loaded %s (%d animations)", filePath, len(names))
	return names, nil
}

// RemoveFile 移除某个文件贡献的所有动画（文件被删除时调用）
func (l *AnimationLibrary) RemoveFile(filePath string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, name := range l.sources[filePath] {
		delete(l.animations, name)
	}
	delete(l.sources, filePath)
}

// Register 手动注册动画，同名动画会被替换
//
// 空动画不能播放，直接拒绝。
func (l *AnimationLibrary) Register(name string, a anim.Animation) error {
	if a.IsEmpty() {
		return fmt.Errorf("register %q: %w", name, anim.ErrEmptyAnimation)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	shared := a
	l.animations[name] = &shared
	return nil
}

// Get 查询动画定义
//
// 返回：
//   - *anim.Animation: 共享的只读定义，调用方不得修改
//   - bool: 是否找到
func (l *AnimationLibrary) Get(name string) (*anim.Animation, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.animations[name]
	return a, ok
}

// Lookup 同 Get，未找到时返回 ErrAnimationNotFound
func (l *AnimationLibrary) Lookup(name string) (*anim.Animation, error) {
	if a, ok := l.Get(name); ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrAnimationNotFound, name)
}

// MustGet 同 Get，未找到时 panic
func (l *AnimationLibrary) MustGet(name string) *anim.Animation {
	a, err := l.Lookup(name)
	if err != nil {
		panic(err)
	}
	return a
}

// Names 返回所有动画名（已排序）
func (l *AnimationLibrary) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.animations))
	for name := range l.animations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len 返回动画数量
func (l *AnimationLibrary) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.animations)
}

// install 写入一个文件的全部动画，调用方负责加锁（初始化阶段无需加锁）
func (l *AnimationLibrary) install(filePath string, animations map[string]anim.Animation) []string {
	names := make([]string, 0, len(animations))
	for name, a := range animations {
		shared := a
		l.animations[name] = &shared
		names = append(names, name)
	}
	sort.Strings(names)
	l.sources[filePath] = names
	return names
}

// ownerOf 返回贡献了该动画名的文件，调用方负责加锁
func (l *AnimationLibrary) ownerOf(name string) (string, bool) {
	for filePath, names := range l.sources {
		if containsName(names, name) {
			return filePath, true
		}
	}
	return "", false
}

// containsName 在已排序的名称列表中查找
func containsName(names []string, name string) bool {
	i := sort.SearchStrings(names, name)
	return i < len(names) && names[i] == name
}

// readAnimationSource 解析一个文件并构建其中的所有动画，空动画会被过滤掉
func readAnimationSource(fsys fs.FS, filePath string) (map[string]anim.Animation, error) {
	if isTiledMap(filePath) {
		return LoadTiledAnimations(fsys, filePath)
	}

	defs, err := animdef.ParseFile(fsys, filePath)
	if err != nil {
		return nil, err
	}

	animations := make(map[string]anim.Animation, len(defs))
	for name, def := range defs {
		a, err := def.Build()
		if err != nil {
			return nil, fmt.Errorf("动画 %s: %w", name, err)
		}
		if a.IsEmpty() {
			log.Printf("[AnimationLibrary] Warning: animation '%s' in %s has no frames, skipped", name, filePath)
			continue
		}
		animations[name] = a
	}
	return animations, nil
}

func isTiledMap(filePath string) bool {
	return strings.EqualFold(path.Ext(filePath), ".tmx")
}
