package config

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay 同一文件连续事件的合并窗口
// 编辑器一次保存可能产生多个事件，事件停止后才重新加载
const reloadDelay = 100 * time.Millisecond

// LibraryWatcher 监视动画目录并热重载动画库
//
// 动画库必须是通过 os.DirFS(root) 加载的，文件路径相对于 root。
// 重新加载后库中的指针被替换；已经在播放的实体继续持有旧定义，
// 需要新定义的实体重新从库中查询即可。
type LibraryWatcher struct {
	lib     *AnimationLibrary
	root    string
	watcher *fsnotify.Watcher
	Events  chan string // 成功重新加载（或移除）的文件，相对路径
	Errors  chan error

	timers  map[string]*time.Timer
	timerMu sync.Mutex
	closeCh chan struct{}
	once    sync.Once
}

// NewLibraryWatcher 开始监视 root 下的目录
//
// 参数：
//   - lib: 要热重载的动画库
//   - root: 动画库文件系统的根目录（操作系统路径）
//   - dirs: 要监视的子目录（相对于 root），为空时监视 root 本身
func NewLibraryWatcher(lib *AnimationLibrary, root string, dirs ...string) (*LibraryWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for _, dir := range dirs {
		if err := w.Add(filepath.Join(root, dir)); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &LibraryWatcher{
		lib:     lib,
		root:    root,
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		timers:  make(map[string]*time.Timer),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close 停止监视
func (w *LibraryWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()

		w.timerMu.Lock()
		for _, t := range w.timers {
			t.Stop()
		}
		w.timers = nil
		w.timerMu.Unlock()
	})
	return err
}

func (w *LibraryWatcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !IsAnimationSource(event.Name) {
				continue
			}
			w.schedule(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		case <-w.closeCh:
			return
		}
	}
}

// schedule 推迟重新加载，窗口内的新事件会重置计时
func (w *LibraryWatcher) schedule(name string) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.timers == nil {
		return
	}
	if t, ok := w.timers[name]; ok {
		t.Reset(reloadDelay)
		return
	}
	w.timers[name] = time.AfterFunc(reloadDelay, func() { w.reload(name) })
}

func (w *LibraryWatcher) reload(name string) {
	w.timerMu.Lock()
	if w.timers == nil {
		w.timerMu.Unlock()
		return
	}
	delete(w.timers, name)
	w.timerMu.Unlock()

	rel, err := filepath.Rel(w.root, name)
	if err != nil {
		w.reportError(err)
		return
	}
	rel = filepath.ToSlash(rel)

	if _, err := os.Stat(name); errors.Is(err, os.ErrNotExist) {
		w.lib.RemoveFile(rel)
		log.Printf("[LibraryWatcher] Removed animations of %s", rel)
		w.notify(rel)
		return
	}

	if _, err := w.lib.LoadFile(rel); err != nil {
		log.Printf("[LibraryWatcher] Warning: Failed to reload %s: %v (keeping previous definitions)", rel, err)
		w.reportError(err)
		return
	}
	w.notify(rel)
}

func (w *LibraryWatcher) notify(rel string) {
	select {
	case w.Events <- rel:
	default:
	}
}

func (w *LibraryWatcher) reportError(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}
