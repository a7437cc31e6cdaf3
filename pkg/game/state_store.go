package game

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/decker502/spriteanim/pkg/anim"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ErrStateNotFound 没有保存过指定名称的播放状态
var ErrStateNotFound = errors.New("animation state not found")

// 存储路径常量
const stateObject = "animation_states"

// StateStore 播放状态存储
//
// 把 anim.State 以 YAML 快照（anim.StateSnapshot）的形式按名称保存到 gdata，
// 下次启动时可以从同一帧、同一帧内进度继续播放。
// gdataManager 为 nil 时降级为仅内存存储。
type StateStore struct {
	gdataManager *gdata.Manager
	memory       map[string][]byte // 降级模式下的存储
	mu           sync.Mutex
}

// NewStateStore 创建播放状态存储
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
func NewStateStore(gdataManager *gdata.Manager) *StateStore {
	return &StateStore{
		gdataManager: gdataManager,
		memory:       make(map[string][]byte),
	}
}

// Save 保存播放状态
//
// 参数：
//   - name: 名称（通常为动画名，可以包含 '/' 等字符）
//   - state: 要保存的播放状态
func (s *StateStore) Save(name string, state *anim.State) error {
	data, err := yaml.Marshal(state.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to marshal state %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gdataManager == nil {
		s.memory[name] = data
		return nil
	}
	if err := s.gdataManager.SaveObjectProp(stateObject, propertyKey(name), data); err != nil {
		return fmt.Errorf("failed to save state %s: %w", name, err)
	}
	return nil
}

// Load 读取播放状态
//
// 返回：
//   - anim.State: 恢复的播放状态
//   - error: 未保存过时返回 ErrStateNotFound；数据损坏时返回解析错误
func (s *StateStore) Load(name string) (anim.State, error) {
	data, err := s.read(name)
	if err != nil {
		return anim.State{}, err
	}

	var snap anim.StateSnapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return anim.State{}, fmt.Errorf("failed to unmarshal state %s: %w", name, err)
	}
	return anim.RestoreState(snap), nil
}

// LoadOrNew 同 Load，失败时返回初始状态
func (s *StateStore) LoadOrNew(name string) anim.State {
	state, err := s.Load(name)
	if err != nil {
		if !errors.Is(err, ErrStateNotFound) {
			log.Printf("[StateStore] Warning: %v (starting from frame 0)", err)
		}
		return anim.NewState()
	}
	return state
}

// Exists 是否保存过指定名称的播放状态
func (s *StateStore) Exists(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gdataManager == nil {
		_, ok := s.memory[name]
		return ok
	}
	return s.gdataManager.ObjectPropExists(stateObject, propertyKey(name))
}

func (s *StateStore) read(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gdataManager == nil {
		data, ok := s.memory[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrStateNotFound, name)
		}
		return data, nil
	}

	key := propertyKey(name)
	if !s.gdataManager.ObjectPropExists(stateObject, key) {
		return nil, fmt.Errorf("%w: %s", ErrStateNotFound, name)
	}
	data, err := s.gdataManager.LoadObjectProp(stateObject, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load state %s: %w", name, err)
	}
	return data, nil
}

// propertyKey 把动画名转换为可以作为文件名的属性键
// 字母、数字、'-' 原样保留，其余字节编码为 "_XX"（十六进制）
func propertyKey(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "_%02x", c)
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
