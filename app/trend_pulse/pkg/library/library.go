package library

import (
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/model"
)

// ErrNotFound 创意不存在或已被淘汰
var ErrNotFound = errors.New("idea not found")

// Library 内存中的创意历史与收藏。历史有容量上限，最旧的先淘汰
type Library struct {
	mu      sync.Mutex
	history *lru.Cache[string, *model.BusinessIdea]
	cursor  string
	saved   []*model.BusinessIdea
}

// New 创建 Library，size 为历史容量
func New(size int) (*Library, error) {
	cache, err := lru.New[string, *model.BusinessIdea](size)
	if err != nil {
		return nil, err
	}
	return &Library{history: cache}, nil
}

// Push 追加到历史末尾并设为当前。没有 ID 的创意会分配一个
func (l *Library) Push(idea *model.BusinessIdea) *model.BusinessIdea {
	if idea.ID == "" {
		idea.ID = uuid.NewString()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history.Add(idea.ID, idea)
	l.cursor = idea.ID
	return idea
}

// Current 当前浏览的创意
func (l *Library) Current() (*model.BusinessIdea, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cursor == "" {
		return nil, false
	}
	return l.history.Peek(l.cursor)
}

// Previous 后退一条，已在最早一条时返回 false
func (l *Library) Previous() (*model.BusinessIdea, bool) {
	return l.step(-1)
}

// Next 前进一条。已在最新一条时返回 false，调用方应生成新的创意
func (l *Library) Next() (*model.BusinessIdea, bool) {
	return l.step(1)
}

func (l *Library) step(delta int) (*model.BusinessIdea, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	keys := l.history.Keys()
	i := slices.Index(keys, l.cursor)
	if i < 0 {
		return nil, false
	}
	j := i + delta
	if j < 0 || j >= len(keys) {
		return nil, false
	}
	l.cursor = keys[j]
	return l.history.Peek(l.cursor)
}

// History 按时间从旧到新返回历史
func (l *Library) History() []*model.BusinessIdea {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.history.Values()
}

// Idea 在历史和收藏中按 ID 查找
func (l *Library) Idea(id string) (*model.BusinessIdea, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idea, ok := l.history.Peek(id); ok {
		return idea, nil
	}
	if i := l.savedIndex(id); i >= 0 {
		return l.saved[i], nil
	}
	return nil, ErrNotFound
}

// Save 收藏创意，标题相同的不重复收藏。收藏条目使用新的 ID
func (l *Library) Save(idea *model.BusinessIdea) (*model.BusinessIdea, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.saved {
		if s.Title == idea.Title {
			return s, false
		}
	}
	cp := *idea
	cp.ID = uuid.NewString()
	l.saved = append(l.saved, &cp)
	return &cp, true
}

// Saved 收藏列表，按收藏顺序
func (l *Library) Saved() []*model.BusinessIdea {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.saved)
}

// Delete 删除收藏
func (l *Library) Delete(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.savedIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	l.saved = slices.Delete(l.saved, i, i+1)
	return nil
}

// View 把收藏的创意重新放回历史末尾并设为当前
func (l *Library) View(id string) (*model.BusinessIdea, error) {
	l.mu.Lock()
	i := l.savedIndex(id)
	if i < 0 {
		l.mu.Unlock()
		return nil, ErrNotFound
	}
	idea := l.saved[i]
	l.mu.Unlock()
	return l.Push(idea), nil
}

func (l *Library) savedIndex(id string) int {
	return slices.IndexFunc(l.saved, func(s *model.BusinessIdea) bool { return s.ID == id })
}
