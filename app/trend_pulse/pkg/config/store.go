package config

import "sync"

// Store 进程级 Provider 配置，最后一次写入生效，不做持久化
type Store struct {
	mu  sync.RWMutex
	cur ProviderConfig
}

// NewStore 以初始配置创建 Store
func NewStore(initial ProviderConfig) *Store {
	return &Store{cur: initial}
}

// Get 返回当前配置的值拷贝，调用方在一次运行内持有该快照
func (s *Store) Get() ProviderConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Set 校验通过后整体替换
func (s *Store) Set(cfg ProviderConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cur = cfg
	s.mu.Unlock()
	return nil
}
