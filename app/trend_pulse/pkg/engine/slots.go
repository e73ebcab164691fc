package engine

import (
	"context"
	"sync"
)

// Slots 每个槽位同一时刻只有一个有效运行，后来者取代先来者（last-write-wins）。
// 被取代的运行其上下文以 ErrSuperseded 取消，之后的事件和结果都不再投递
type Slots struct {
	mu      sync.Mutex
	next    uint64
	current map[string]*slot
}

type slot struct {
	token  uint64
	cancel context.CancelCauseFunc
}

// NewSlots 创建槽位表
func NewSlots() *Slots {
	return &Slots{current: make(map[string]*slot)}
}

func (s *Slots) acquire(ctx context.Context, key string) (context.Context, uint64) {
	ctx, cancel := context.WithCancelCause(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.current[key]; ok {
		prev.cancel(ErrSuperseded)
	}
	s.next++
	s.current[key] = &slot{token: s.next, cancel: cancel}
	return ctx, s.next
}

func (s *Slots) isCurrent(key string, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.current[key]
	return ok && cur.token == token
}

// release 释放槽位，返回本次运行在结束时是否仍然有效
func (s *Slots) release(key string, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.current[key]
	if !ok || cur.token != token {
		return false
	}
	cur.cancel(nil)
	delete(s.current, key)
	return true
}

// Running 槽位上是否有进行中的运行
func (s *Slots) Running(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.current[key]
	return ok
}

type slotSink struct {
	slots *Slots
	key   string
	token uint64
	next  Sink
}

func (g *slotSink) Emit(e Event) {
	if g.slots.isCurrent(g.key, g.token) {
		g.next.Emit(e)
	}
}

// InSlot 在槽位 key 上执行 fn。fn 收到的 Sink 在本次运行被取代后静默丢弃事件；
// 被取代的运行返回 ErrSuperseded，结果不会交给调用方
func InSlot[T any](s *Slots, ctx context.Context, key string, sink Sink, fn func(ctx context.Context, sink Sink) (T, error)) (T, error) {
	ctx, token := s.acquire(ctx, key)
	out, err := fn(ctx, &slotSink{slots: s, key: key, token: token, next: Tee(sink)})
	if !s.release(key, token) {
		var zero T
		return zero, ErrSuperseded
	}
	return out, err
}
