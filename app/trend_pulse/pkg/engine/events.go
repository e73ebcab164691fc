package engine

import (
	"context"
	"time"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/model"
)

// Event 运行进度事件。同一次运行内 Seq 从 1 开始严格递增
type Event struct {
	RunID   string     `json:"runId"`
	Seq     int        `json:"seq"`
	Task    model.Task `json:"task"`
	State   State      `json:"state"`
	Message string     `json:"message"`
	At      time.Time  `json:"at"`
}

// Sink 接收进度事件。Emit 在运行所在的 goroutine 中同步调用，返回后才会继续
type Sink interface {
	Emit(Event)
}

// SinkFunc 函数适配器
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// ChanSink 把事件写入 channel。ctx 结束后丢弃剩余事件，避免消费者离开后阻塞运行
type ChanSink struct {
	ctx context.Context
	ch  chan<- Event
}

// NewChanSink 创建 ChanSink
func NewChanSink(ctx context.Context, ch chan<- Event) *ChanSink {
	return &ChanSink{ctx: ctx, ch: ch}
}

func (s *ChanSink) Emit(e Event) {
	select {
	case s.ch <- e:
	case <-s.ctx.Done():
	}
}

type nopSink struct{}

func (nopSink) Emit(Event) {}

// multiSink 按顺序分发到多个 Sink
type multiSink []Sink

func (m multiSink) Emit(e Event) {
	for _, s := range m {
		s.Emit(e)
	}
}

// Tee 将事件依次投递给所有非空 Sink
func Tee(sinks ...Sink) Sink {
	var out multiSink
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return nopSink{}
	case 1:
		return out[0]
	}
	return out
}
