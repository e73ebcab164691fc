package server

import (
	"context"
	nethttp "net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/internal/service"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/engine"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*nethttp.Request) bool { return true },
}

// NewStreamHandler websocket 运行流：客户端每发一条 StreamReq 启动一次运行，
// 服务端按顺序推送该运行的进度事件，最后推送 result 或 error。
// 同一连接上的运行并发执行，同类运行之间的取代由业务层槽位负责
func NewStreamHandler(s *service.TrendService) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Log.Errorf("websocket 升级失败: %v", err)
			return
		}

		// 连接生命周期不受 HTTP 请求超时约束，断开时取消全部运行
		ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
		var wg sync.WaitGroup
		defer func() {
			cancel()
			wg.Wait()
			conn.Close()
		}()

		var mu sync.Mutex
		write := func(f service.StreamFrame) {
			mu.Lock()
			defer mu.Unlock()
			if err := conn.WriteJSON(f); err != nil {
				logger.Log.Warnf("websocket 写入失败: %v", err)
			}
		}

		for {
			var req service.StreamReq
			if err := conn.ReadJSON(&req); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Log.Warnf("websocket 读取失败: %v", err)
				}
				return
			}
			logger.Log.Infof("收到流式运行请求: id=%s action=%s", req.ID, req.Action)

			wg.Add(1)
			go func(req service.StreamReq) {
				defer wg.Done()
				sink := engine.SinkFunc(func(e engine.Event) {
					write(service.StreamFrame{ID: req.ID, Type: service.FrameEvent, Event: e})
				})
				result, err := s.Dispatch(ctx, req, sink)
				if err != nil {
					f := s.ErrorFrame(err)
					f.ID = req.ID
					write(f)
					return
				}
				write(service.StreamFrame{ID: req.ID, Type: service.FrameResult, Result: result})
			}(req)
		}
	}
}
