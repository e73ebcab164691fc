package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/internal/service"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/config"
)

// NewHTTPServer 注册全部 HTTP 与 websocket 路由
func NewHTTPServer(c *config.Config, s *service.TrendService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
	}
	if c.Server.Addr != "" {
		opts = append(opts, http.Address(c.Server.Addr))
	}
	if c.Server.Timeout > 0 {
		opts = append(opts, http.Timeout(c.Server.Timeout))
	}

	srv := http.NewServer(opts...)

	r := srv.Route("/api")
	r.GET("/config", handle(s.GetConfig))
	r.PUT("/config", handle(s.SetConfig))

	r.GET("/ideas", handle(s.ListIdeas))
	r.GET("/ideas/current", handle(s.CurrentIdea))
	r.POST("/ideas/next", handle(s.NextIdea))
	r.POST("/ideas/previous", handle(s.PreviousIdea))
	r.POST("/ideas/{id}/assets/{task}", handle(s.Asset))
	r.POST("/ideas/{id}/kit", handle(s.Kit))
	r.POST("/ideas/{id}/save", handle(s.SaveIdea))

	r.POST("/research", handle(s.Research))

	r.GET("/saved", handle(s.ListSaved))
	r.DELETE("/saved/{id}", handle(s.DeleteSaved))
	r.POST("/saved/{id}/view", handle(s.ViewSaved))

	srv.HandleFunc("/api/stream", NewStreamHandler(s))

	return srv
}

// handle 让手写路由也经过 Server 级中间件
func handle(h func(http.Context) error) http.HandlerFunc {
	return func(ctx http.Context) error {
		m := ctx.Middleware(func(context.Context, any) (any, error) {
			return nil, h(ctx)
		})
		_, err := m(ctx, nil)
		return err
	}
}
