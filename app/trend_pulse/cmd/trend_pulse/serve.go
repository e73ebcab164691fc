package main

import (
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/logger"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP / websocket 服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			kl := log.With(logger.NewKratosLogger(),
				"service.id", id,
				"service.name", Name,
				"service.version", Version,
			)

			app, cleanup, err := initApp(cfg, kl)
			if err != nil {
				return err
			}
			defer cleanup()

			logger.Log.Infof("TrendPulse 服务启动，监听 %s", cfg.Server.Addr)
			return app.Run()
		},
	}
}

func newApp(logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}
