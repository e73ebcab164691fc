package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/internal/service"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/internal/usecase"
)

// ProviderSet 是 TrendPulse 服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,

	// Engine providers
	NewEngine,
	NewGenerator,
	NewConfigStore,
	NewLibrary,

	// UseCase providers
	usecase.NewGenerationUseCase,

	// Service providers
	service.NewTrendService,
)
