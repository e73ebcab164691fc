package server

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/internal/usecase"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/config"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/engine"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/library"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/provider/factory"
	searchfactory "github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/search/factory"
)

// NewEngine 初始化编排引擎：搜索服务 + Provider 工厂
func NewEngine(c *config.Config, logger log.Logger) (*engine.Engine, error) {
	helper := log.NewHelper(logger)

	searcher, err := searchfactory.NewSearcher(c.Search)
	if err != nil {
		helper.Errorf("初始化搜索服务失败: %v", err)
		return nil, err
	}
	if searcher == nil {
		helper.Warn("未配置搜索服务，hybrid_source=search 将退回模拟情报")
	}

	return engine.NewEngine(factory.NewFromConfig(c, searcher)), nil
}

// NewConfigStore 运行期可修改的 Provider 配置
func NewConfigStore(c *config.Config) *config.Store {
	return config.NewStore(c.Provider)
}

// NewLibrary 创意历史与收藏
func NewLibrary(c *config.Config) (*library.Library, error) {
	return library.New(c.Library.HistorySize)
}

// NewGenerator 将引擎暴露为业务层的 Generator
func NewGenerator(e *engine.Engine) usecase.Generator { return e }
