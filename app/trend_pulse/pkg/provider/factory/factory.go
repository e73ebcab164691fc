package factory

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/config"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/logger"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/provider"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/provider/gemini"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/provider/local"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/search"
)

// Options 所有 Provider 共享的运行参数
type Options struct {
	Searcher search.Searcher
	Limiter  *rate.Limiter
	Timeouts config.TimeoutConfig
	Retry    config.RetryConfig
}

// Factory 按配置快照构造 Provider，限流器在进程内共享
type Factory struct {
	opts Options
}

// New 创建 Factory
func New(opts Options) *Factory {
	return &Factory{opts: opts}
}

// NewFromConfig 根据全局配置创建 Factory，包括检索委托和限流器
func NewFromConfig(cfg *config.Config, searcher search.Searcher) *Factory {
	return New(Options{
		Searcher: searcher,
		Limiter:  provider.NewLimiter(cfg.Concurrency.RPM, cfg.Concurrency.QPS),
		Timeouts: cfg.Timeouts,
		Retry:    cfg.Retry,
	})
}

// Build 构造一次运行所需的 Provider 组合
func (f *Factory) Build(ctx context.Context, cfg config.ProviderConfig) (*provider.Set, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case config.HostedSearch:
		hosted, err := f.hosted(ctx, cfg.HostedConnection())
		if err != nil {
			return nil, err
		}
		return &provider.Set{Active: hosted, Hosted: hosted}, nil

	case config.LocalCompatible:
		// 只有显式选择搜索来源的混合检索才给本地模型挂检索委托
		var opts []local.Option
		if cfg.HybridVia() == config.HybridViaSearch {
			if f.opts.Searcher != nil {
				opts = append(opts, local.WithSearcher(f.opts.Searcher))
			} else {
				logger.Log.Warn("hybrid_source=search 但未配置 search.provider，将使用模拟情报")
			}
		}
		lp, err := local.New(ctx, local.Config{
			Endpoint: cfg.Endpoint,
			Model:    cfg.Model,
			APIKey:   cfg.Credential,
		}, opts...)
		if err != nil {
			return nil, err
		}
		set := &provider.Set{Active: f.wrap(lp)}
		if cfg.HybridVia() == config.HybridViaHosted {
			hosted, err := f.hosted(ctx, cfg.Hosted)
			if err != nil {
				return nil, fmt.Errorf("hybrid retrieval: %w", err)
			}
			set.Hosted = hosted
		}
		return set, nil
	}
	return nil, fmt.Errorf("unknown provider kind %q", cfg.Kind)
}

func (f *Factory) hosted(ctx context.Context, h config.HostedConfig) (provider.Provider, error) {
	gp, err := gemini.New(ctx, gemini.Config{
		APIKey:   h.APIKey,
		Model:    h.Model,
		Endpoint: h.Endpoint,
	})
	if err != nil {
		return nil, err
	}
	return f.wrap(gp), nil
}

// wrap 外层日志，随后限流、重试，最内层为单次调用超时
func (f *Factory) wrap(p provider.Provider) provider.Provider {
	return provider.Wrap(p,
		provider.Logging(),
		provider.Retry(f.opts.Retry.Attempts, f.opts.Retry.BaseDelay),
		provider.RateLimit(f.opts.Limiter),
		provider.Timeout(f.opts.Timeouts.Retrieve, f.opts.Timeouts.Synthesize),
	)
}
