package factory

import (
	"fmt"
	"strings"
	"time"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/config"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/search"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/searxng"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/tavily"
)

// NewSearcher 根据配置创建搜索实例。未配置时返回 (nil, nil)，本地 Provider 因此不具备检索能力
func NewSearcher(cfg config.SearchConfig) (search.Searcher, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "":
		return nil, nil

	case "tavily":
		if cfg.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(cfg.Tavily.APIKey), nil

	case "searxng":
		baseURL := cfg.SearXNG.BaseURL
		if baseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		var opts []search.Option
		if cfg.SearXNG.Timeout > 0 {
			opts = append(opts, search.WithTimeout(time.Duration(cfg.SearXNG.Timeout)*time.Second))
		}
		return searxng.NewClient(baseURL, opts...), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}
