package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ProviderKind 生成所用的后端类型
type ProviderKind string

const (
	// HostedSearch 托管的、支持联网检索的 Gemini
	HostedSearch ProviderKind = "hosted_search"
	// LocalCompatible 本地/自托管的 OpenAI 兼容接口（Ollama、llama.cpp 等）
	LocalCompatible ProviderKind = "local_compatible"
)

// HybridSource 混合检索的数据来源
type HybridSource string

const (
	// HybridViaHosted 借用托管 Gemini 的联网检索，默认值
	HybridViaHosted HybridSource = "hosted"
	// HybridViaSearch 使用 search 段配置的 Tavily / SearXNG 搜索，由本地模型总结
	HybridViaSearch HybridSource = "search"
)

// ProviderConfig 运行时可修改的 Provider 选择与连接参数。
// Endpoint/Model/Credential 描述 Kind 指定的那个后端
type ProviderConfig struct {
	Kind            ProviderKind `yaml:"kind" json:"kind"`
	Endpoint        string       `yaml:"endpoint" json:"endpoint"`
	Model           string       `yaml:"model" json:"model"`
	Credential      string       `yaml:"credential" json:"credential,omitempty"`
	HybridRetrieval bool         `yaml:"hybrid_retrieval" json:"hybridRetrieval"`
	HybridSource    HybridSource `yaml:"hybrid_source" json:"hybridSource,omitempty"`

	// Hosted 托管端参数。混合检索借用 Gemini 时使用，Kind=HostedSearch 时作为顶层字段的缺省值
	Hosted HostedConfig `yaml:"hosted" json:"hosted"`
}

// HostedConfig 托管 Provider 的连接参数
type HostedConfig struct {
	Endpoint string `yaml:"endpoint" json:"endpoint,omitempty"`
	Model    string `yaml:"model" json:"model"`
	APIKey   string `yaml:"api_key" json:"apiKey,omitempty"`
}

// Hybrid 混合检索仅对 LocalCompatible 生效
func (c ProviderConfig) Hybrid() bool {
	return c.Kind == LocalCompatible && c.HybridRetrieval
}

// HybridVia 实际生效的混合检索来源，未开启混合检索时为空
func (c ProviderConfig) HybridVia() HybridSource {
	if !c.Hybrid() {
		return ""
	}
	if c.HybridSource == "" {
		return HybridViaHosted
	}
	return c.HybridSource
}

// HostedConnection 托管端实际使用的连接参数。
// Kind=HostedSearch 时顶层 Endpoint/Model/Credential 优先，为空再回落到 Hosted
func (c ProviderConfig) HostedConnection() HostedConfig {
	h := c.Hosted
	if c.Kind != HostedSearch {
		return h
	}
	if c.Endpoint != "" {
		h.Endpoint = c.Endpoint
	}
	if c.Model != "" {
		h.Model = c.Model
	}
	if c.Credential != "" {
		h.APIKey = c.Credential
	}
	return h
}

// Validate 校验 Provider 配置
func (c ProviderConfig) Validate() error {
	switch c.Kind {
	case HostedSearch:
		if c.HostedConnection().Model == "" {
			return fmt.Errorf("provider.model is required for %s", c.Kind)
		}
	case LocalCompatible:
		if c.Endpoint == "" {
			return fmt.Errorf("provider.endpoint is required for %s", c.Kind)
		}
		if c.Model == "" {
			return fmt.Errorf("provider.model is required for %s", c.Kind)
		}
		switch c.HybridVia() {
		case "", HybridViaSearch:
		case HybridViaHosted:
			if c.Hosted.Model == "" {
				return fmt.Errorf("provider.hosted.model is required when hybrid_retrieval is enabled")
			}
		default:
			return fmt.Errorf("unknown provider.hybrid_source %q", c.HybridSource)
		}
	default:
		return fmt.Errorf("unknown provider kind %q", c.Kind)
	}
	return nil
}

// Redacted 返回隐去密钥的副本，用于日志和接口输出
func (c ProviderConfig) Redacted() ProviderConfig {
	if c.Credential != "" {
		c.Credential = "***"
	}
	if c.Hosted.APIKey != "" {
		c.Hosted.APIKey = "***"
	}
	return c
}

// Config 项目配置结构体
type Config struct {
	Provider    ProviderConfig    `yaml:"provider"`
	Search      SearchConfig      `yaml:"search"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Timeouts    TimeoutConfig     `yaml:"timeouts"`
	Retry       RetryConfig       `yaml:"retry"`
	Server      ServerConfig      `yaml:"server"`
	Library     LibraryConfig     `yaml:"library"`
}

// SearchConfig 本地 Provider 的检索委托配置，provider 为空时不启用
type SearchConfig struct {
	Provider string        `yaml:"provider"`
	Tavily   TavilyConfig  `yaml:"tavily"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// TimeoutConfig 单次 Provider 调用超时
type TimeoutConfig struct {
	Retrieve   time.Duration `yaml:"retrieve"`
	Synthesize time.Duration `yaml:"synthesize"`
}

// RetryConfig 传输层瞬时错误的有限重试
type RetryConfig struct {
	Attempts  int           `yaml:"attempts"`
	BaseDelay time.Duration `yaml:"base_delay"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr    string        `yaml:"addr"`
	Timeout time.Duration `yaml:"timeout"`
}

// LibraryConfig 创意历史配置
type LibraryConfig struct {
	HistorySize int `yaml:"history_size"`
}

// Default 默认配置：本地 Ollama，未开启混合检索
func Default() *Config {
	cfg := &Config{
		Provider: ProviderConfig{
			Kind:     LocalCompatible,
			Endpoint: "http://localhost:11434/v1",
			Model:    "llama3",
			Hosted: HostedConfig{
				Model: "gemini-2.5-flash",
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults 补齐未填写的字段
func (c *Config) ApplyDefaults() {
	if c.Provider.Hosted.Model == "" {
		c.Provider.Hosted.Model = "gemini-2.5-flash"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 1
	}
	if c.Concurrency.RPM <= 0 {
		c.Concurrency.RPM = 60
	}
	if c.Timeouts.Retrieve <= 0 {
		c.Timeouts.Retrieve = 90 * time.Second
	}
	if c.Timeouts.Synthesize <= 0 {
		c.Timeouts.Synthesize = 120 * time.Second
	}
	if c.Retry.Attempts <= 0 {
		c.Retry.Attempts = 2
	}
	if c.Retry.BaseDelay <= 0 {
		c.Retry.BaseDelay = 2 * time.Second
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Server.Timeout <= 0 {
		c.Server.Timeout = 5 * time.Minute
	}
	if c.Library.HistorySize <= 0 {
		c.Library.HistorySize = 50
	}
}

// ApplyEnv 环境变量中的密钥优先于配置文件
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.Provider.Hosted.APIKey == "" {
		c.Provider.Hosted.APIKey = v
	}
	if v := os.Getenv("LOCAL_LLM_API_KEY"); v != "" && c.Provider.Credential == "" {
		c.Provider.Credential = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" && c.Search.Tavily.APIKey == "" {
		c.Search.Tavily.APIKey = v
	}
}

// Validate 校验整体配置
func (c *Config) Validate() error {
	if err := c.Provider.Validate(); err != nil {
		return err
	}
	switch strings.ToLower(c.Search.Provider) {
	case "", "tavily", "searxng":
	default:
		return fmt.Errorf("unknown search provider: %s", c.Search.Provider)
	}
	return nil
}

// LoadConfig 从指定路径加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}
