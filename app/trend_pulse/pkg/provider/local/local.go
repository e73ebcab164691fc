package local

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
	"github.com/go-shiori/go-readability"
	goopenai "github.com/meguminnnnnnnnn/go-openai"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/logger"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/model"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/provider"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/search"
)

const (
	jsonOnly = "你是一个 JSON 生成器。请只输出一个 JSON 对象，不要输出 markdown 标记或任何解释。"

	maxSearchResults = 5
	maxBodyRunes     = 2000
	// searchTimeout 单次搜索的上限，留出时间给后续总结
	searchTimeout = 20 * time.Second
)

// Fetcher 抓取网页正文
type Fetcher func(ctx context.Context, url string) (string, error)

// Provider OpenAI 兼容的本地模型（Ollama、llama.cpp、vLLM 等）。
// 自身没有联网能力，配置了 searcher 时先搜索再用本地模型总结
type Provider struct {
	chat     einomodel.BaseChatModel
	model    string
	searcher search.Searcher
	fetch    Fetcher
}

var _ provider.Provider = (*Provider)(nil)

// Config 连接参数
type Config struct {
	Endpoint string
	Model    string
	APIKey   string
}

// Option Provider 可选项
type Option func(*Provider)

// WithSearcher 启用检索委托
func WithSearcher(s search.Searcher) Option {
	return func(p *Provider) { p.searcher = s }
}

// WithFetcher 替换正文抓取实现
func WithFetcher(f Fetcher) Option {
	return func(p *Provider) { p.fetch = f }
}

// New 通过 eino 的 OpenAI 兼容组件连接本地模型
func New(ctx context.Context, cfg Config, opts ...Option) (*Provider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		// Ollama 等不校验密钥，但 SDK 要求非空
		apiKey = "local"
	}
	chat, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.Endpoint,
		APIKey:  apiKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return NewWithChatModel(chat, cfg.Model, opts...), nil
}

// NewWithChatModel 使用现成的 ChatModel 构造
func NewWithChatModel(chat einomodel.BaseChatModel, modelName string, opts ...Option) *Provider {
	p := &Provider{chat: chat, model: modelName, fetch: fetchAndCleanContent}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string { return "local:" + p.model }

// CanRetrieve 是否配置了检索委托
func (p *Provider) CanRetrieve() bool { return p.searcher != nil }

// Synthesize 本地模型不支持原生结构化输出，Schema 以 JSON 骨架的形式拼进提示词
func (p *Provider) Synthesize(ctx context.Context, req provider.SynthesisRequest) provider.SynthesisResult {
	system := req.System
	prompt := req.Prompt
	if req.Schema != nil {
		system = strings.TrimSpace(system + "\n" + jsonOnly)
		prompt += "\n\n请严格按照以下 JSON 结构返回，所有字段都必须填写：\n" + req.Schema.Skeleton()
	}

	text, err := p.generate(ctx, system, prompt, req.Temperature)
	if err != nil {
		return provider.SynthesisFailed(err)
	}
	return provider.SynthesisResult{RawText: text, Succeeded: true}
}

// Retrieve 搜索 Topic，抓取正文后按 Brief 总结
func (p *Provider) Retrieve(ctx context.Context, req provider.RetrievalRequest) provider.RetrievalResult {
	if p.searcher == nil {
		return provider.RetrievalFailed(provider.ErrRetrievalUnsupported)
	}

	resp, err := p.searcher.Search(ctx, &search.Request{
		Query:             req.Topic,
		Topic:             search.TopicNews,
		MaxResults:        maxSearchResults,
		IncludeRawContent: true,
		Timeout:           searchTimeout,
	})
	if err != nil {
		return provider.RetrievalFailed(fmt.Errorf("search failed: %w", err))
	}
	if len(resp.Results) == 0 {
		return provider.RetrievalFailed(fmt.Errorf("search returned no results for %q", req.Topic))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "以下是关于【%s】的一组搜索结果：\n\n", req.Topic)
	sources := make([]model.Source, 0, len(resp.Results))
	for i, r := range resp.Results {
		body := r.Body()
		if body == "" && r.URL != "" && p.fetch != nil {
			content, err := p.fetch(ctx, r.URL)
			if err != nil {
				logger.Log.Warnf("抓取正文失败 [%s]: %v", r.URL, err)
			} else {
				body = content
			}
		}
		fmt.Fprintf(&sb, "文章 %d:\n标题: %s\n内容摘要: %s\n\n", i+1, r.Title, truncate(body, maxBodyRunes))
		if r.URL != "" {
			sources = append(sources, model.Source{Title: r.Title, URL: r.URL})
		}
	}
	sb.WriteString(req.Brief)

	text, err := p.generate(ctx, "你是一个资深行业分析师，只根据给出的搜索结果回答。", sb.String(), 0.3)
	if err != nil {
		return provider.RetrievalFailed(err)
	}
	return provider.RetrievalResult{Text: text, Sources: sources, Succeeded: true}
}

func (p *Provider) generate(ctx context.Context, system, prompt string, temperature float32) (string, error) {
	messages := make([]*einoschema.Message, 0, 2)
	if system != "" {
		messages = append(messages, &einoschema.Message{Role: einoschema.System, Content: system})
	}
	messages = append(messages, &einoschema.Message{Role: einoschema.User, Content: prompt})

	resp, err := p.chat.Generate(ctx, messages, einomodel.WithTemperature(temperature))
	if err != nil {
		return "", classify(err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", provider.ErrEmptyResponse
	}
	return resp.Content, nil
}

// classify eino 透传 go-openai 的错误类型，从中取出 HTTP 状态码
func classify(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return provider.ClassifyStatus(err, apiErr.HTTPStatusCode)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return provider.ClassifyStatus(err, reqErr.HTTPStatusCode)
	}
	return err
}

func fetchAndCleanContent(ctx context.Context, url string) (string, error) {
	timeout := 30 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	article, err := readability.FromURL(url, timeout)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}
