package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/model"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/provider"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/schema"
)

// ErrMissingAPIKey 未配置 Gemini 密钥
var ErrMissingAPIKey = errors.New("gemini api key is missing")

// contentGenerator genai.Models 的最小子集，便于测试替换
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Provider 托管的 Gemini，检索走 Google Search 工具，生成走 responseSchema
type Provider struct {
	models contentGenerator
	model  string
}

var _ provider.Provider = (*Provider)(nil)

// Config 连接参数
type Config struct {
	APIKey   string
	Model    string
	Endpoint string
}

// New 创建 Gemini Provider
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client init failed: %w", err)
	}
	return &Provider{models: cli.Models, model: cfg.Model}, nil
}

func (p *Provider) Name() string { return "gemini:" + p.model }

// Retrieve 使用 Google Search grounding 联网检索并总结
func (p *Provider) Retrieve(ctx context.Context, req provider.RetrievalRequest) provider.RetrievalResult {
	prompt := fmt.Sprintf("Search the web for the most recent information about: %s\n\n%s", req.Topic, req.Brief)
	resp, err := p.models.GenerateContent(ctx, p.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		},
	)
	if err != nil {
		return provider.RetrievalFailed(classify(err))
	}
	text := responseText(resp)
	if text == "" {
		return provider.RetrievalFailed(provider.ErrEmptyResponse)
	}
	return provider.RetrievalResult{
		Text:      text,
		Sources:   groundingSources(resp),
		Succeeded: true,
	}
}

// Synthesize 生成。带 Schema 时使用原生结构化输出
func (p *Provider) Synthesize(ctx context.Context, req provider.SynthesisRequest) provider.SynthesisResult {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toGenaiSchema(req.Schema)
	}

	resp, err := p.models.GenerateContent(ctx, p.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: req.Prompt}}}},
		cfg,
	)
	if err != nil {
		return provider.SynthesisFailed(classify(err))
	}
	text := responseText(resp)
	if text == "" {
		return provider.SynthesisFailed(provider.ErrEmptyResponse)
	}
	return provider.SynthesisResult{RawText: text, Succeeded: true}
}

// classify 取出 genai.APIError 的状态码；传输层错误没有状态码，保持可重试
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return provider.ClassifyStatus(err, apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return provider.ClassifyStatus(err, apiErrPtr.Code)
	}
	return err
}

// responseText 拼接首个候选的全部文本分片，跳过思考内容
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String())
}

// groundingSources 提取联网引用，按 URL 去重并保持顺序
func groundingSources(resp *genai.GenerateContentResponse) []model.Source {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	var out []model.Source
	seen := map[string]bool{}
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		title := chunk.Web.Title
		if title == "" {
			title = chunk.Web.URI
		}
		out = append(out, model.Source{Title: title, URL: chunk.Web.URI})
	}
	return out
}

func toGenaiSchema(s *schema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{Description: s.Description}
	switch s.Kind {
	case schema.KindString:
		out.Type = genai.TypeString
	case schema.KindNumber:
		out.Type = genai.TypeNumber
	case schema.KindInteger:
		out.Type = genai.TypeInteger
	case schema.KindBoolean:
		out.Type = genai.TypeBoolean
	case schema.KindEnum:
		out.Type = genai.TypeString
		out.Enum = append([]string(nil), s.Enum...)
	case schema.KindArray:
		out.Type = genai.TypeArray
		out.Items = toGenaiSchema(s.Items)
	case schema.KindObject:
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for _, p := range s.Properties {
			out.Properties[p.Name] = toGenaiSchema(p.Schema)
			out.PropertyOrdering = append(out.PropertyOrdering, p.Name)
		}
		out.Required = append([]string(nil), s.Required...)
	}
	return out
}
