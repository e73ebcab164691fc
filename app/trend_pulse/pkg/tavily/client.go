package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/search"
)

const defaultEndpoint = "https://api.tavily.com/search"

// Client Tavily API 客户端
type Client struct {
	apiKey string
	opts   search.Options
}

var _ search.Searcher = (*Client)(nil)

// NewClient 创建 Tavily 客户端
func NewClient(apiKey string, opts ...search.Option) *Client {
	return &Client{
		apiKey: apiKey,
		opts:   search.NewOptions(search.Options{Endpoint: defaultEndpoint}, opts...),
	}
}

// payload Tavily 请求体
type payload struct {
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	Topic             string `json:"topic"`
	MaxResults        int    `json:"max_results"`
	IncludeRawContent bool   `json:"include_raw_content,omitempty"`
}

type reply struct {
	Results []struct {
		Title         string  `json:"title"`
		URL           string  `json:"url"`
		Content       string  `json:"content"`
		RawContent    string  `json:"raw_content"`
		Score         float64 `json:"score"`
		PublishedDate string  `json:"published_date"`
	} `json:"results"`
}

// Search 实现 search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	r := req.WithDefaults()
	body, err := json.Marshal(payload{
		Query:             r.Query,
		SearchDepth:       "basic",
		Topic:             string(r.Topic),
		MaxResults:        r.MaxResults,
		IncludeRawContent: r.IncludeRawContent,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal tavily request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create tavily request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	raw, err := c.opts.Do("tavily", httpReq, r.Timeout)
	if err != nil {
		return nil, err
	}
	var rep reply
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, fmt.Errorf("decode tavily response: %w", err)
	}

	results := make([]search.Result, 0, len(rep.Results))
	for _, it := range rep.Results {
		results = append(results, search.Result{
			Title:         it.Title,
			URL:           it.URL,
			Content:       it.Content,
			RawContent:    it.RawContent,
			Score:         it.Score,
			PublishedDate: it.PublishedDate,
		})
	}
	return &search.Response{Results: search.Limit(results, r.MaxResults)}, nil
}
