package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/search"
)

const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Client 自建 SearXNG 实例的 JSON 接口客户端
type Client struct {
	opts search.Options
}

var _ search.Searcher = (*Client)(nil)

// NewClient baseURL 为实例根地址，请求发往 {baseURL}/search
func NewClient(baseURL string, opts ...search.Option) *Client {
	return &Client{opts: search.NewOptions(search.Options{Endpoint: baseURL, UserAgent: browserUA}, opts...)}
}

type reply struct {
	Results []struct {
		Title         string  `json:"title"`
		URL           string  `json:"url"`
		Content       string  `json:"content"`
		PublishedDate string  `json:"publishedDate"`
		Score         float64 `json:"score"`
	} `json:"results"`
}

// Search 实现 search.Searcher。SearXNG 不支持条数参数，结果在本地截断
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	r := req.WithDefaults()
	u, err := url.Parse(c.opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid searxng base url: %w", err)
	}
	u.Path = "/search"
	q := u.Query()
	q.Set("q", r.Query)
	q.Set("format", "json")
	q.Set("categories", string(r.Topic))
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create searxng request: %w", err)
	}
	raw, err := c.opts.Do("searxng", httpReq, r.Timeout)
	if err != nil {
		return nil, err
	}
	var rep reply
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, fmt.Errorf("decode searxng response: %w", err)
	}

	results := make([]search.Result, 0, len(rep.Results))
	for _, it := range rep.Results {
		results = append(results, search.Result{
			Title:         it.Title,
			URL:           it.URL,
			Content:       it.Content,
			Score:         it.Score,
			PublishedDate: it.PublishedDate,
		})
	}
	return &search.Response{Results: search.Limit(results, r.MaxResults)}, nil
}
