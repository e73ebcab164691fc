package search

import (
	"context"
	"strings"
	"time"
)

// Searcher 定义通用的搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Topic 搜索类别
type Topic string

const (
	TopicGeneral Topic = "general"
	TopicNews    Topic = "news"
)

// DefaultMaxResults 未指定条数时的默认值
const DefaultMaxResults = 5

// Request 通用搜索请求
type Request struct {
	Query             string
	Topic             Topic
	MaxResults        int
	IncludeRawContent bool
	// Timeout 单次请求超时，0 表示使用客户端默认值
	Timeout time.Duration
}

// WithDefaults 返回补齐默认值的副本
func (r Request) WithDefaults() Request {
	if r.Topic == "" {
		r.Topic = TopicGeneral
	}
	if r.MaxResults <= 0 {
		r.MaxResults = DefaultMaxResults
	}
	return r
}

// Response 通用搜索响应
type Response struct {
	Results []Result
}

// Result 单条搜索结果
type Result struct {
	Title         string
	URL           string
	Content       string
	RawContent    string
	Score         float64
	PublishedDate string
}

// Body 优先返回正文，没有则退回摘要
func (r Result) Body() string {
	if s := strings.TrimSpace(r.RawContent); s != "" {
		return s
	}
	return strings.TrimSpace(r.Content)
}

// Limit 截断到至多 n 条，n<=0 不截断
func Limit(results []Result, n int) []Result {
	if n > 0 && len(results) > n {
		return results[:n]
	}
	return results
}
