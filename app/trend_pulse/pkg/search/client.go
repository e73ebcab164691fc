package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// Options HTTP 搜索客户端共用的连接参数
type Options struct {
	Endpoint   string
	HTTPClient *http.Client
	Timeout    time.Duration
	UserAgent  string
}

// Option 客户端可选项
type Option func(*Options)

// WithEndpoint 覆盖默认接口地址（自建代理或测试）
func WithEndpoint(endpoint string) Option {
	return func(o *Options) { o.Endpoint = endpoint }
}

// WithHTTPClient 使用自定义 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(o *Options) { o.HTTPClient = hc }
}

// WithTimeout 默认的单次请求超时
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// WithUserAgent 部分 SearXNG 实例会拦截默认 UA
func WithUserAgent(ua string) Option {
	return func(o *Options) { o.UserAgent = ua }
}

// NewOptions 以 defaults 为底应用可选项
func NewOptions(defaults Options, opts ...Option) Options {
	o := defaults
	for _, opt := range opts {
		opt(&o)
	}
	if o.HTTPClient == nil {
		o.HTTPClient = http.DefaultClient
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return o
}

// StatusError 搜索服务返回了非 200 状态码
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.Code, e.Body)
}

// Do 发送请求并读取响应体。timeout 为 0 时使用 Options.Timeout
func (o Options) Do(provider string, req *http.Request, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = o.Timeout
	}
	ctx, cancel := context.WithTimeout(req.Context(), timeout)
	defer cancel()
	req = req.WithContext(ctx)
	if o.UserAgent != "" {
		req.Header.Set("User-Agent", o.UserAgent)
	}

	res, err := o.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", provider, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%s read body failed: %w", provider, err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, &StatusError{Provider: provider, Code: res.StatusCode, Body: string(body)}
	}
	return body, nil
}
