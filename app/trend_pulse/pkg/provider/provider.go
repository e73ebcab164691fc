package provider

import (
	"context"
	"errors"
	"net/http"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/model"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/schema"
)

// ErrRetrievalUnsupported Provider 不具备联网检索能力
var ErrRetrievalUnsupported = errors.New("retrieval not supported by provider")

// ErrEmptyResponse 模型返回了空内容
var ErrEmptyResponse = errors.New("empty response from model")

// Provider 一个 AI 后端的统一抽象。
// 实现不得把传输错误以 error 或 panic 的形式抛出，失败统一体现在结果的 Succeeded=false 上
type Provider interface {
	Name() string
	Retrieve(ctx context.Context, req RetrievalRequest) RetrievalResult
	Synthesize(ctx context.Context, req SynthesisRequest) SynthesisResult
}

// RetrievalRequest 联网检索请求
type RetrievalRequest struct {
	// Topic 简短检索词，例如行业名或用户的创意描述
	Topic string
	// Brief 检索后需要总结的要点
	Brief string
}

// RetrievalResult 检索结果
type RetrievalResult struct {
	Text      string
	Sources   []model.Source
	Succeeded bool
	Err       error
}

// SynthesisRequest 生成请求。Schema 为 nil 表示自由文本
type SynthesisRequest struct {
	System      string
	Prompt      string
	Schema      *schema.Schema
	Temperature float32
}

// SynthesisResult 生成结果
type SynthesisResult struct {
	RawText   string
	Succeeded bool
	Err       error
}

// RetrievalFailed 构造失败的检索结果
func RetrievalFailed(err error) RetrievalResult {
	return RetrievalResult{Succeeded: false, Err: err}
}

// SynthesisFailed 构造失败的生成结果
func SynthesisFailed(err error) SynthesisResult {
	return SynthesisResult{Succeeded: false, Err: err}
}

// PermanentError 重试无法解决的错误（鉴权失败、上下文超长等）
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// NewPermanentError 包装为不可重试错误
func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// ClassifyStatus 按上游返回的 HTTP 状态码标记不可重试错误。
// 由各适配器从 SDK 错误类型中取出状态码后调用，拿不到状态码时传 0
func ClassifyStatus(err error, code int) error {
	if err == nil {
		return nil
	}
	switch code {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
		http.StatusNotFound, http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity:
		return NewPermanentError(err)
	}
	return err
}

// Set 一次运行所用的 Provider 组合。Hosted 仅在需要借用托管检索时非空
type Set struct {
	Active Provider
	Hosted Provider
}
