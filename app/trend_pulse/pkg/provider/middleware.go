package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/logger"
)

// Middleware 为 Provider 叠加横切能力（超时、限流、重试、日志）
type Middleware func(Provider) Provider

// Wrap 按从左到右的顺序应用中间件：Wrap(inner, A, B) => A(B(inner))
func Wrap(inner Provider, mws ...Middleware) Provider {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Timeout --------

// Timeout 为检索和生成分别设置单次调用超时，<=0 表示不限
func Timeout(retrieve, synthesize time.Duration) Middleware {
	return func(next Provider) Provider {
		return &timeouts{next: next, retrieve: retrieve, synthesize: synthesize}
	}
}

type timeouts struct {
	next                 Provider
	retrieve, synthesize time.Duration
}

func (t *timeouts) Name() string { return t.next.Name() }

func (t *timeouts) Retrieve(ctx context.Context, req RetrievalRequest) RetrievalResult {
	if t.retrieve <= 0 {
		return t.next.Retrieve(ctx, req)
	}
	ctx, cancel := context.WithTimeout(ctx, t.retrieve)
	defer cancel()
	res := t.next.Retrieve(ctx, req)
	if !res.Succeeded && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.Err = fmt.Errorf("retrieve timed out after %s: %w", t.retrieve, context.DeadlineExceeded)
	}
	return res
}

func (t *timeouts) Synthesize(ctx context.Context, req SynthesisRequest) SynthesisResult {
	if t.synthesize <= 0 {
		return t.next.Synthesize(ctx, req)
	}
	ctx, cancel := context.WithTimeout(ctx, t.synthesize)
	defer cancel()
	res := t.next.Synthesize(ctx, req)
	if !res.Succeeded && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.Err = fmt.Errorf("synthesize timed out after %s: %w", t.synthesize, context.DeadlineExceeded)
	}
	return res
}

// -------- Rate Limiting --------

// RateLimit 每次调用前从令牌桶取一个令牌；limiter 为 nil 时不限流
func RateLimit(limiter *rate.Limiter) Middleware {
	return func(next Provider) Provider {
		if limiter == nil {
			return next
		}
		return &rateLimited{next: next, limiter: limiter}
	}
}

// NewLimiter 按 RPM/突发量创建限流器，与配置中的 concurrency 对应
func NewLimiter(rpm, burst int) *rate.Limiter {
	if rpm <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)
}

type rateLimited struct {
	next    Provider
	limiter *rate.Limiter
}

func (r *rateLimited) Name() string { return r.next.Name() }

func (r *rateLimited) Retrieve(ctx context.Context, req RetrievalRequest) RetrievalResult {
	if err := r.limiter.Wait(ctx); err != nil {
		return RetrievalFailed(err)
	}
	return r.next.Retrieve(ctx, req)
}

func (r *rateLimited) Synthesize(ctx context.Context, req SynthesisRequest) SynthesisResult {
	if err := r.limiter.Wait(ctx); err != nil {
		return SynthesisFailed(err)
	}
	return r.next.Synthesize(ctx, req)
}

// -------- Retry with exponential backoff --------

// Retry 对瞬时传输错误做有限次重试，指数退避。
// 不支持检索、永久错误、上下文取消均不重试
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next Provider) Provider {
		return &retrying{next: next, max: maxAttempts, base: baseDelay}
	}
}

type retrying struct {
	next Provider
	max  int
	base time.Duration
}

func (r *retrying) Name() string { return r.next.Name() }

func (r *retrying) Retrieve(ctx context.Context, req RetrievalRequest) RetrievalResult {
	var res RetrievalResult
	for i := 0; i < r.max; i++ {
		res = r.next.Retrieve(ctx, req)
		if res.Succeeded || !retryable(ctx, res.Err) || i == r.max-1 {
			return res
		}
		if !r.sleep(ctx, i) {
			return res
		}
	}
	return res
}

func (r *retrying) Synthesize(ctx context.Context, req SynthesisRequest) SynthesisResult {
	var res SynthesisResult
	for i := 0; i < r.max; i++ {
		res = r.next.Synthesize(ctx, req)
		if res.Succeeded || !retryable(ctx, res.Err) || i == r.max-1 {
			return res
		}
		if !r.sleep(ctx, i) {
			return res
		}
	}
	return res
}

func (r *retrying) sleep(ctx context.Context, attempt int) bool {
	timer := time.NewTimer(r.base * time.Duration(1<<attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func retryable(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	if errors.Is(err, ErrRetrievalUnsupported) {
		return false
	}
	var pErr *PermanentError
	return !errors.As(err, &pErr)
}

// -------- Logging --------

// Logging 记录每次调用的耗时与失败原因
func Logging() Middleware {
	return func(next Provider) Provider {
		return &logging{next: next}
	}
}

type logging struct{ next Provider }

func (l *logging) Name() string { return l.next.Name() }

func (l *logging) Retrieve(ctx context.Context, req RetrievalRequest) RetrievalResult {
	start := time.Now()
	res := l.next.Retrieve(ctx, req)
	if res.Succeeded {
		logger.Log.Debugf("[%s] 检索完成 topic=%q 耗时=%s 来源=%d", l.next.Name(), req.Topic, time.Since(start), len(res.Sources))
	} else {
		logger.Log.Warnf("[%s] 检索失败 topic=%q 耗时=%s: %v", l.next.Name(), req.Topic, time.Since(start), res.Err)
	}
	return res
}

func (l *logging) Synthesize(ctx context.Context, req SynthesisRequest) SynthesisResult {
	start := time.Now()
	res := l.next.Synthesize(ctx, req)
	if res.Succeeded {
		logger.Log.Debugf("[%s] 生成完成 prompt=%d bytes 输出=%d bytes 耗时=%s", l.next.Name(), len(req.Prompt), len(res.RawText), time.Since(start))
	} else {
		logger.Log.Errorf("[%s] 生成失败 耗时=%s: %v", l.next.Name(), time.Since(start), res.Err)
	}
	return res
}
