package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/config"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/logger"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/model"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/normalize"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/provider"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/schema"
)

// Builder 按配置快照构造一次运行所用的 Provider
type Builder interface {
	Build(ctx context.Context, cfg config.ProviderConfig) (*provider.Set, error)
}

// BuilderFunc 函数适配器
type BuilderFunc func(ctx context.Context, cfg config.ProviderConfig) (*provider.Set, error)

func (f BuilderFunc) Build(ctx context.Context, cfg config.ProviderConfig) (*provider.Set, error) {
	return f(ctx, cfg)
}

// Engine 生成编排器。自身无可变状态，可被多个运行并发使用
type Engine struct {
	builder Builder
	pick    func(n int) int
	now     func() time.Time
}

// Option Engine 可选项
type Option func(*Engine)

// WithPicker 替换行业随机选择（测试用）
func WithPicker(pick func(n int) int) Option {
	return func(e *Engine) { e.pick = pick }
}

// WithClock 替换时钟
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine 创建引擎实例
func NewEngine(builder Builder, opts ...Option) *Engine {
	e := &Engine{builder: builder, pick: rand.IntN, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Input 任务输入：创意任务为空，调研任务为 Query，子资产任务为已生成的 Idea
type Input struct {
	Query string
	Idea  *model.BusinessIdea
}

// Run 执行一次生成。成功时返回的报告完整满足该任务的 Schema；
// cfg 在开始时按值捕获，运行中修改全局配置不影响本次运行
func (e *Engine) Run(ctx context.Context, task model.Task, in Input, cfg config.ProviderConfig, sink Sink) (model.Report, error) {
	if _, err := model.ParseTask(string(task)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	switch {
	case task == model.TaskResearchReport && in.Query == "":
		return nil, fmt.Errorf("%w: research query is empty", ErrInvalidInput)
	case task.IsSubAsset() && in.Idea == nil:
		return nil, fmt.Errorf("%w: %s requires a generated idea", ErrInvalidInput, task)
	}

	r := &run{
		id:    uuid.NewString(),
		task:  task,
		state: StateIdle,
		sink:  Tee(sink),
		now:   e.now,
	}
	logger.Log.Infof("开始生成任务 [%s] run=%s provider=%s hybrid=%v", task, r.id, cfg.Kind, cfg.Hybrid())

	set, err := e.builder.Build(ctx, cfg)
	if err != nil {
		return nil, r.fail(fmt.Errorf("build provider: %w", err))
	}

	var report model.Report
	switch {
	case task == model.TaskPrimaryIdea:
		report, err = e.runIdea(ctx, r, set, cfg)
	case task == model.TaskResearchReport:
		report, err = e.runResearch(ctx, r, set, cfg, in.Query)
	default:
		report, err = e.runAsset(ctx, r, set, in.Idea)
	}
	if err != nil {
		return nil, err
	}
	logger.Log.Infof("任务完成 [%s] run=%s simulated=%v", task, r.id, report.Metadata().IsSimulated)
	return report, nil
}

// GenerateIdea 生成每日创意
func (e *Engine) GenerateIdea(ctx context.Context, cfg config.ProviderConfig, sink Sink) (*model.BusinessIdea, error) {
	report, err := e.Run(ctx, model.TaskPrimaryIdea, Input{}, cfg, sink)
	if err != nil {
		return nil, err
	}
	return report.(*model.BusinessIdea), nil
}

// GenerateResearch 针对用户描述的创意生成调研报告
func (e *Engine) GenerateResearch(ctx context.Context, query string, cfg config.ProviderConfig, sink Sink) (*model.ResearchReport, error) {
	report, err := e.Run(ctx, model.TaskResearchReport, Input{Query: query}, cfg, sink)
	if err != nil {
		return nil, err
	}
	return report.(*model.ResearchReport), nil
}

// GenerateAsset 基于已有创意生成子资产
func (e *Engine) GenerateAsset(ctx context.Context, task model.Task, idea *model.BusinessIdea, cfg config.ProviderConfig, sink Sink) (model.Report, error) {
	if !task.IsSubAsset() {
		return nil, fmt.Errorf("%w: %s is not a sub-asset task", ErrInvalidInput, task)
	}
	return e.Run(ctx, task, Input{Idea: idea}, cfg, sink)
}

func (e *Engine) runIdea(ctx context.Context, r *run, set *provider.Set, cfg config.ProviderConfig) (model.Report, error) {
	sector := Sectors[e.pick(len(Sectors))]
	r.to(StateSelectingStrategy, "Targeting sector: "+sector)

	got := e.retrieve(ctx, r, set, cfg, sector, sectorBrief(sector))
	if !got.live {
		r.emit("Simulating market context with " + set.Active.Name())
		res := set.Active.Synthesize(ctx, provider.SynthesisRequest{
			System:      researcherSystem,
			Prompt:      simulateSectorPrompt(sector),
			Temperature: simulateTemperature,
		})
		if !res.Succeeded {
			return nil, r.fail(callError(ctx, res.Err))
		}
		got.text = res.RawText
	}

	report, err := e.synthesize(ctx, r, set, provider.SynthesisRequest{
		System:      vcSystem,
		Prompt:      ideaPrompt(sector, got.text),
		Temperature: ideaTemperature,
	})
	if err != nil {
		return nil, err
	}

	idea := report.(*model.BusinessIdea)
	idea.Stamp(e.meta(r, set, sector, got, idea.ScoreWarnings()))
	for _, w := range idea.Warnings {
		logger.Log.Warnf("评分越界 run=%s: %s", r.id, w)
	}
	r.to(StateDone, "Idea ready: "+idea.Title)
	return idea, nil
}

func (e *Engine) runResearch(ctx context.Context, r *run, set *provider.Set, cfg config.ProviderConfig, query string) (model.Report, error) {
	r.to(StateSelectingStrategy, "Researching: "+query)

	got := e.retrieve(ctx, r, set, cfg, query, researchBrief(query))
	if !got.live {
		r.emit("Continuing from the query alone")
	}

	report, err := e.synthesize(ctx, r, set, provider.SynthesisRequest{
		System:      researcherSystem,
		Prompt:      researchPrompt(query, got.text),
		Temperature: researchTemperature,
	})
	if err != nil {
		return nil, err
	}

	rr := report.(*model.ResearchReport)
	rr.Stamp(e.meta(r, set, "", got, nil))
	rr.Query = query
	r.to(StateDone, "Research ready: "+rr.Verdict)
	return rr, nil
}

func (e *Engine) runAsset(ctx context.Context, r *run, set *provider.Set, idea *model.BusinessIdea) (model.Report, error) {
	report, err := e.synthesize(ctx, r, set, provider.SynthesisRequest{
		System:      builderSystem,
		Prompt:      assetPrompt(r.task, idea),
		Temperature: assetTemperature,
	})
	if err != nil {
		return nil, err
	}
	// 子资产沿用创意的来源标记
	report.Metadata().Stamp(e.meta(r, set, idea.Sector, retrieval{live: !idea.IsSimulated}, nil))
	r.to(StateDone, fmt.Sprintf("%s ready for %s", r.task, idea.Title))
	return report, nil
}

// synthesize Synthesizing -> Normalizing，返回已校验完整性的报告
func (e *Engine) synthesize(ctx context.Context, r *run, set *provider.Set, req provider.SynthesisRequest) (model.Report, error) {
	req.Schema = schema.For(r.task)
	r.to(StateSynthesizing, fmt.Sprintf("Synthesizing %s with %s", r.task, set.Active.Name()))

	res := set.Active.Synthesize(ctx, req)
	if !res.Succeeded {
		return nil, r.fail(callError(ctx, res.Err))
	}

	r.to(StateNormalizing, "Normalizing model output")
	report := model.New(r.task)
	if err := normalize.Decode(res.RawText, req.Schema, report); err != nil {
		return nil, r.fail(err)
	}
	return report, nil
}

type retrieval struct {
	text    string
	sources []model.Source
	live    bool
}

// retrieve 按配置选择检索路径。检索失败不致命，由调用方决定如何兜底。
// 本地模型未开启混合检索时不做任何检索，直接走模拟上下文
func (e *Engine) retrieve(ctx context.Context, r *run, set *provider.Set, cfg config.ProviderConfig, topic, brief string) retrieval {
	var p provider.Provider
	switch via := cfg.HybridVia(); {
	case cfg.Kind == config.HostedSearch:
		p = set.Active
		r.to(StateRetrieving, "Searching live signals with "+p.Name())
	case via == config.HybridViaSearch:
		p = set.Active
		r.to(StateRetrieving, "Hybrid retrieval: web search summarised by "+p.Name())
	case via == config.HybridViaHosted && set.Hosted != nil:
		p = set.Hosted
		r.to(StateRetrieving, "Hybrid retrieval: borrowing "+p.Name()+" for live signals")
	default:
		r.to(StateRetrieving, "Hybrid retrieval off, no live lookup")
		return retrieval{}
	}

	res := p.Retrieve(ctx, provider.RetrievalRequest{Topic: topic, Brief: brief})
	if !res.Succeeded {
		logger.Log.Warnf("检索失败，改用模拟上下文 run=%s provider=%s: %v", r.id, p.Name(), res.Err)
		r.emit(fmt.Sprintf("Live retrieval unavailable (%v)", res.Err))
		return retrieval{}
	}
	r.emit(fmt.Sprintf("Retrieved live context from %d sources", len(res.Sources)))
	return retrieval{text: res.Text, sources: res.Sources, live: true}
}

func (e *Engine) meta(r *run, set *provider.Set, sector string, got retrieval, warnings []string) model.Meta {
	now := e.now()
	return model.Meta{
		ID:          r.id,
		GeneratedAt: now,
		Date:        now.Format("January 2, 2006"),
		IsSimulated: !got.live,
		Provider:    set.Active.Name(),
		Sector:      sector,
		Sources:     got.sources,
		Warnings:    warnings,
	}
}

// callError 上下文被取消时优先报告取消原因（例如被新运行取代）
func callError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return synthesisError(context.Cause(ctx))
	}
	return synthesisError(err)
}

// run 单次运行的状态与事件序号，仅在运行所在 goroutine 中访问
type run struct {
	id    string
	task  model.Task
	state State
	seq   int
	sink  Sink
	now   func() time.Time
}

func (r *run) emit(msg string) {
	r.seq++
	r.sink.Emit(Event{
		RunID:   r.id,
		Seq:     r.seq,
		Task:    r.task,
		State:   r.state,
		Message: msg,
		At:      r.now(),
	})
}

func (r *run) to(next State, msg string) {
	mustTransition(r.state, next)
	r.state = next
	r.emit(msg)
}

func (r *run) fail(err error) error {
	prev := r.state
	r.to(StateFailed, err.Error())
	logger.Log.Errorf("任务失败 [%s] run=%s state=%s: %v", r.task, r.id, prev, err)
	return &RunError{RunID: r.id, Task: r.task, State: prev, Err: err}
}
