package service

import (
	"context"
	"errors"
	nethttp "net/http"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/internal/usecase"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/config"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/engine"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/library"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/model"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/normalize"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/schema"
)

// TrendService HTTP 接口层，负责请求解析与错误映射
type TrendService struct {
	uc  *usecase.GenerationUseCase
	log *log.Helper
}

// NewTrendService 创建服务
func NewTrendService(uc *usecase.GenerationUseCase, logger log.Logger) *TrendService {
	return &TrendService{uc: uc, log: log.NewHelper(logger)}
}

// ResearchReq 调研请求
type ResearchReq struct {
	Query string `json:"query"`
}

// SaveReply 收藏结果
type SaveReply struct {
	Idea  *model.BusinessIdea `json:"idea"`
	Added bool                `json:"added"`
}

// ListReply 创意列表
type ListReply struct {
	Ideas []*model.BusinessIdea `json:"ideas"`
}

// GetConfig GET /api/config
func (s *TrendService) GetConfig(ctx http.Context) error {
	return ctx.JSON(nethttp.StatusOK, s.uc.Config())
}

// SetConfig PUT /api/config
func (s *TrendService) SetConfig(ctx http.Context) error {
	var req config.ProviderConfig
	if err := ctx.Bind(&req); err != nil {
		return kerrors.BadRequest("INVALID_BODY", err.Error())
	}
	cfg, err := s.uc.SetConfig(req)
	if err != nil {
		return kerrors.BadRequest("INVALID_CONFIG", err.Error())
	}
	return ctx.JSON(nethttp.StatusOK, cfg)
}

// NextIdea POST /api/ideas/next
func (s *TrendService) NextIdea(ctx http.Context) error {
	idea, err := s.uc.NextIdea(ctx, s.logSink())
	if err != nil {
		return s.mapError(err)
	}
	return ctx.JSON(nethttp.StatusOK, idea)
}

// PreviousIdea POST /api/ideas/previous
func (s *TrendService) PreviousIdea(ctx http.Context) error {
	idea, err := s.uc.PreviousIdea()
	if err != nil {
		return s.mapError(err)
	}
	return ctx.JSON(nethttp.StatusOK, idea)
}

// CurrentIdea GET /api/ideas/current
func (s *TrendService) CurrentIdea(ctx http.Context) error {
	idea, err := s.uc.CurrentIdea()
	if err != nil {
		return s.mapError(err)
	}
	return ctx.JSON(nethttp.StatusOK, idea)
}

// ListIdeas GET /api/ideas
func (s *TrendService) ListIdeas(ctx http.Context) error {
	return ctx.JSON(nethttp.StatusOK, ListReply{Ideas: s.uc.History()})
}

// Research POST /api/research
func (s *TrendService) Research(ctx http.Context) error {
	var req ResearchReq
	if err := ctx.Bind(&req); err != nil {
		return kerrors.BadRequest("INVALID_BODY", err.Error())
	}
	report, err := s.uc.Research(ctx, req.Query, s.logSink())
	if err != nil {
		return s.mapError(err)
	}
	return ctx.JSON(nethttp.StatusOK, report)
}

// Asset POST /api/ideas/{id}/assets/{task}
func (s *TrendService) Asset(ctx http.Context) error {
	vars := ctx.Vars()
	task, err := model.ParseTask(vars.Get("task"))
	if err != nil {
		return kerrors.BadRequest("INVALID_TASK", err.Error())
	}
	report, err := s.uc.Asset(ctx, vars.Get("id"), task, s.logSink())
	if err != nil {
		return s.mapError(err)
	}
	return ctx.JSON(nethttp.StatusOK, report)
}

// Kit POST /api/ideas/{id}/kit
func (s *TrendService) Kit(ctx http.Context) error {
	kit, err := s.uc.Kit(ctx, ctx.Vars().Get("id"), s.logSink())
	if err != nil {
		return s.mapError(err)
	}
	return ctx.JSON(nethttp.StatusOK, kit)
}

// SaveIdea POST /api/ideas/{id}/save
func (s *TrendService) SaveIdea(ctx http.Context) error {
	idea, added, err := s.uc.Save(ctx.Vars().Get("id"))
	if err != nil {
		return s.mapError(err)
	}
	return ctx.JSON(nethttp.StatusOK, SaveReply{Idea: idea, Added: added})
}

// ListSaved GET /api/saved
func (s *TrendService) ListSaved(ctx http.Context) error {
	return ctx.JSON(nethttp.StatusOK, ListReply{Ideas: s.uc.Saved()})
}

// DeleteSaved DELETE /api/saved/{id}
func (s *TrendService) DeleteSaved(ctx http.Context) error {
	if err := s.uc.DeleteSaved(ctx.Vars().Get("id")); err != nil {
		return s.mapError(err)
	}
	return ctx.JSON(nethttp.StatusOK, map[string]bool{"deleted": true})
}

// ViewSaved POST /api/saved/{id}/view
func (s *TrendService) ViewSaved(ctx http.Context) error {
	idea, err := s.uc.ViewSaved(ctx.Vars().Get("id"))
	if err != nil {
		return s.mapError(err)
	}
	return ctx.JSON(nethttp.StatusOK, idea)
}

// Dispatch 执行一次流式请求对应的运行，供 websocket 使用
func (s *TrendService) Dispatch(ctx context.Context, req StreamReq, sink engine.Sink) (any, error) {
	switch req.Action {
	case ActionIdea:
		return s.uc.NextIdea(ctx, sink)
	case ActionResearch:
		return s.uc.Research(ctx, req.Query, sink)
	case ActionAsset:
		task, err := model.ParseTask(req.Task)
		if err != nil {
			return nil, kerrors.BadRequest("INVALID_TASK", err.Error())
		}
		return s.uc.Asset(ctx, req.IdeaID, task, sink)
	case ActionKit:
		return s.uc.Kit(ctx, req.IdeaID, sink)
	}
	return nil, kerrors.BadRequest("INVALID_ACTION", "unknown action "+req.Action)
}

func (s *TrendService) logSink() engine.Sink {
	return engine.SinkFunc(func(e engine.Event) {
		s.log.Debugf("run=%s seq=%d state=%s %s", e.RunID, e.Seq, e.State, e.Message)
	})
}

// mapError 将领域错误映射为 kratos 错误
func (s *TrendService) mapError(err error) error {
	var kerr *kerrors.Error
	switch {
	case errors.As(err, &kerr):
		return kerr
	case errors.Is(err, engine.ErrInvalidInput):
		return kerrors.BadRequest("INVALID_INPUT", err.Error())
	case errors.Is(err, library.ErrNotFound):
		return kerrors.NotFound("IDEA_NOT_FOUND", err.Error())
	case errors.Is(err, engine.ErrSuperseded):
		return kerrors.Conflict("RUN_SUPERSEDED", err.Error())
	case errors.Is(err, normalize.ErrNormalization):
		return kerrors.New(nethttp.StatusBadGateway, "NORMALIZATION_FAILED", err.Error())
	case errors.Is(err, schema.ErrIncomplete):
		return kerrors.New(nethttp.StatusBadGateway, "INCOMPLETE_RESULT", err.Error())
	case errors.Is(err, engine.ErrSynthesis):
		return kerrors.New(nethttp.StatusBadGateway, "SYNTHESIS_FAILED", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return kerrors.New(nethttp.StatusGatewayTimeout, "RUN_CANCELLED", err.Error())
	}
	s.log.Errorf("unexpected error: %v", err)
	return kerrors.InternalServer("INTERNAL", err.Error())
}
