package usecase

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/config"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/engine"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/library"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/model"
)

// redactedSecret 客户端回传该值表示沿用已保存的密钥
const redactedSecret = "***"

// Generator 编排器对外能力
type Generator interface {
	GenerateIdea(ctx context.Context, cfg config.ProviderConfig, sink engine.Sink) (*model.BusinessIdea, error)
	GenerateResearch(ctx context.Context, query string, cfg config.ProviderConfig, sink engine.Sink) (*model.ResearchReport, error)
	GenerateAsset(ctx context.Context, task model.Task, idea *model.BusinessIdea, cfg config.ProviderConfig, sink engine.Sink) (model.Report, error)
	BuildKit(ctx context.Context, idea *model.BusinessIdea, cfg config.ProviderConfig, sink engine.Sink) (*model.Kit, error)
}

// GenerationUseCase 生成相关业务逻辑：每次运行捕获配置快照，同类运行按槽位互相取代
type GenerationUseCase struct {
	gen   Generator
	store *config.Store
	lib   *library.Library
	slots *engine.Slots
	log   *log.Helper
}

// NewGenerationUseCase 创建生成业务逻辑实例
func NewGenerationUseCase(gen Generator, store *config.Store, lib *library.Library, logger log.Logger) *GenerationUseCase {
	return &GenerationUseCase{
		gen:   gen,
		store: store,
		lib:   lib,
		slots: engine.NewSlots(),
		log:   log.NewHelper(logger),
	}
}

// Config 返回隐去密钥的当前配置
func (uc *GenerationUseCase) Config() config.ProviderConfig {
	return uc.store.Get().Redacted()
}

// SetConfig 更新配置。密钥字段为空或为占位符时沿用旧值；
// Credential 属于 Kind 指定的后端，切换 Kind 时不沿用
func (uc *GenerationUseCase) SetConfig(cfg config.ProviderConfig) (config.ProviderConfig, error) {
	cur := uc.store.Get()
	if cfg.Credential == "" || cfg.Credential == redactedSecret {
		cfg.Credential = ""
		if cfg.Kind == cur.Kind {
			cfg.Credential = cur.Credential
		}
	}
	if cfg.Hosted.APIKey == "" || cfg.Hosted.APIKey == redactedSecret {
		cfg.Hosted.APIKey = cur.Hosted.APIKey
	}
	if cfg.Hosted.Model == "" {
		cfg.Hosted.Model = cur.Hosted.Model
	}
	if err := uc.store.Set(cfg); err != nil {
		return config.ProviderConfig{}, err
	}
	uc.log.Infof("provider config updated: kind=%s model=%s hybrid=%q", cfg.Kind, cfg.Model, cfg.HybridVia())
	return cfg.Redacted(), nil
}

// NextIdea 历史中还有下一条时直接前进，否则生成新创意并追加到历史
func (uc *GenerationUseCase) NextIdea(ctx context.Context, sink engine.Sink) (*model.BusinessIdea, error) {
	if idea, ok := uc.lib.Next(); ok {
		return idea, nil
	}
	return uc.GenerateIdea(ctx, sink)
}

// GenerateIdea 总是生成新创意
func (uc *GenerationUseCase) GenerateIdea(ctx context.Context, sink engine.Sink) (*model.BusinessIdea, error) {
	cfg := uc.store.Get()
	idea, err := engine.InSlot(uc.slots, ctx, "idea", sink, func(ctx context.Context, sink engine.Sink) (*model.BusinessIdea, error) {
		return uc.gen.GenerateIdea(ctx, cfg, sink)
	})
	if err != nil {
		return nil, err
	}
	return uc.lib.Push(idea), nil
}

// PreviousIdea 历史后退
func (uc *GenerationUseCase) PreviousIdea() (*model.BusinessIdea, error) {
	idea, ok := uc.lib.Previous()
	if !ok {
		return nil, library.ErrNotFound
	}
	return idea, nil
}

// CurrentIdea 当前创意
func (uc *GenerationUseCase) CurrentIdea() (*model.BusinessIdea, error) {
	idea, ok := uc.lib.Current()
	if !ok {
		return nil, library.ErrNotFound
	}
	return idea, nil
}

// History 创意历史
func (uc *GenerationUseCase) History() []*model.BusinessIdea {
	return uc.lib.History()
}

// Research 调研报告
func (uc *GenerationUseCase) Research(ctx context.Context, query string, sink engine.Sink) (*model.ResearchReport, error) {
	cfg := uc.store.Get()
	return engine.InSlot(uc.slots, ctx, "research", sink, func(ctx context.Context, sink engine.Sink) (*model.ResearchReport, error) {
		return uc.gen.GenerateResearch(ctx, query, cfg, sink)
	})
}

// Asset 为历史或收藏中的创意生成单个子资产
func (uc *GenerationUseCase) Asset(ctx context.Context, ideaID string, task model.Task, sink engine.Sink) (model.Report, error) {
	idea, err := uc.lib.Idea(ideaID)
	if err != nil {
		return nil, err
	}
	cfg := uc.store.Get()
	key := fmt.Sprintf("asset:%s:%s", ideaID, task)
	return engine.InSlot(uc.slots, ctx, key, sink, func(ctx context.Context, sink engine.Sink) (model.Report, error) {
		return uc.gen.GenerateAsset(ctx, task, idea, cfg, sink)
	})
}

// Kit 一次性生成全部子资产
func (uc *GenerationUseCase) Kit(ctx context.Context, ideaID string, sink engine.Sink) (*model.Kit, error) {
	idea, err := uc.lib.Idea(ideaID)
	if err != nil {
		return nil, err
	}
	cfg := uc.store.Get()
	return engine.InSlot(uc.slots, ctx, "kit:"+ideaID, sink, func(ctx context.Context, sink engine.Sink) (*model.Kit, error) {
		return uc.gen.BuildKit(ctx, idea, cfg, sink)
	})
}

// Save 收藏创意
func (uc *GenerationUseCase) Save(ideaID string) (*model.BusinessIdea, bool, error) {
	idea, err := uc.lib.Idea(ideaID)
	if err != nil {
		return nil, false, err
	}
	saved, added := uc.lib.Save(idea)
	return saved, added, nil
}

// Saved 收藏列表
func (uc *GenerationUseCase) Saved() []*model.BusinessIdea {
	return uc.lib.Saved()
}

// DeleteSaved 删除收藏
func (uc *GenerationUseCase) DeleteSaved(id string) error {
	return uc.lib.Delete(id)
}

// ViewSaved 把收藏放回历史并设为当前
func (uc *GenerationUseCase) ViewSaved(id string) (*model.BusinessIdea, error) {
	return uc.lib.View(id)
}
