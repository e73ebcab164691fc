package engine

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/config"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/model"
)

// lockedSink 多个运行共用一个 Sink 时串行化投递，单个运行内的顺序不变
type lockedSink struct {
	mu   sync.Mutex
	next Sink
}

func (l *lockedSink) Emit(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next.Emit(e)
}

// BuildKit 并发生成全部子资产，任何一个失败则整体失败并取消其余运行
func (e *Engine) BuildKit(ctx context.Context, idea *model.BusinessIdea, cfg config.ProviderConfig, sink Sink) (*model.Kit, error) {
	if idea == nil {
		return nil, fmt.Errorf("%w: kit requires a generated idea", ErrInvalidInput)
	}

	shared := &lockedSink{next: Tee(sink)}
	kit := &model.Kit{IdeaID: idea.ID}

	g, gctx := errgroup.WithContext(ctx)
	for _, task := range model.SubAssetTasks {
		g.Go(func() error {
			report, err := e.GenerateAsset(gctx, task, idea, cfg, shared)
			if err != nil {
				return err
			}
			switch r := report.(type) {
			case *model.BrandIdentity:
				kit.Brand = r
			case *model.LandingPage:
				kit.LandingPage = r
			case *model.MVPSpec:
				kit.MVP = r
			case *model.AdCreatives:
				kit.Ads = r
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return kit, nil
}
