package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/model"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/provider"
)

func TestSlotsNewerRunSupersedes(t *testing.T) {
	started := make(chan struct{}, 2)
	var calls atomic.Int32
	local := &fakeProvider{
		name: "local:llama3",
		synthFn: func(ctx context.Context, req provider.SynthesisRequest) provider.SynthesisResult {
			if req.Schema == nil {
				return ok("context")
			}
			started <- struct{}{}
			if calls.Add(1) == 1 {
				<-ctx.Done()
				return provider.SynthesisFailed(ctx.Err())
			}
			return ok(ideaJSON("Second"))
		},
	}
	e, _ := newTestEngine(&provider.Set{Active: local})
	slots := NewSlots()
	first := &recorder{}

	type outcome struct {
		idea *model.BusinessIdea
		err  error
	}
	firstDone := make(chan outcome, 1)
	go func() {
		idea, err := InSlot(slots, context.Background(), "idea", first, func(ctx context.Context, sink Sink) (*model.BusinessIdea, error) {
			return e.GenerateIdea(ctx, localCfg(false), sink)
		})
		firstDone <- outcome{idea, err}
	}()

	<-started
	assert.True(t, slots.Running("idea"))
	seenBefore := len(first.all())

	second := &recorder{}
	idea, err := InSlot(slots, context.Background(), "idea", second, func(ctx context.Context, sink Sink) (*model.BusinessIdea, error) {
		return e.GenerateIdea(ctx, localCfg(false), sink)
	})
	require.NoError(t, err)
	assert.Equal(t, "Second", idea.Title)
	assert.Equal(t, StateDone, second.all()[len(second.all())-1].State)

	select {
	case out := <-firstDone:
		assert.Nil(t, out.idea)
		assert.ErrorIs(t, out.err, ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("superseded run did not return")
	}
	// 被取代之后不再投递事件，包括 Failed
	assert.Len(t, first.all(), seenBefore)
	assert.False(t, slots.Running("idea"))
}

func TestSlotsIndependentKeys(t *testing.T) {
	slots := NewSlots()
	v, err := InSlot(slots, context.Background(), "a", nil, func(ctx context.Context, _ Sink) (int, error) {
		assert.True(t, slots.Running("a"))
		assert.False(t, slots.Running("b"))
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.False(t, slots.Running("a"))
}
