package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/engine"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/library"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/normalize"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/schema"
)

func TestMapError(t *testing.T) {
	s := &TrendService{log: log.NewHelper(log.DefaultLogger)}
	runErr := func(err error) error { return &engine.RunError{Task: "primary_idea", State: engine.StateNormalizing, Err: err} }

	cases := []struct {
		err    error
		code   int
		reason string
	}{
		{fmt.Errorf("%w: empty", engine.ErrInvalidInput), 400, "INVALID_INPUT"},
		{library.ErrNotFound, 404, "IDEA_NOT_FOUND"},
		{engine.ErrSuperseded, 409, "RUN_SUPERSEDED"},
		{runErr(&normalize.Error{Raw: "garbage"}), 502, "NORMALIZATION_FAILED"},
		{runErr(&schema.IncompleteError{Problems: []string{"$.title: missing required field"}}), 502, "INCOMPLETE_RESULT"},
		{runErr(fmt.Errorf("%w: %w", engine.ErrSynthesis, errors.New("reset"))), 502, "SYNTHESIS_FAILED"},
		{context.DeadlineExceeded, 504, "RUN_CANCELLED"},
		{errors.New("boom"), 500, "INTERNAL"},
		{kerrors.BadRequest("INVALID_TASK", "x"), 400, "INVALID_TASK"},
	}
	for _, c := range cases {
		e := kerrors.FromError(s.mapError(c.err))
		assert.Equal(t, int32(c.code), e.Code, c.err.Error())
		assert.Equal(t, c.reason, e.Reason, c.err.Error())
	}
}

func TestDispatchRejectsBadRequests(t *testing.T) {
	s := &TrendService{log: log.NewHelper(log.DefaultLogger)}

	_, err := s.Dispatch(context.Background(), StreamReq{Action: "dance"}, nil)
	assert.Equal(t, "INVALID_ACTION", kerrors.Reason(err))

	_, err = s.Dispatch(context.Background(), StreamReq{Action: ActionAsset, Task: "poem"}, nil)
	assert.Equal(t, "INVALID_TASK", kerrors.Reason(err))

	frame := s.ErrorFrame(err)
	assert.Equal(t, FrameError, frame.Type)
	assert.Equal(t, int32(400), frame.Error.Code)
}
