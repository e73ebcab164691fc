package engine

import (
	"errors"
	"fmt"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/model"
)

var (
	// ErrSynthesis 生成调用失败
	ErrSynthesis = errors.New("synthesis failed")
	// ErrSuperseded 同一槽位上有更新的运行
	ErrSuperseded = errors.New("run superseded by a newer run")
	// ErrInvalidInput 任务输入不合法
	ErrInvalidInput = errors.New("invalid task input")
)

// RunError 运行终止于 Failed 时返回的错误
type RunError struct {
	RunID string
	Task  model.Task
	State State // 失败前所处的阶段
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s run %s failed while %s: %v", e.Task, e.RunID, e.State, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

func synthesisError(cause error) error {
	if cause == nil {
		return ErrSynthesis
	}
	return fmt.Errorf("%w: %w", ErrSynthesis, cause)
}
