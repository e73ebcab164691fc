package engine

import "fmt"

// State 一次运行所处的阶段
type State string

const (
	StateIdle              State = "idle"
	StateSelectingStrategy State = "selecting_strategy"
	StateRetrieving        State = "retrieving"
	StateSynthesizing      State = "synthesizing"
	StateNormalizing       State = "normalizing"
	StateDone              State = "done"
	StateFailed            State = "failed"
)

// Terminal Done 或 Failed
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }

// Idle 可直接失败：Provider 构造失败时尚未进入任何阶段
var transitions = map[State][]State{
	StateIdle:              {StateSelectingStrategy, StateSynthesizing, StateFailed},
	StateSelectingStrategy: {StateRetrieving},
	StateRetrieving:        {StateSynthesizing, StateFailed},
	StateSynthesizing:      {StateNormalizing, StateFailed},
	StateNormalizing:       {StateDone, StateFailed},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func mustTransition(from, to State) {
	if !canTransition(from, to) {
		panic(fmt.Sprintf("engine: illegal transition %s -> %s", from, to))
	}
}
