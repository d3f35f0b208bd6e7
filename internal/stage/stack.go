package stage

import (
	"log/slog"

	"github.com/Garsondee/tileframe/internal/logging"
)

// Stack is the ordered set of live stages. The last element is current.
// A Stack is driven from the frame loop goroutine only.
type Stack struct {
	stages []Stage
}

// Push makes s current. Stages beneath stay alive and paused.
func (st *Stack) Push(s Stage) {
	if s == nil {
		logging.For("stage").Warn("ignoring push of nil stage")
		return
	}
	st.stages = append(st.stages, s)
}

// Pop releases the current stage. Popping an empty stack is a logged no-op.
func (st *Stack) Pop() {
	if len(st.stages) == 0 {
		logging.For("stage").Warn("pop on empty stage stack")
		return
	}
	top := st.stages[len(st.stages)-1]
	st.stages[len(st.stages)-1] = nil
	st.stages = st.stages[:len(st.stages)-1]
	release(top)
}

// Replace pops the current stage and pushes s with nothing in between.
func (st *Stack) Replace(s Stage) {
	st.Pop()
	st.Push(s)
}

// Clear releases every stage, most recently pushed first.
func (st *Stack) Clear() {
	for len(st.stages) > 0 {
		st.Pop()
	}
}

// IsEmpty reports whether no stage is live.
func (st *Stack) IsEmpty() bool {
	return len(st.stages) == 0
}

// Len returns the stack depth.
func (st *Stack) Len() int {
	return len(st.stages)
}

// Current returns the active stage, or nil when the stack is empty.
// Callers check IsEmpty first.
func (st *Stack) Current() Stage {
	if len(st.stages) == 0 {
		return nil
	}
	return st.stages[len(st.stages)-1]
}

// Names lists the stages bottom to top.
func (st *Stack) Names() []string {
	out := make([]string, len(st.stages))
	for i, s := range st.stages {
		out[i] = NameOf(s)
	}
	return out
}

// Apply performs cmd on the stack. It reports true when cmd was Quit, in
// which case the stack has been cleared.
func (st *Stack) Apply(cmd Command) bool {
	switch cmd.Kind {
	case Continue:
	case Replace:
		st.Replace(cmd.Next)
	case Push:
		st.Push(cmd.Next)
	case Pop:
		st.Pop()
	case Quit:
		st.Clear()
		return true
	default:
		logging.For("stage").Warn("unknown stage command", slog.Int("kind", int(cmd.Kind)))
	}
	return false
}

func release(s Stage) {
	if f, ok := s.(Finisher); ok {
		f.Finish()
	}
}
