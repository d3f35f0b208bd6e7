// Package stage implements the program-stage scheduler: the Stage capability
// set, the command a stage returns from Update, and the stack that applies it.
package stage

import "github.com/Garsondee/tileframe/internal/event"

// Stage is one unit of program state, such as a menu or a city screen.
// Only the top of the Stack receives calls.
type Stage interface {
	// Update advances the stage by one frame and says what the scheduler
	// should do next.
	Update() Command
	// Render draws the stage to the current surface.
	Render()
	// EventOccurred handles one event. The event must not be retained.
	EventOccurred(e *event.Event)
}

// Finisher is implemented by stages that hold resources. Finish runs exactly
// once, when the stack releases the stage.
type Finisher interface {
	Finish()
}

// Namer is implemented by stages that want a readable name in logs and the
// debug server.
type Namer interface {
	Name() string
}

// CommandKind selects the transition applied after Update.
type CommandKind uint8

const (
	Continue CommandKind = iota
	Replace
	Push
	Pop
	Quit
)

func (k CommandKind) String() string {
	switch k {
	case Continue:
		return "continue"
	case Replace:
		return "replace"
	case Push:
		return "push"
	case Pop:
		return "pop"
	case Quit:
		return "quit"
	}
	return "unknown"
}

// Command is produced fresh by every Update. Next is required for Replace and
// Push and ignored otherwise.
type Command struct {
	Kind CommandKind
	Next Stage
}

// Stay keeps the current stage.
func Stay() Command { return Command{Kind: Continue} }

// ReplaceWith pops the current stage and pushes next.
func ReplaceWith(next Stage) Command { return Command{Kind: Replace, Next: next} }

// PushStage pauses the current stage beneath next.
func PushStage(next Stage) Command { return Command{Kind: Push, Next: next} }

// PopStage releases the current stage.
func PopStage() Command { return Command{Kind: Pop} }

// QuitProgram clears the stack and ends the frame loop.
func QuitProgram() Command { return Command{Kind: Quit} }

// NameOf returns a printable name for s.
func NameOf(s Stage) string {
	if s == nil {
		return "<nil>"
	}
	if n, ok := s.(Namer); ok {
		return n.Name()
	}
	return "stage"
}
