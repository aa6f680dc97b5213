// Package sections contains one handler per collapsible panel of the
// cadastral form plus the sequencer that drives them section by section,
// pausing at each panel until the human confirms the real save.
package sections

import "fmt"

// State is the lifecycle of a single section during a run.
type State int

const (
	Collapsed State = iota
	Expanding
	ActiveUnprocessed
	ActiveProcessing
	AwaitingUserSave
	Completed
)

func (s State) String() string {
	switch s {
	case Collapsed:
		return "collapsed"
	case Expanding:
		return "expanding"
	case ActiveUnprocessed:
		return "active-unprocessed"
	case ActiveProcessing:
		return "active-processing"
	case AwaitingUserSave:
		return "awaiting-user-save"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event drives section state transitions.
type Event int

const (
	// EventHeaderClicked fires when the section header is clicked, by the
	// automation or the user.
	EventHeaderClicked Event = iota
	// EventExpandConfirmed fires when the active class plus rendered content
	// are observed on the section.
	EventExpandConfirmed
	// EventHandlerInvoked fires when the section handler starts populating.
	EventHandlerInvoked
	// EventSaveArmed fires when the one-shot save-button listener is in place.
	EventSaveArmed
	// EventSaveObserved fires on the real user click of the section's save
	// button; it completes the section and triggers the next expansion.
	EventSaveObserved
)

var transitions = map[State]map[Event]State{
	Collapsed: {
		EventHeaderClicked: Expanding,
	},
	Expanding: {
		EventExpandConfirmed: ActiveUnprocessed,
	},
	ActiveUnprocessed: {
		EventHandlerInvoked: ActiveProcessing,
	},
	ActiveProcessing: {
		EventSaveArmed: AwaitingUserSave,
	},
	AwaitingUserSave: {
		EventSaveObserved: Completed,
	},
}

// Next applies an event to a state. Unknown transitions are an error so a
// handler that misfires an event is caught in tests instead of silently
// corrupting the sequence.
func Next(s State, e Event) (State, error) {
	if to, ok := transitions[s][e]; ok {
		return to, nil
	}
	return s, fmt.Errorf("transición inválida: %s + evento %d", s, int(e))
}
