package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateHappyPath(t *testing.T) {
	s := Collapsed
	var err error
	for _, e := range []Event{
		EventHeaderClicked,
		EventExpandConfirmed,
		EventHandlerInvoked,
		EventSaveArmed,
		EventSaveObserved,
	} {
		s, err = Next(s, e)
		require.NoError(t, err)
	}
	assert.Equal(t, Completed, s)
}

func TestStateRejectsSkippingSave(t *testing.T) {
	// A section can never complete without the save click being observed.
	_, err := Next(ActiveProcessing, EventSaveObserved)
	assert.Error(t, err)
	_, err = Next(ActiveUnprocessed, EventSaveObserved)
	assert.Error(t, err)
}

func TestStateRejectsHandlerBeforeExpand(t *testing.T) {
	_, err := Next(Collapsed, EventHandlerInvoked)
	assert.Error(t, err)
	_, err = Next(Expanding, EventHandlerInvoked)
	assert.Error(t, err)
}

func TestStateTerminalHasNoTransitions(t *testing.T) {
	for _, e := range []Event{EventHeaderClicked, EventExpandConfirmed, EventHandlerInvoked, EventSaveArmed, EventSaveObserved} {
		_, err := Next(Completed, e)
		assert.Error(t, err)
	}
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "awaiting-user-save", AwaitingUserSave.String())
	assert.Equal(t, "completed", Completed.String())
}
