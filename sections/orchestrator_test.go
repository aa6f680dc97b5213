package sections

import (
	"context"
	"testing"

	pw "github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainHandlersSkipIndex8(t *testing.T) {
	handlers := ChainHandlers()
	_, ok := handlers[IdxConstruccionesAnexas]
	assert.False(t, ok, "la sección 8 solo se diligencia por comando externo")
}

func TestChainHandlersCoverage(t *testing.T) {
	handlers := ChainHandlers()
	for _, idx := range []int{0, 1, 2, 3, 4, 5, 6, 7, 9, 10} {
		assert.Contains(t, handlers, idx)
	}
	assert.Len(t, handlers, 10)
}

func TestRunAlignsStateWhenExpandFails(t *testing.T) {
	// A section without a locatable header cannot be expanded; the handler
	// still runs best effort and its lifecycle events must be accepted.
	form := &fakeForm{sectionCount: 1, headerless: true}
	rc, err := newFakeRun(form)
	require.NoError(t, err)

	o := NewOrchestrator(rc)
	var seen []State
	o.handlers = map[int]Handler{
		0: func(ctx context.Context, rc *RunContext, section pw.ElementHandle) error {
			_, st, _ := o.Status()
			seen = append(seen, st)
			return nil
		},
	}

	require.NoError(t, o.Run(context.Background()))
	require.Len(t, seen, 1)
	assert.Equal(t, ActiveProcessing, seen[0])

	_, _, running := o.Status()
	assert.False(t, running)
}

func TestRunRejectsConcurrentRuns(t *testing.T) {
	form := &fakeForm{sectionCount: 1, headerless: true}
	rc, err := newFakeRun(form)
	require.NoError(t, err)

	o := NewOrchestrator(rc)
	started := make(chan struct{})
	release := make(chan struct{})
	o.handlers = map[int]Handler{
		0: func(ctx context.Context, rc *RunContext, section pw.ElementHandle) error {
			close(started)
			<-release
			return nil
		},
	}

	done := make(chan error, 1)
	go func() { done <- o.Run(context.Background()) }()
	<-started
	assert.Error(t, o.Run(context.Background()))
	close(release)
	require.NoError(t, <-done)
}
