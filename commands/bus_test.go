package commands

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catastro/engine"
	"catastro/sections"
)

type recordingExecutor struct {
	construcciones [][]sections.Row
	obras          [][]sections.Row
	err            error
}

func (r *recordingExecutor) ExecuteConstrucciones(_ context.Context, rows []sections.Row) error {
	r.construcciones = append(r.construcciones, rows)
	return r.err
}

func (r *recordingExecutor) ExecuteObras(_ context.Context, rows []sections.Row) error {
	r.obras = append(r.obras, rows)
	return r.err
}

func testBus(exec Executor) *Bus {
	return &Bus{
		log:    &engine.SimpleLogger{},
		exec:   exec,
		serial: make(chan struct{}, 1),
	}
}

func TestValidate(t *testing.T) {
	rows := []sections.Row{{"area": "35"}}
	assert.NoError(t, Validate(Command{Action: ActionExecuteSection, Section: "construcciones", Data: rows}))
	assert.NoError(t, Validate(Command{Action: ActionExecuteSection, Section: "obras", Data: rows}))
	assert.Error(t, Validate(Command{Action: "otra", Section: "construcciones", Data: rows}))
	assert.Error(t, Validate(Command{Action: ActionExecuteSection, Section: "principales", Data: rows}))
	assert.Error(t, Validate(Command{Action: ActionExecuteSection, Section: "construcciones"}))
}

func TestDispatchRoutesConstrucciones(t *testing.T) {
	exec := &recordingExecutor{}
	b := testBus(exec)

	rows := []sections.Row{{"area": "35", "mes": "5", "anio": "1998"}, {"area": "12"}}
	resp := b.Dispatch(context.Background(), Command{
		Action:  ActionExecuteSection,
		Section: "construcciones",
		Data:    rows,
	})
	assert.True(t, resp.Success)
	require.Len(t, exec.construcciones, 1)
	assert.Equal(t, rows, exec.construcciones[0])
	assert.Empty(t, exec.obras)
}

func TestDispatchReportsHandlerError(t *testing.T) {
	exec := &recordingExecutor{err: assert.AnError}
	b := testBus(exec)

	resp := b.Dispatch(context.Background(), Command{
		Action:  ActionExecuteSection,
		Section: "obras",
		Data:    []sections.Row{{"tipo": "PISCINA"}},
	})
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestDispatchRejectsInvalidWithoutTouchingExecutor(t *testing.T) {
	exec := &recordingExecutor{}
	b := testBus(exec)

	resp := b.Dispatch(context.Background(), Command{Action: "noop"})
	assert.False(t, resp.Success)
	assert.Empty(t, exec.construcciones)
	assert.Empty(t, exec.obras)
}

func TestCommandDecoding(t *testing.T) {
	raw := `{"action":"executeSection","section":"construcciones","data":[{"area":"35","conservacion":"B"}]}`
	var cmd Command
	require.NoError(t, json.Unmarshal([]byte(raw), &cmd))
	assert.Equal(t, ActionExecuteSection, cmd.Action)
	require.Len(t, cmd.Data, 1)
	assert.Equal(t, "B", cmd.Data[0]["conservacion"])
}
