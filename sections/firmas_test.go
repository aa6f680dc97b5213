package sections

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"catastro/draft"
)

type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (c *captureLogger) Printf(format string, v ...interface{}) {
	c.mu.Lock()
	c.lines = append(c.lines, fmt.Sprintf(format, v...))
	c.mu.Unlock()
}

func (c *captureLogger) Errorf(format string, v ...interface{}) {
	c.Printf(format, v...)
}

func (c *captureLogger) joined() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.lines, "\n")
}

func TestSignFlowSkipsWhenSignerAbsent(t *testing.T) {
	// No engine components are wired: any attempt to touch the page would
	// panic, so a clean return proves the sub-flow never opens the modal.
	log := &captureLogger{}
	rc := &RunContext{Draft: draft.Record{}, Log: log}

	signFlow(rc, nil, "Supervisor", "final-supervisor-nombre", "final-supervisor-fecha")

	assert.Contains(t, log.joined(), "se omite la firma")
	assert.NotContains(t, log.joined(), "registrada")
}

func TestSignFlowSkipsBothRolesIndependently(t *testing.T) {
	log := &captureLogger{}
	rec := draft.Record{}
	rc := &RunContext{Draft: rec, Log: log}

	signFlow(rc, nil, "Supervisor", "final-supervisor-nombre", "final-supervisor-fecha")
	signFlow(rc, nil, "Técnico", "final-tecnico-nombre", "final-tecnico-fecha")

	assert.Contains(t, log.joined(), "Supervisor")
	assert.Contains(t, log.joined(), "Técnico")
}
