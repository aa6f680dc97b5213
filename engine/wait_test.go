package engine

import (
	"sync"
	"testing"
	"time"

	pw "github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clickPage stubs just enough of the page for the click-wait machinery: it
// captures the exposed binding and the install/remove script arguments.
type clickPage struct {
	pw.Page

	mu       sync.Mutex
	binding  pw.ExposedFunction
	installs []map[string]interface{}
	removed  []string
}

func (p *clickPage) ExposeFunction(name string, binding pw.ExposedFunction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.binding = binding
	return nil
}

func (p *clickPage) Evaluate(expression string, options ...interface{}) (interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(options) > 0 {
		switch arg := options[0].(type) {
		case map[string]interface{}:
			p.installs = append(p.installs, arg)
		case string:
			p.removed = append(p.removed, arg)
		}
	}
	return nil, nil
}

func (p *clickPage) notify(id, text string) {
	p.mu.Lock()
	binding := p.binding
	p.mu.Unlock()
	binding(id, text)
}

func (p *clickPage) armedID(t *testing.T) string {
	t.Helper()
	var id string
	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		if len(p.installs) == 0 {
			return false
		}
		id, _ = p.installs[len(p.installs)-1]["id"].(string)
		return id != ""
	}, time.Second, 2*time.Millisecond)
	return id
}

type clickResult struct {
	notice ClickNotice
	err    error
}

func TestWaitForButtonClickIgnoresForeignNotice(t *testing.T) {
	p := &clickPage{}
	w, err := NewWaiter(p, &SimpleLogger{})
	require.NoError(t, err)

	res := make(chan clickResult, 1)
	go func() {
		n, err := w.WaitForButtonClick("", "Guardar", 2*time.Second)
		res <- clickResult{n, err}
	}()
	id := p.armedID(t)

	// A leftover listener from an earlier watch fires with another wait's id;
	// the Guardar checkpoint must stay pending.
	p.notify("w999", "Seleccionar registro")
	select {
	case r := <-res:
		t.Fatalf("la espera de Guardar se resolvió con un aviso ajeno: %+v", r.notice)
	case <-time.After(50 * time.Millisecond):
	}

	p.notify(id, "Guardar")
	r := <-res
	require.NoError(t, r.err)
	assert.Equal(t, "Guardar", r.notice.Text)
}

func TestWaitForButtonClickTimeoutRemovesListener(t *testing.T) {
	p := &clickPage{}
	w, err := NewWaiter(p, &SimpleLogger{})
	require.NoError(t, err)

	_, err = w.WaitForButtonClick("", "Guardar", 20*time.Millisecond)
	require.Error(t, err)
	var timeoutErr *ErrWaitTimeout
	assert.ErrorAs(t, err, &timeoutErr)

	p.mu.Lock()
	removed := append([]string(nil), p.removed...)
	installs := len(p.installs)
	p.mu.Unlock()
	require.Equal(t, 1, installs)
	assert.Len(t, removed, 1, "el observador abandonado debe retirarse del documento")

	// A late notice from the abandoned listener is dropped without blocking.
	p.notify(removed[0], "Guardar")
}

func TestWaitForButtonClickDistinctIDs(t *testing.T) {
	p := &clickPage{}
	w, err := NewWaiter(p, &SimpleLogger{})
	require.NoError(t, err)

	_, _ = w.WaitForButtonClick("", "Guardar", time.Millisecond)
	_, _ = w.WaitForButtonClick("", "Seleccionar", time.Millisecond)

	p.mu.Lock()
	defer p.mu.Unlock()
	require.Len(t, p.installs, 2)
	assert.NotEqual(t, p.installs[0]["id"], p.installs[1]["id"])
}
