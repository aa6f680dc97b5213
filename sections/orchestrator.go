package sections

import (
	"context"
	"fmt"
	"sync"

	pw "github.com/playwright-community/playwright-go"

	"catastro/engine"
)

// Handler populates one section from the draft and blocks until the human
// saves it. Errors are recoverable: the sequencer logs them and advances.
type Handler func(ctx context.Context, rc *RunContext, section pw.ElementHandle) error

// ChainHandlers is the explicit table mapping section index to handler.
// Index 8 (construcciones anexas) deliberately has no chain entry: its rows
// only arrive through the out-of-band executeSection command, and the linear
// advance passes it by.
func ChainHandlers() map[int]Handler {
	return map[int]Handler{
		0:  HandlePrincipales,
		1:  HandleUbicacion,
		2:  HandlePropietario,
		3:  HandleLinderos,
		4:  HandleTerreno,
		5:  HandleServicios,
		6:  HandleUso,
		7:  HandleConstruccionesChain,
		9:  HandleObrasChain,
		10: HandleFinal,
	}
}

// Orchestrator drives the section-by-section progression. One run at a time;
// all page interaction happens on the goroutine that called Run.
type Orchestrator struct {
	rc       *RunContext
	handlers map[int]Handler

	mu      sync.Mutex
	current int
	state   State
	running bool
}

func NewOrchestrator(rc *RunContext) *Orchestrator {
	o := &Orchestrator{
		rc:       rc,
		handlers: ChainHandlers(),
		state:    Collapsed,
	}
	rc.phase = o.apply
	return o
}

// Status reports the current section index and its state.
func (o *Orchestrator) Status() (int, State, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current, o.state, o.running
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// apply advances the tracked state through the transition table. A rejected
// transition is a bug in a handler's event order; it is logged, never fatal.
func (o *Orchestrator) apply(e Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	next, err := Next(o.state, e)
	if err != nil {
		engine.Warning(o.rc.Log, "Sección %d: %v", o.current, err)
		return
	}
	o.state = next
}

// Run walks the sections from index 0 until the index runs past the last
// panel, which is the terminal state. Each iteration expands the target
// section when needed, dispatches its handler when one is registered, and
// advances. A handler error or panic is logged and the run continues with the
// next section.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return fmt.Errorf("ya hay un recorrido en curso")
	}
	o.running = true
	o.current = 0
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()

	engine.Info(o.rc.Log, "Iniciando recorrido de la ficha (ejecución %s)", o.rc.RunID)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		sections := o.rc.Waiter.Sections()
		o.mu.Lock()
		idx := o.current
		o.mu.Unlock()
		if idx >= len(sections) {
			engine.Success(o.rc.Log, "Todas las secciones procesadas (%d)", len(sections))
			return nil
		}

		if err := o.expand(idx); err != nil {
			engine.Warning(o.rc.Log, "Sección %d no se expandió: %v", idx, err)
			// The handler still runs best effort; put the tracked state where
			// its events are accepted so /status keeps reporting the truth.
			o.setState(ActiveUnprocessed)
		}

		if handler, ok := o.handlers[idx]; ok {
			o.apply(EventHandlerInvoked)
			o.dispatch(ctx, idx, handler)
		} else {
			engine.Info(o.rc.Log, "Sección %d sin diligenciamiento automático; se omite", idx)
		}

		o.mu.Lock()
		o.current++
		o.state = Collapsed
		o.mu.Unlock()
	}
}

// expand clicks the section header when the panel is still collapsed and
// waits for the active class plus rendered content. Section 0 is often
// already open when the page loads; the expand-wait is skipped then.
func (o *Orchestrator) expand(idx int) error {
	if o.rc.Waiter.SectionExpanded(idx) {
		o.setState(ActiveUnprocessed)
		return nil
	}
	header := o.rc.Waiter.SectionHeader(idx)
	if header == nil {
		return fmt.Errorf("sin encabezado localizable")
	}
	o.apply(EventHeaderClicked)
	if !engine.SimulateClick(header) {
		return fmt.Errorf("el encabezado no aceptó el clic")
	}
	if err := o.rc.Waiter.WaitForSectionExpand(idx, 0); err != nil {
		return err
	}
	o.apply(EventExpandConfirmed)
	return nil
}

func (o *Orchestrator) dispatch(ctx context.Context, idx int, handler Handler) {
	defer func() {
		if r := recover(); r != nil {
			engine.Error(o.rc.Log, "Sección %d: pánico en el manejador: %v", idx, r)
		}
	}()
	section := o.rc.ActiveSection(idx)
	if section == nil {
		engine.Warning(o.rc.Log, "Sección %d: contenedor no disponible", idx)
		return
	}
	if err := handler(ctx, o.rc, section); err != nil {
		engine.Error(o.rc.Log, "Sección %d: %v", idx, err)
	}
}
