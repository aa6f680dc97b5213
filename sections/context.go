package sections

import (
	"context"
	"time"

	pw "github.com/playwright-community/playwright-go"

	"catastro/draft"
	"catastro/engine"
)

// Section names as they key the draft record. The "final" section holds the
// signature fields.
const (
	SecPrincipales    = "principales"
	SecUbicacion      = "ubicacion"
	SecPropietario    = "propietario"
	SecLinderos       = "linderos"
	SecTerreno        = "terreno"
	SecServicios      = "servicios"
	SecUso            = "uso"
	SecConstrucciones = "construcciones"
	SecObras          = "obras"
	SecFinal          = "final"
)

// RunContext carries everything a handler needs for one automation run. It is
// created when the run starts and discarded when it ends; nothing here lives
// at package level.
type RunContext struct {
	Page     pw.Page
	Waiter   *engine.Waiter
	Locator  *engine.Locator
	Dropdown *engine.Dropdown
	Modal    *engine.ModalSearch
	Store    *draft.Store
	Draft    draft.Record
	Log      engine.Logger
	RunID    string

	// phase is invoked by handlers to report state transitions upward; the
	// orchestrator installs it. Optional.
	phase func(Event)
}

// NewRunContext wires the engine components around a live page and loads the
// draft snapshot the handlers will read.
func NewRunContext(ctx context.Context, page pw.Page, store *draft.Store, log engine.Logger, runID string) (*RunContext, error) {
	waiter, err := engine.NewWaiter(page, log)
	if err != nil {
		return nil, err
	}
	locator := engine.NewLocator(log)
	rc := &RunContext{
		Page:     page,
		Waiter:   waiter,
		Locator:  locator,
		Dropdown: engine.NewDropdown(waiter, log),
		Modal:    engine.NewModalSearch(waiter, locator, log),
		Store:    store,
		Log:      log,
		RunID:    runID,
	}
	if store != nil {
		rec, err := store.Load(ctx)
		if err != nil {
			return nil, err
		}
		rc.Draft = rec
	} else {
		rc.Draft = draft.Record{}
	}
	return rc, nil
}

func (rc *RunContext) report(e Event) {
	if rc.phase != nil {
		rc.phase(e)
	}
}

// AwaitSave arms the one-shot listener for the section's real save button and
// suspends until the human clicks it. No timeout: this checkpoint is gated on
// genuine human action.
func (rc *RunContext) AwaitSave(sectionName, buttonText string) {
	if buttonText == "" {
		buttonText = "Guardar"
	}
	rc.report(EventSaveArmed)
	engine.Info(rc.Log, "[%s] Esperando que el usuario guarde la sección…", sectionName)
	_, _ = rc.Waiter.WaitForButtonClick("", buttonText, 0)
	rc.report(EventSaveObserved)
	engine.Success(rc.Log, "[%s] Guardado confirmado por el usuario", sectionName)
	rc.Waiter.Settle()
}

// CaptureBack merges one value the live form derived during this run into the
// draft, so a future run does not need to repeat the lookup. Best effort.
func (rc *RunContext) CaptureBack(section, field, value string) {
	if value == "" || rc.Store == nil {
		return
	}
	rc.Draft.Set(section, field, value)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Store.Capture(ctx, section, field, value); err != nil {
		engine.Warning(rc.Log, "[%s] No se pudo guardar «%s» en el borrador: %v", section, field, err)
	}
}
