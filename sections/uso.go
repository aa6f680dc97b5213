package sections

import (
	"context"

	pw "github.com/playwright-community/playwright-go"

	"catastro/engine"
)

// HandleUso fills section 6, the economic destination and land-use code. The
// use code resolves through the master-list lookup modal.
func HandleUso(ctx context.Context, rc *RunContext, section pw.ElementHandle) error {
	rc.Waiter.Settle()
	engine.Info(rc.Log, "[uso] Diligenciando uso y destino económico…")

	rc.SelectFromDraft(section, "Destino económico", SecUso, "uso-destino")

	if rc.Draft.Has(SecUso, "uso-codigo") {
		if btn := rc.Locator.FindButton(section, "Buscar uso"); btn != nil {
			engine.SimulateClick(btn)
			rc.Modal.Search("Usos", rc.Draft.Get(SecUso, "uso-codigo"), 1)
		}
	}

	rc.FillInput(section, "Observaciones", SecUso, "uso-observaciones")

	rc.AwaitSave(SecUso, "Guardar")
	return nil
}
