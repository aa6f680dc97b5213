package sections

import (
	"context"

	pw "github.com/playwright-community/playwright-go"

	"catastro/engine"
)

// HandleUbicacion fills section 1. The street and the urban zone are
// reference codes resolved through lookup modals against the municipal master
// lists; a single hit is taken automatically, several hits hand control to
// the user. The resolved address the form assembles is captured back into the
// draft so the next run skips the lookup.
func HandleUbicacion(ctx context.Context, rc *RunContext, section pw.ElementHandle) error {
	rc.Waiter.Settle()
	engine.Info(rc.Log, "[ubicacion] Diligenciando ubicación…")

	if rc.Draft.Has(SecUbicacion, "ubicacion-via-codigo") {
		if btn := rc.Locator.FindButton(section, "Buscar vía"); btn != nil {
			engine.SimulateClick(btn)
			res := rc.Modal.Search("Vías", rc.Draft.Get(SecUbicacion, "ubicacion-via-codigo"), 1)
			if res.Count <= 0 {
				engine.Warning(rc.Log, "[ubicacion] La vía «%s» no se resolvió", rc.Draft.Get(SecUbicacion, "ubicacion-via-codigo"))
			}
		}
	}

	if rc.Draft.Has(SecUbicacion, "ubicacion-zona-codigo") {
		if btn := rc.Locator.FindButton(section, "Buscar zona"); btn != nil {
			engine.SimulateClick(btn)
			rc.Modal.Search("Zonas urbanas", rc.Draft.Get(SecUbicacion, "ubicacion-zona-codigo"), 1)
		}
	}

	rc.FillInput(section, "Barrio", SecUbicacion, "ubicacion-barrio")
	rc.FillInputEnter(section, "Complemento", SecUbicacion, "ubicacion-complemento")
	rc.FillInput(section, "Referencia", SecUbicacion, "ubicacion-referencia")

	rc.AwaitSave(SecUbicacion, "Guardar")

	// The form assembles the display address from the resolved street; keep
	// it so future runs need no network lookup.
	if dir := rc.Locator.FindInput(section, "Dirección"); dir != nil {
		rc.CaptureBack(SecUbicacion, "ubicacion-direccion", engine.CurrentValue(dir))
	}
	return nil
}
