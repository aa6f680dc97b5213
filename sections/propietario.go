package sections

import (
	"context"

	pw "github.com/playwright-community/playwright-go"

	"catastro/engine"
)

// HandlePropietario fills section 2. When the draft carries a document
// number, the owner is resolved against the registry through the lookup
// modal; the name fields only get written when the lookup did not populate
// them already.
func HandlePropietario(ctx context.Context, rc *RunContext, section pw.ElementHandle) error {
	rc.Waiter.Settle()
	engine.Info(rc.Log, "[propietario] Diligenciando propietario…")

	rc.SelectFromDraft(section, "Tipo de documento", SecPropietario, "propietario-tipo-documento")
	rc.FillInputEnter(section, "Número de documento", SecPropietario, "propietario-documento")

	if rc.Draft.Has(SecPropietario, "propietario-documento") {
		if btn := rc.Locator.FindButton(section, "Buscar propietario"); btn != nil {
			engine.SimulateClick(btn)
			res := rc.Modal.Search("Propietarios", rc.Draft.Get(SecPropietario, "propietario-documento"), 1)
			if res.AutoSelect {
				rc.Waiter.Settle()
			}
		}
	}

	// Only write the name when the registry lookup left the field empty.
	if nombre := rc.Locator.FindInput(section, "Nombre"); nombre != nil {
		if engine.CurrentValue(nombre) == "" {
			rc.FillInput(section, "Nombre", SecPropietario, "propietario-nombre")
		}
	}
	rc.FillInput(section, "Teléfono", SecPropietario, "propietario-telefono")
	rc.FillInput(section, "Correo", SecPropietario, "propietario-correo")

	rc.AwaitSave(SecPropietario, "Guardar")
	return nil
}
