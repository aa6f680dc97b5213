package sections

import (
	"context"

	pw "github.com/playwright-community/playwright-go"

	"catastro/engine"
)

// HandleServicios fills section 5, the public-utilities selectors.
func HandleServicios(ctx context.Context, rc *RunContext, section pw.ElementHandle) error {
	rc.Waiter.Settle()
	engine.Info(rc.Log, "[servicios] Diligenciando servicios públicos…")

	rc.SelectFromDraft(section, "Acueducto", SecServicios, "servicios-acueducto")
	rc.SelectFromDraft(section, "Alcantarillado", SecServicios, "servicios-alcantarillado")
	rc.SelectFromDraft(section, "Energía", SecServicios, "servicios-energia")
	rc.SelectFromDraft(section, "Gas", SecServicios, "servicios-gas")
	rc.SelectFromDraft(section, "Estrato", SecServicios, "servicios-estrato")

	rc.AwaitSave(SecServicios, "Guardar")
	return nil
}
