package sections

import (
	"context"

	pw "github.com/playwright-community/playwright-go"

	"catastro/engine"
)

// HandleTerreno fills section 4: land area and the physical/economic zone
// selectors.
func HandleTerreno(ctx context.Context, rc *RunContext, section pw.ElementHandle) error {
	rc.Waiter.Settle()
	engine.Info(rc.Log, "[terreno] Diligenciando terreno…")

	rc.FillInputEnter(section, "Área de terreno", SecTerreno, "terreno-area")
	rc.SelectFromDraft(section, "Zona física", SecTerreno, "terreno-zona-fisica")
	rc.SelectFromDraft(section, "Zona económica", SecTerreno, "terreno-zona-economica")
	rc.SelectFromDraft(section, "Topografía", SecTerreno, "terreno-topografia")
	rc.SelectFromDraft(section, "Aguas", SecTerreno, "terreno-aguas")

	rc.AwaitSave(SecTerreno, "Guardar")
	return nil
}
