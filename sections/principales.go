package sections

import (
	"context"

	pw "github.com/playwright-community/playwright-go"

	"catastro/engine"
)

// HandlePrincipales fills section 0, the identification data of the predio:
// the sector selector plus the manzana/predio components of the número
// predial. The numbering-condition selector always gets the same canonical
// option; the office never files anything else through this assistant.
func HandlePrincipales(ctx context.Context, rc *RunContext, section pw.ElementHandle) error {
	rc.Waiter.Settle()
	engine.Info(rc.Log, "[principales] Diligenciando datos principales…")

	rc.SelectFromDraft(section, "Sector", SecPrincipales, "principales-sector")
	rc.SelectFromDraft(section, "Comuna", SecPrincipales, "principales-comuna")
	rc.FillInputEnter(section, "Manzana", SecPrincipales, "principales-manzana")
	rc.FillInputEnter(section, "Predio", SecPrincipales, "principales-predio")
	rc.FillInput(section, "Edificio", SecPrincipales, "principales-edificio")
	rc.FillInput(section, "Piso", SecPrincipales, "principales-piso")
	rc.FillInput(section, "Número predial anterior", SecPrincipales, "principales-numero-anterior")

	rc.SelectFixed(section, "Condición de numeración", "0 - NORMAL")

	rc.AwaitSave(SecPrincipales, "Guardar")
	return nil
}
