package sections

import (
	"context"

	pw "github.com/playwright-community/playwright-go"

	"catastro/engine"
)

// HandleLinderos fills section 3, the four cardinal boundaries. After the
// user saves, the form derives a combined boundary description from the
// just-populated fields; that derived text is captured back into the draft.
func HandleLinderos(ctx context.Context, rc *RunContext, section pw.ElementHandle) error {
	rc.Waiter.Settle()
	engine.Info(rc.Log, "[linderos] Diligenciando linderos…")

	rc.FillInput(section, "Norte", SecLinderos, "linderos-norte")
	rc.FillInput(section, "Sur", SecLinderos, "linderos-sur")
	rc.FillInput(section, "Oriente", SecLinderos, "linderos-oriente")
	rc.FillInput(section, "Occidente", SecLinderos, "linderos-occidente")

	rc.AwaitSave(SecLinderos, "Guardar")

	if desc := rc.Locator.FindInput(section, "Descripción"); desc != nil {
		rc.CaptureBack(SecLinderos, "linderos-descripcion", engine.CurrentValue(desc))
	}
	return nil
}
