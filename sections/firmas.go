package sections

import (
	"context"

	pw "github.com/playwright-community/playwright-go"

	"catastro/engine"
)

// HandleFinal closes the ficha, section 10: two signature sub-flows, first
// the supervisor then the field technician. Each sub-flow opens the signing
// modal through the numbered edit affordance, resolves the signer against the
// personnel lookup, and types the signing date char by char (the date input
// is masked). A sub-flow whose signer is absent from the draft is skipped
// whole: no modal is opened for it.
func HandleFinal(ctx context.Context, rc *RunContext, section pw.ElementHandle) error {
	rc.Waiter.Settle()
	engine.Info(rc.Log, "[final] Diligenciando firmas…")

	signFlow(rc, section, "Supervisor", "final-supervisor-nombre", "final-supervisor-fecha")
	signFlow(rc, section, "Técnico", "final-tecnico-nombre", "final-tecnico-fecha")

	rc.AwaitSave(SecFinal, "Guardar")
	return nil
}

func signFlow(rc *RunContext, section pw.ElementHandle, role, nameKey, dateKey string) {
	signer := rc.Draft.Get(SecFinal, nameKey)
	if signer == "" {
		engine.Info(rc.Log, "[final] Sin firmante para %s; se omite la firma", role)
		return
	}

	edit := rc.Locator.FindButton(section, role)
	if edit == nil {
		edit = rc.Locator.FindButton(section, "Editar firma")
	}
	if edit == nil {
		engine.Warning(rc.Log, "[final] Sin acceso a la firma de %s", role)
		return
	}
	engine.SimulateClick(edit)

	modal := rc.Waiter.WaitForModal("Firma", 0)
	if modal == nil {
		engine.Warning(rc.Log, "[final] El modal de firma de %s no apareció", role)
		return
	}

	// The signer resolves through the personnel lookup; one hit is taken
	// automatically, several defer to the user, as everywhere else.
	if lookup := rc.Locator.FindButton(modal, "Buscar funcionario"); lookup != nil {
		engine.SimulateClick(lookup)
	}
	res := rc.Modal.Search("Funcionarios", signer, 1)
	if res.Count <= 0 {
		engine.Warning(rc.Log, "[final] El funcionario «%s» no se resolvió", signer)
	}

	// Re-resolve the signing modal; the personnel dialog re-rendered the
	// overlay stack.
	modal = rc.Waiter.WaitForModal("Firma", 0)
	if modal == nil {
		engine.Warning(rc.Log, "[final] El modal de firma de %s se perdió tras la búsqueda", role)
		return
	}

	rc.TypeDate(modal, "Fecha", SecFinal, dateKey)

	if save := rc.Locator.FindButton(modal, "Guardar"); save != nil {
		engine.SimulateClick(save)
		if err := rc.Waiter.WaitForModalGone("Firma", 0); err != nil {
			engine.Warning(rc.Log, "[final] El modal de firma de %s no se cerró: %v", role, err)
		}
	}
	rc.Waiter.Settle()
	engine.Success(rc.Log, "[final] Firma de %s registrada", role)
}
