package sections

import (
	"context"
	"fmt"
	"time"

	pw "github.com/playwright-community/playwright-go"

	"catastro/engine"
)

// The repeatable sections hold one sub-entity per table row: constructions
// (7 and 8) and complementary works (9). Their rows do not come from the
// draft; they arrive through the out-of-band executeSection command with an
// explicit array of row records. The in-chain handlers for these sections
// therefore only hold the checkpoint.

// Row is one record of a repeatable section, field-key to value.
type Row map[string]string

// Section indices of the repeatable panels.
const (
	IdxConstrucciones       = 7
	IdxConstruccionesAnexas = 8
	IdxObras                = 9
)

// HandleConstruccionesChain is the linear-advance handler for section 7: the
// rows themselves are filled by ExecuteConstrucciones when the command
// arrives, so the chain only waits for the human save.
func HandleConstruccionesChain(ctx context.Context, rc *RunContext, section pw.ElementHandle) error {
	rc.Waiter.Settle()
	rc.AwaitSave(SecConstrucciones, "Guardar")
	return nil
}

// HandleObrasChain is the linear-advance handler for section 9, analogous to
// HandleConstruccionesChain.
func HandleObrasChain(ctx context.Context, rc *RunContext, section pw.ElementHandle) error {
	rc.Waiter.Settle()
	rc.AwaitSave(SecObras, "Guardar")
	return nil
}

// ExecuteConstrucciones runs the out-of-band construcciones command: one
// fresh "new record" modal per row, strictly sequential. The form cannot hold
// two of these modals at once, so the next row never starts before the
// previous modal is confirmed closed.
func ExecuteConstrucciones(ctx context.Context, rc *RunContext, rows []Row) error {
	return executeRows(ctx, rc, IdxConstrucciones, "Construcción", rows, fillConstruccionRow)
}

// ExecuteObras runs the out-of-band obras command over section 9.
func ExecuteObras(ctx context.Context, rc *RunContext, rows []Row) error {
	return executeRows(ctx, rc, IdxObras, "Obra complementaria", rows, fillObraRow)
}

func executeRows(ctx context.Context, rc *RunContext, sectionIdx int, modalTitle string, rows []Row, fill func(*RunContext, pw.ElementHandle, Row)) error {
	if len(rows) == 0 {
		return nil
	}
	engine.Info(rc.Log, "[%s] Registrando %d filas…", modalTitle, len(rows))

	if !rc.Waiter.SectionExpanded(sectionIdx) {
		header := rc.Waiter.SectionHeader(sectionIdx)
		if header == nil {
			return fmt.Errorf("la sección %d no está disponible", sectionIdx)
		}
		engine.SimulateClick(header)
		if err := rc.Waiter.WaitForSectionExpand(sectionIdx, 0); err != nil {
			return fmt.Errorf("la sección %d no se expandió: %v", sectionIdx, err)
		}
	}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		// The section container re-renders after every saved row.
		section := rc.ActiveSection(sectionIdx)
		if section == nil {
			return fmt.Errorf("la sección %d desapareció tras la fila %d", sectionIdx, i)
		}
		nuevo := rc.Locator.FindButton(section, "Nuevo")
		if nuevo == nil {
			nuevo = rc.Locator.FindButton(section, "Agregar")
		}
		if nuevo == nil {
			return fmt.Errorf("sin botón de nuevo registro en la sección %d", sectionIdx)
		}
		engine.SimulateClick(nuevo)

		modal := rc.Waiter.WaitForModal(modalTitle, 0)
		if modal == nil {
			return fmt.Errorf("el modal «%s» no apareció para la fila %d", modalTitle, i+1)
		}
		engine.Info(rc.Log, "[%s] Fila %d/%d", modalTitle, i+1, len(rows))

		fill(rc, modal, row)

		save := rc.Locator.FindButton(modal, "Guardar")
		if save == nil {
			save = rc.Locator.FindButton(modal, "Aceptar")
		}
		if save == nil {
			return fmt.Errorf("el modal «%s» no tiene botón de guardar", modalTitle)
		}
		engine.SimulateClick(save)

		if err := rc.Waiter.WaitForModalGone(modalTitle, 0); err != nil {
			return fmt.Errorf("el modal «%s» no se cerró tras la fila %d: %v", modalTitle, i+1, err)
		}
		engine.Success(rc.Log, "[%s] Fila %d registrada", modalTitle, i+1)
		rc.Waiter.Settle()
	}
	return nil
}

// fillConstruccionRow populates one construction modal. The month/year of
// construction come split across two selectors; the quality and material
// attributes arrive as single-letter codes and are decoded before matching.
func fillConstruccionRow(rc *RunContext, modal pw.ElementHandle, row Row) {
	fillRowInput(rc, modal, "Área construida", row["area"], true)
	fillRowInput(rc, modal, "Pisos", row["pisos"], false)
	fillRowInput(rc, modal, "Habitaciones", row["habitaciones"], false)
	fillRowInput(rc, modal, "Baños", row["banos"], false)

	selectRowOption(rc, modal, "Mes", row["mes"])
	selectRowOption(rc, modal, "Año", row["anio"])

	selectRowOption(rc, modal, "Tipo de construcción", "1 - CONVENCIONAL")
	selectRowOption(rc, modal, "Estado de conservación", DecodeAtributo(EstadosConservacion, row["conservacion"]))
	selectRowOption(rc, modal, "Estructura", DecodeAtributo(TiposEstructura, row["estructura"]))
	selectRowOption(rc, modal, "Cubierta", DecodeAtributo(MaterialesCubierta, row["cubierta"]))
	selectRowOption(rc, modal, "Acabados", DecodeAtributo(CalidadesAcabado, row["acabados"]))

	fillRowInput(rc, modal, "Puntaje", row["puntaje"], false)
}

// fillObraRow populates one complementary-work modal.
func fillObraRow(rc *RunContext, modal pw.ElementHandle, row Row) {
	selectRowOption(rc, modal, "Tipo de obra", row["tipo"])
	fillRowInput(rc, modal, "Área", row["area"], true)
	fillRowInput(rc, modal, "Cantidad", row["cantidad"], false)

	selectRowOption(rc, modal, "Mes", row["mes"])
	selectRowOption(rc, modal, "Año", row["anio"])
	selectRowOption(rc, modal, "Estado de conservación", DecodeAtributo(EstadosConservacion, row["conservacion"]))

	fillRowInput(rc, modal, "Observaciones", row["observaciones"], false)
}

func fillRowInput(rc *RunContext, modal pw.ElementHandle, label, value string, enter bool) {
	if value == "" {
		return
	}
	input := rc.Locator.FindInput(modal, label)
	if input == nil {
		return
	}
	if !engine.SetNativeValue(input, value) {
		engine.Warning(rc.Log, "No se pudo escribir «%s» en la fila", label)
		return
	}
	if enter {
		engine.PressEnter(input)
	}
	time.Sleep(100 * time.Millisecond)
}

func selectRowOption(rc *RunContext, modal pw.ElementHandle, label, value string) {
	if value == "" {
		return
	}
	sel := rc.Locator.FindSelect(modal, label)
	if sel == nil {
		return
	}
	if rc.Dropdown.CurrentLabel(sel) != "" {
		return
	}
	rc.Dropdown.SelectOption(sel, value, false)
}
