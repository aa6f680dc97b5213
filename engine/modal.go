package engine

import (
	"regexp"
	"strconv"
	"time"
)

// Modal search driver for the reference-code lookup dialogs (streets, urban
// zones, personnel). Exactly one result means the engine selects it on its
// own; more than one means the human picks and the driver waits for the modal
// to resolve; a count that never stabilizes is reported as -1 and the run
// continues without a selection.

// SearchResult captures the outcome of a lookup.
type SearchResult struct {
	Count      int
	AutoSelect bool
}

// DecideSelection maps an observed, stable result count to the driver's
// behavior. Kept free of DOM concerns so the semantics stay testable.
func DecideSelection(count int) SearchResult {
	switch {
	case count == 1:
		return SearchResult{Count: 1, AutoSelect: true}
	case count > 1:
		return SearchResult{Count: count, AutoSelect: false}
	case count == 0:
		return SearchResult{Count: 0, AutoSelect: false}
	default:
		return SearchResult{Count: -1, AutoSelect: false}
	}
}

var countPattern = regexp.MustCompile(`\d+`)

// ParseResultCount extracts the record count from the indicator element's
// text ("Se encontraron 3 registros", "1 - 10 de 42"). The last number wins
// for paginator-style texts; -1 when no number is present.
func ParseResultCount(text string) int {
	matches := countPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return -1
	}
	n, err := strconv.Atoi(matches[len(matches)-1])
	if err != nil {
		return -1
	}
	return n
}

// ModalSearch drives the lookup dialogs.
type ModalSearch struct {
	waiter  *Waiter
	locator *Locator
	log     Logger

	CountPollInterval time.Duration
	CountTimeout      time.Duration
}

func NewModalSearch(w *Waiter, loc *Locator, log Logger) *ModalSearch {
	return &ModalSearch{
		waiter:            w,
		locator:           loc,
		log:               log,
		CountPollInterval: 500 * time.Millisecond,
		CountTimeout:      15 * time.Second,
	}
}

// Search opens the modal titled by titleSubstring, runs the query, waits for
// the count to stabilize and applies the selection semantics. expectedCount
// is the count the caller considers final immediately (normally 1). Any
// internal failure is logged and returned as a count of -1; nothing
// propagates, because a failed lookup must not abort the rest of the section.
func (m *ModalSearch) Search(titleSubstring, query string, expectedCount int) SearchResult {
	if expectedCount <= 0 {
		expectedCount = 1
	}
	modal := m.waiter.WaitForModal(titleSubstring, 0)
	if modal == nil {
		return SearchResult{Count: -1}
	}

	input := m.locator.FindInput(modal, "Código")
	if input == nil {
		input = firstMatch(modal, []string{"input[type='text']", "input:not([type='hidden'])"})
	}
	if input == nil {
		Error(m.log, "El modal «%s» no tiene campo de búsqueda", titleSubstring)
		return SearchResult{Count: -1}
	}
	if !SetNativeValue(input, query) {
		Error(m.log, "No se pudo escribir «%s» en el modal «%s»", query, titleSubstring)
		return SearchResult{Count: -1}
	}

	trigger := firstMatch(modal, ModalSearchButtons)
	if trigger == nil {
		trigger = m.locator.FindButton(modal, "Buscar")
	}
	if trigger == nil {
		Error(m.log, "El modal «%s» no tiene botón de búsqueda", titleSubstring)
		return SearchResult{Count: -1}
	}
	SimulateClick(trigger)
	Info(m.log, "Buscando «%s» en «%s»…", query, titleSubstring)

	count := m.pollCount(titleSubstring, expectedCount)
	result := DecideSelection(count)

	switch {
	case result.AutoSelect:
		m.autoSelect(titleSubstring)
	case result.Count > 1:
		Warning(m.log, "«%s»: %d registros; seleccione manualmente", titleSubstring, result.Count)
		m.waitForHuman(titleSubstring)
	case result.Count == 0:
		Warning(m.log, "«%s»: la búsqueda de «%s» no arrojó registros", titleSubstring, query)
	default:
		Warning(m.log, "«%s»: no se pudo leer el número de registros", titleSubstring)
	}
	return result
}

// pollCount re-reads the count indicator until it stabilizes at the expected
// count, at any other positive count, or the timeout elapses. The modal is
// re-resolved on every pass; the dialog body re-renders when results land.
func (m *ModalSearch) pollCount(titleSubstring string, expectedCount int) int {
	deadline := time.Now().Add(m.CountTimeout)
	last := -1
	for time.Now().Before(deadline) {
		modal := m.waiter.findVisibleModal(titleSubstring)
		if modal == nil {
			return last
		}
		indicator := firstMatch(modal, ModalResultCounters)
		if indicator != nil {
			if n := ParseResultCount(handleText(indicator)); n >= 0 {
				if n == expectedCount {
					return n
				}
				if n > 0 {
					return n
				}
				last = n
			}
		}
		time.Sleep(m.CountPollInterval)
	}
	return last
}

func (m *ModalSearch) autoSelect(titleSubstring string) {
	modal := m.waiter.findVisibleModal(titleSubstring)
	if modal == nil {
		return
	}
	sel := firstMatch(modal, ModalRowSelects)
	if sel == nil {
		sel = m.locator.FindButton(modal, "Seleccionar")
	}
	if sel == nil {
		Warning(m.log, "«%s»: único registro sin acción de selección visible", titleSubstring)
		return
	}
	if SimulateClick(sel) {
		Success(m.log, "«%s»: registro único seleccionado automáticamente", titleSubstring)
	}
	m.waiter.Settle()
}

// waitForHuman blocks until the ambiguous modal resolves: either the dialog
// leaves the DOM (the human selected or dismissed) or a real click on a
// row-level select action is observed.
func (m *ModalSearch) waitForHuman(titleSubstring string) {
	clicked := make(chan struct{}, 1)
	go func() {
		if _, err := m.waiter.WaitForButtonClick("", "Seleccionar", 10*time.Minute); err == nil {
			clicked <- struct{}{}
		}
	}()
	deadline := time.Now().Add(10 * time.Minute)
	for time.Now().Before(deadline) {
		select {
		case <-clicked:
			m.waiter.Settle()
			Success(m.log, "«%s»: selección manual registrada", titleSubstring)
			return
		default:
		}
		if m.waiter.findVisibleModal(titleSubstring) == nil {
			Success(m.log, "«%s»: modal cerrado por el usuario", titleSubstring)
			return
		}
		time.Sleep(m.waiter.PollInterval)
	}
	Warning(m.log, "«%s»: espera de selección manual agotada", titleSubstring)
}
