package engine

import (
	"strings"
	"time"

	pw "github.com/playwright-community/playwright-go"
)

// Dropdown driver for the form's custom selector widget. Options may be
// virtualized (only the visible window mounted), so a miss on the rendered
// items triggers ArrowDown key events and programmatic scrolls of the panel
// before retrying, within a bounded attempt budget. The whole operation is
// best effort: a false return is logged and the calling handler moves on.

const (
	dropdownOpenAttempts   = 30
	dropdownOpenInterval   = 100 * time.Millisecond
	dropdownSearchAttempts = 100
	dropdownScrollStep     = 200
)

// MatchOption applies the matching priority to a normalized target against a
// candidate list and returns the index of the winner, or -1. Priority, first
// hit wins across the whole list per rule:
//  1. exact normalized equality
//  2. single-letter target against exact single-letter option
//  3. code-to-code equality ("1" hits "01 - CONCRETO")
//  4. substring containment either direction (target longer than one rune)
//  5. shared prefix, first 3 characters (or fewer for shorter targets)
func MatchOption(target string, options []string, exact bool) int {
	t := Normalize(target)
	if t == "" {
		return -1
	}
	norm := make([]string, len(options))
	for i, o := range options {
		norm[i] = Normalize(o)
	}
	for i, o := range norm {
		if o == t {
			return i
		}
	}
	if exact {
		return -1
	}
	singleRune := len([]rune(t)) == 1
	if singleRune {
		for i, o := range norm {
			if len([]rune(o)) == 1 && o == t {
				return i
			}
		}
	}
	if code := ExtractCode(t); code != "" {
		for i, o := range options {
			if oc := ExtractCode(o); oc != "" && oc == code {
				return i
			}
		}
	}
	if singleRune {
		// A bare letter must not substring- or prefix-match into longer labels.
		return -1
	}
	for i, o := range norm {
		if strings.Contains(o, t) || strings.Contains(t, o) {
			return i
		}
	}
	prefixLen := 3
	if r := []rune(t); len(r) < prefixLen {
		prefixLen = len(r)
	}
	prefix := string([]rune(t)[:prefixLen])
	for i, o := range norm {
		if strings.HasPrefix(o, prefix) {
			return i
		}
	}
	return -1
}

// Dropdown drives option selection on the custom selector widgets.
type Dropdown struct {
	waiter *Waiter
	log    Logger
}

func NewDropdown(w *Waiter, log Logger) *Dropdown {
	return &Dropdown{waiter: w, log: log}
}

// SelectOption opens the dropdown rooted at sel and clicks the option whose
// text matches targetText under the driver's matching rules. Returns true on
// success; on exhaustion it closes the panel, warns, and returns false.
func (d *Dropdown) SelectOption(sel pw.ElementHandle, targetText string, exact bool) bool {
	if sel == nil {
		Warning(d.log, "Selector no encontrado para la opción «%s»", targetText)
		return false
	}
	panel := d.open(sel)
	if panel == nil {
		Warning(d.log, "No se pudo abrir el selector para «%s»", targetText)
		return false
	}

	for attempt := 0; attempt < dropdownSearchAttempts; attempt++ {
		items := d.visibleItems(panel)
		labels := make([]string, len(items))
		for i, it := range items {
			labels[i] = handleText(it)
		}
		if idx := MatchOption(targetText, labels, exact); idx >= 0 {
			if SimulateClick(items[idx]) {
				d.waiter.Settle()
				Success(d.log, "Opción seleccionada: «%s»", labels[idx])
				return true
			}
		}
		// Virtualized list: nudge the window forward and re-read.
		d.advance(sel, panel)
	}

	ClickBody(d.waiter.Page())
	Warning(d.log, "No se encontró la opción «%s» en el selector", targetText)
	return false
}

// CurrentLabel reads the text the closed selector currently displays.
func (d *Dropdown) CurrentLabel(sel pw.ElementHandle) string {
	if sel == nil {
		return ""
	}
	for _, labelSel := range []string{".ui-dropdown-label", ".ui-selectonemenu-label", "label"} {
		el, err := sel.QuerySelector(labelSel)
		if err != nil || el == nil {
			continue
		}
		txt := handleText(el)
		// The widget renders a non-breaking space while empty.
		txt = strings.TrimSpace(strings.ReplaceAll(txt, " ", " "))
		if strings.EqualFold(txt, "seleccione") {
			return ""
		}
		return txt
	}
	return ""
}

// open clicks the widget's trigger surface and polls until a rendered,
// actually laid-out panel is present. The panel can be mounted but hidden by
// class or inline style, or mounted off-screen with zero layout, so presence
// alone is not enough.
func (d *Dropdown) open(sel pw.ElementHandle) pw.ElementHandle {
	trigger := firstMatch(sel, DropdownTriggers)
	if trigger == nil {
		trigger = sel
	}
	SimulateClick(trigger)
	for attempt := 0; attempt < dropdownOpenAttempts; attempt++ {
		if panel := d.visiblePanel(sel); panel != nil {
			return panel
		}
		time.Sleep(dropdownOpenInterval)
	}
	return nil
}

func (d *Dropdown) visiblePanel(sel pw.ElementHandle) pw.ElementHandle {
	// Panel may render inside the widget or appended to the body overlay.
	candidates := []pw.ElementHandle{}
	for _, panelSel := range DropdownPanels {
		if el, err := sel.QuerySelector(panelSel); err == nil && el != nil {
			candidates = append(candidates, el)
		}
		els, err := d.waiter.Page().QuerySelectorAll(panelSel)
		if err == nil {
			candidates = append(candidates, els...)
		}
	}
	for _, p := range candidates {
		if panelRendered(p) {
			return p
		}
	}
	return nil
}

// panelRendered checks the panel is not display:none / hidden by class and
// has a non-null layout box.
func panelRendered(p pw.ElementHandle) bool {
	res, err := p.Evaluate(`(el) => {
		if (!el) return false;
		if (el.classList.contains('ui-helper-hidden')) return false;
		const style = window.getComputedStyle(el);
		if (style.display === 'none' || style.visibility === 'hidden') return false;
		const rect = el.getBoundingClientRect();
		return rect.width > 0 && rect.height > 0;
	}`)
	if err != nil {
		return false
	}
	ok, _ := res.(bool)
	return ok
}

func (d *Dropdown) visibleItems(panel pw.ElementHandle) []pw.ElementHandle {
	for _, itemSel := range DropdownItems {
		items, err := panel.QuerySelectorAll(itemSel)
		if err == nil && len(items) > 0 {
			return items
		}
	}
	return nil
}

// advance moves a virtualized option list forward: ArrowDown on the filter
// input when one exists, plus a programmatic scroll of the panel's scrollable
// container with a dispatched scroll event so the virtualizer re-renders.
func (d *Dropdown) advance(sel, panel pw.ElementHandle) {
	if filter := firstMatch(panel, DropdownFilterInputs); filter != nil {
		SimulateKey(filter, "ArrowDown", 40)
	} else if filter := firstMatch(sel, DropdownFilterInputs); filter != nil {
		SimulateKey(filter, "ArrowDown", 40)
	}
	scroller := firstMatch(panel, DropdownScrollers)
	if scroller == nil {
		scroller = panel
	}
	_, _ = scroller.Evaluate(`(el, step) => {
		el.scrollTop = el.scrollTop + step;
		el.dispatchEvent(new Event('scroll', { bubbles: true }));
	}`, dropdownScrollStep)
	time.Sleep(50 * time.Millisecond)
}
