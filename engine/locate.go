package engine

import (
	"strings"

	pw "github.com/playwright-community/playwright-go"
)

// The form mixes at least three layout patterns for what is visually the same
// labeled field, so the locator runs an ordered chain of strategies and stops
// at the first hit. Every call re-queries the live DOM from scratch: handles
// resolved before an await boundary are worthless after the next re-render.

// ControlKind narrows what the locator is after inside a matched container.
type ControlKind int

const (
	KindInput ControlKind = iota
	KindSelect
	KindButton
)

func (k ControlKind) selectors() []string {
	switch k {
	case KindSelect:
		return []string{"p-dropdown", ".ui-dropdown", ".ui-selectonemenu", "select"}
	case KindButton:
		return []string{"button", "a.ui-button", "input[type='button']", "input[type='submit']"}
	default:
		return []string{"input[type='text']", "input:not([type='hidden'])", "textarea"}
	}
}

// LocatorStrategy finds one control of the given kind near a label matching
// the substring, under root. Returns nil on miss, never errors out loud.
type LocatorStrategy func(root pw.ElementHandle, label string, kind ControlKind) pw.ElementHandle

// Locator is the ordered strategy chain. New layout patterns get appended
// here without touching any call site.
type Locator struct {
	log        Logger
	strategies []LocatorStrategy
}

// NewLocator builds the default chain: field groups by legend, structured
// form rows by label, and the brute-force label scan.
func NewLocator(log Logger) *Locator {
	return &Locator{
		log: log,
		strategies: []LocatorStrategy{
			byFieldGroupLegend,
			byFormRowLabel,
			byLabelScan,
		},
	}
}

// FindInput locates the text input labeled by the given substring.
func (l *Locator) FindInput(root pw.ElementHandle, label string) pw.ElementHandle {
	return l.find(root, label, KindInput)
}

// FindSelect locates the dropdown widget labeled by the given substring.
func (l *Locator) FindSelect(root pw.ElementHandle, label string) pw.ElementHandle {
	return l.find(root, label, KindSelect)
}

// FindButton locates a button whose own text contains the substring.
func (l *Locator) FindButton(root pw.ElementHandle, label string) pw.ElementHandle {
	if root == nil {
		return nil
	}
	for _, sel := range KindButton.selectors() {
		buttons, err := root.QuerySelectorAll(sel)
		if err != nil {
			continue
		}
		for _, b := range buttons {
			txt := handleText(b)
			if txt == "" {
				if v, err := b.GetAttribute("title"); err == nil {
					txt = v
				}
			}
			if ContainsNormalized(txt, label) {
				return b
			}
		}
	}
	Warning(l.log, "No se encontró el botón «%s»", label)
	return nil
}

func (l *Locator) find(root pw.ElementHandle, label string, kind ControlKind) pw.ElementHandle {
	if root == nil {
		return nil
	}
	for _, strat := range l.strategies {
		if el := strat(root, label, kind); el != nil {
			return el
		}
	}
	Warning(l.log, "No se encontró el campo «%s»", label)
	return nil
}

// Strategy 1: grouped field containers whose legend text matches.
func byFieldGroupLegend(root pw.ElementHandle, label string, kind ControlKind) pw.ElementHandle {
	for _, groupSel := range FieldGroupContainers {
		groups, err := root.QuerySelectorAll(groupSel)
		if err != nil {
			continue
		}
		for _, g := range groups {
			legend := firstMatch(g, FieldGroupLegends)
			if legend == nil {
				continue
			}
			if !ContainsNormalized(handleText(legend), label) {
				continue
			}
			if el := firstControl(g, kind); el != nil {
				return el
			}
		}
	}
	return nil
}

// Strategy 2: structured form rows whose label text matches.
func byFormRowLabel(root pw.ElementHandle, label string, kind ControlKind) pw.ElementHandle {
	for _, rowSel := range FormRowContainers {
		rows, err := root.QuerySelectorAll(rowSel)
		if err != nil {
			continue
		}
		for _, row := range rows {
			lab := firstMatch(row, LabelNodes)
			if lab == nil {
				continue
			}
			if !ContainsNormalized(handleText(lab), label) {
				continue
			}
			if el := firstControl(row, kind); el != nil {
				return el
			}
		}
	}
	return nil
}

// Strategy 3: brute-force scan of every label-like node; for each match,
// search the nearest row/column ancestor, falling back to the immediate
// parent.
func byLabelScan(root pw.ElementHandle, label string, kind ControlKind) pw.ElementHandle {
	for _, labSel := range LabelNodes {
		labels, err := root.QuerySelectorAll(labSel)
		if err != nil {
			continue
		}
		for _, lab := range labels {
			if !ContainsNormalized(handleText(lab), label) {
				continue
			}
			for _, ancestorSel := range RowAncestors {
				anc := closest(lab, ancestorSel)
				if anc == nil {
					continue
				}
				if el := firstControl(anc, kind); el != nil {
					return el
				}
			}
			parent := parentOf(lab)
			if parent != nil {
				if el := firstControl(parent, kind); el != nil {
					return el
				}
			}
		}
	}
	return nil
}

func firstControl(container pw.ElementHandle, kind ControlKind) pw.ElementHandle {
	for _, sel := range kind.selectors() {
		el, err := container.QuerySelector(sel)
		if err == nil && el != nil {
			return el
		}
	}
	return nil
}

func handleText(el pw.ElementHandle) string {
	if el == nil {
		return ""
	}
	txt, err := el.TextContent()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(txt)
}

// closest walks up from el to the nearest ancestor matching selector, the
// DOM's Element.closest exposed through an evaluated handle.
func closest(el pw.ElementHandle, selector string) pw.ElementHandle {
	if el == nil {
		return nil
	}
	h, err := el.EvaluateHandle(`(el, sel) => el.closest(sel)`, selector)
	if err != nil || h == nil {
		return nil
	}
	anc := h.AsElement()
	return anc
}

func parentOf(el pw.ElementHandle) pw.ElementHandle {
	if el == nil {
		return nil
	}
	h, err := el.EvaluateHandle(`(el) => el.parentElement`)
	if err != nil || h == nil {
		return nil
	}
	return h.AsElement()
}
