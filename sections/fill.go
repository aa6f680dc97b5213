package sections

import (
	"time"

	pw "github.com/playwright-community/playwright-go"

	"catastro/engine"
)

// Fill semantics shared by every handler: a draft field that is empty or
// absent never touches the live form, and a selector that already displays a
// value is left alone. Re-running a handler over an already-populated section
// is a no-op.

// ShouldFillInput decides whether a text input gets written.
func ShouldFillInput(draftValue string) bool {
	return draftValue != ""
}

// ShouldSelect decides whether a dropdown gets driven: the draft must supply
// a value and the selector must still be empty.
func ShouldSelect(draftValue, currentLabel string) bool {
	return draftValue != "" && currentLabel == ""
}

// FillInput locates the input labeled by label inside root and writes the
// draft value for section/key, honoring the skip semantics. Returns true when
// a write happened.
func (rc *RunContext) FillInput(root pw.ElementHandle, label, section, key string) bool {
	value := rc.Draft.Get(section, key)
	if !ShouldFillInput(value) {
		return false
	}
	input := rc.Locator.FindInput(root, label)
	if input == nil {
		return false
	}
	if !engine.SetNativeValue(input, value) {
		engine.Warning(rc.Log, "[%s] No se pudo escribir «%s»", section, label)
		return false
	}
	engine.Success(rc.Log, "[%s] %s = «%s»", section, label, value)
	return true
}

// FillInputEnter fills like FillInput and then sends Enter; some free-text
// fields only commit on Enter.
func (rc *RunContext) FillInputEnter(root pw.ElementHandle, label, section, key string) bool {
	value := rc.Draft.Get(section, key)
	if !ShouldFillInput(value) {
		return false
	}
	input := rc.Locator.FindInput(root, label)
	if input == nil {
		return false
	}
	if !engine.SetNativeValue(input, value) {
		engine.Warning(rc.Log, "[%s] No se pudo escribir «%s»", section, label)
		return false
	}
	engine.PressEnter(input)
	engine.Success(rc.Log, "[%s] %s = «%s» (confirmado con Enter)", section, label, value)
	return true
}

// TypeDate enters a date char by char; the form's date inputs carry a mask
// that discards single-assignment writes.
func (rc *RunContext) TypeDate(root pw.ElementHandle, label, section, key string) bool {
	value := rc.Draft.Get(section, key)
	if !ShouldFillInput(value) {
		return false
	}
	input := rc.Locator.FindInput(root, label)
	if input == nil {
		return false
	}
	if err := engine.TypeSlowly(input, value, 60*time.Millisecond); err != nil {
		engine.Warning(rc.Log, "[%s] Fecha «%s» no aceptada: %v", section, label, err)
		return false
	}
	engine.Success(rc.Log, "[%s] %s = «%s»", section, label, value)
	return true
}

// SelectFromDraft drives the dropdown labeled by label with the draft value
// for section/key, skipping when the draft is silent or the selector already
// shows something.
func (rc *RunContext) SelectFromDraft(root pw.ElementHandle, label, section, key string) bool {
	value := rc.Draft.Get(section, key)
	sel := rc.Locator.FindSelect(root, label)
	if sel == nil {
		return false
	}
	if !ShouldSelect(value, rc.Dropdown.CurrentLabel(sel)) {
		return false
	}
	return rc.Dropdown.SelectOption(sel, value, false)
}

// SelectFixed drives the dropdown to a hard-coded canonical option. The form
// demands a value in these selectors and the business process always uses the
// same one, draft or no draft. An already-populated selector is left alone.
func (rc *RunContext) SelectFixed(root pw.ElementHandle, label, option string) bool {
	sel := rc.Locator.FindSelect(root, label)
	if sel == nil {
		return false
	}
	if rc.Dropdown.CurrentLabel(sel) != "" {
		return false
	}
	return rc.Dropdown.SelectOption(sel, option, false)
}

// ActiveSection resolves the live container of the section at index, nil when
// the index is out of range.
func (rc *RunContext) ActiveSection(index int) pw.ElementHandle {
	sections := rc.Waiter.Sections()
	if index < 0 || index >= len(sections) {
		return nil
	}
	return sections[index]
}
