package engine

import (
	"fmt"
	"time"

	pw "github.com/playwright-community/playwright-go"
)

// The target form is built on a reactive component library that overrides the
// instance-level value setter of its inputs and filters out untrusted events.
// Plain locator.Fill updates the DOM but the framework's change detection
// never sees it, so every write goes through injected scripts that use the
// prototype's native setter and dispatch the full event sequence a real user
// would produce.

const setNativeValueScript = `(el, value) => {
	if (!el) return false;
	el.removeAttribute('readonly');
	el.removeAttribute('disabled');
	const proto = el.tagName === 'TEXTAREA'
		? window.HTMLTextAreaElement.prototype
		: window.HTMLInputElement.prototype;
	const setter = Object.getOwnPropertyDescriptor(proto, 'value').set;
	setter.call(el, value);
	for (const type of ['input', 'change', 'focus', 'blur']) {
		el.dispatchEvent(new Event(type, { bubbles: true }));
	}
	return true;
}`

const clickSequenceScript = `(el) => {
	if (!el) return false;
	if (el.focus) el.focus();
	const rect = el.getBoundingClientRect();
	const opts = {
		bubbles: true,
		cancelable: true,
		view: window,
		button: 0,
		clientX: rect.left + rect.width / 2,
		clientY: rect.top + rect.height / 2,
	};
	for (const type of ['mousedown', 'mouseup', 'click']) {
		el.dispatchEvent(new MouseEvent(type, opts));
	}
	return true;
}`

const keySequenceScript = `(el, arg) => {
	if (!el) return false;
	const opts = {
		bubbles: true,
		cancelable: true,
		key: arg.key,
		code: arg.code,
		keyCode: arg.keyCode,
		which: arg.keyCode,
	};
	el.dispatchEvent(new KeyboardEvent('keydown', opts));
	el.dispatchEvent(new KeyboardEvent('keyup', opts));
	return true;
}`

const appendCharScript = `(el, ch) => {
	if (!el) return false;
	const proto = el.tagName === 'TEXTAREA'
		? window.HTMLTextAreaElement.prototype
		: window.HTMLInputElement.prototype;
	const setter = Object.getOwnPropertyDescriptor(proto, 'value').set;
	setter.call(el, el.value + ch);
	el.dispatchEvent(new Event('input', { bubbles: true }));
	return true;
}`

// SetNativeValue writes value into a text input through the prototype's
// native setter and dispatches input/change/focus/blur so the framework
// registers it as user input. Returns false when the handle is nil.
func SetNativeValue(el pw.ElementHandle, value string) bool {
	if el == nil {
		return false
	}
	res, err := el.Evaluate(setNativeValueScript, value)
	if err != nil {
		return false
	}
	ok, _ := res.(bool)
	return ok
}

// SimulateClick dispatches mousedown/mouseup/click with coherent coordinate
// metadata on the element. Returns false when the handle is nil or gone.
func SimulateClick(el pw.ElementHandle) bool {
	if el == nil {
		return false
	}
	res, err := el.Evaluate(clickSequenceScript)
	if err != nil {
		return false
	}
	ok, _ := res.(bool)
	return ok
}

// SimulateKey dispatches a paired keydown/keyup for the given key on the
// element.
func SimulateKey(el pw.ElementHandle, key string, keyCode int) bool {
	if el == nil {
		return false
	}
	res, err := el.Evaluate(keySequenceScript, map[string]interface{}{
		"key":     key,
		"code":    key,
		"keyCode": keyCode,
	})
	if err != nil {
		return false
	}
	ok, _ := res.(bool)
	return ok
}

// PressEnter sends the Enter key (code 13). Several free-text fields on the
// form only commit their value on Enter.
func PressEnter(el pw.ElementHandle) bool {
	return SimulateKey(el, "Enter", 13)
}

// TypeSlowly builds the value one character at a time with an input event
// after every character and a pause in between. Masked fields (dates) discard
// the whole value when it arrives in a single assignment.
func TypeSlowly(el pw.ElementHandle, value string, delay time.Duration) error {
	if el == nil {
		return fmt.Errorf("elemento no encontrado")
	}
	if _, err := el.Evaluate(`(el) => {
		el.removeAttribute('readonly');
		el.removeAttribute('disabled');
		const proto = el.tagName === 'TEXTAREA'
			? window.HTMLTextAreaElement.prototype
			: window.HTMLInputElement.prototype;
		Object.getOwnPropertyDescriptor(proto, 'value').set.call(el, '');
		el.focus();
	}`); err != nil {
		return err
	}
	for _, ch := range value {
		if _, err := el.Evaluate(appendCharScript, string(ch)); err != nil {
			return err
		}
		time.Sleep(delay)
	}
	_, err := el.Evaluate(`(el) => {
		el.dispatchEvent(new Event('change', { bubbles: true }));
		el.dispatchEvent(new Event('blur', { bubbles: true }));
	}`)
	return err
}

// ClickBody clicks an empty region of the page, used to close a dropdown
// panel that refused to yield a match.
func ClickBody(page pw.Page) {
	_, _ = page.Evaluate(`() => {
		const opts = { bubbles: true, cancelable: true, view: window, clientX: 1, clientY: 1 };
		for (const type of ['mousedown', 'mouseup', 'click']) {
			document.body.dispatchEvent(new MouseEvent(type, opts));
		}
	}`)
}

// CurrentValue reads the live value of an input without disturbing it.
func CurrentValue(el pw.ElementHandle) string {
	if el == nil {
		return ""
	}
	res, err := el.Evaluate(`(el) => el.value || ''`)
	if err != nil {
		return ""
	}
	s, _ := res.(string)
	return s
}
