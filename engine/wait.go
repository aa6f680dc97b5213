package engine

import (
	"fmt"
	"strings"
	"sync"
	"time"

	pw "github.com/playwright-community/playwright-go"
)

// Default timing for bounded waits. Callers override per call where the form
// is known to be slower (search results) or faster (panel animation).
const (
	DefaultWaitTimeout  = 10 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
	DefaultSettleDelay  = 800 * time.Millisecond
)

// ErrWaitTimeout is returned by bounded waits that exceeded their deadline.
type ErrWaitTimeout struct {
	What    string
	Timeout time.Duration
}

func (e *ErrWaitTimeout) Error() string {
	return fmt.Sprintf("tiempo de espera agotado (%s) para %s", e.Timeout, e.What)
}

// ClickNotice is delivered when the injected capturing listener sees a real
// user click matching the registered filter.
type ClickNotice struct {
	Text string
	At   time.Time
}

// Waiter bundles the page with the condition-watch primitives. One Waiter per
// run; the exposed click binding is registered once at construction because a
// page accepts each binding name a single time. Each click wait is armed under
// its own id; a notice only resolves the wait that installed that listener, so
// a leftover listener from an earlier watch can never clear another
// checkpoint.
type Waiter struct {
	page         pw.Page
	log          Logger
	Timeout      time.Duration
	PollInterval time.Duration
	SettleDelay  time.Duration

	mu      sync.Mutex
	waits   map[string]chan ClickNotice
	waitSeq uint64
}

const clickBindingName = "__fichaNotifyClick"

// NewWaiter wires the wait primitives to the page and installs the click
// notification binding used by WaitForButtonClick.
func NewWaiter(page pw.Page, log Logger) (*Waiter, error) {
	w := &Waiter{
		page:         page,
		log:          log,
		Timeout:      DefaultWaitTimeout,
		PollInterval: DefaultPollInterval,
		SettleDelay:  DefaultSettleDelay,
		waits:        make(map[string]chan ClickNotice),
	}
	err := page.ExposeFunction(clickBindingName, func(args ...interface{}) interface{} {
		if len(args) < 2 {
			return nil
		}
		id, _ := args[0].(string)
		text, _ := args[1].(string)
		w.mu.Lock()
		ch := w.waits[id]
		w.mu.Unlock()
		if ch == nil {
			// A listener whose wait was abandoned; drop the notice.
			return nil
		}
		select {
		case ch <- ClickNotice{Text: text, At: time.Now()}:
		default:
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("no se pudo registrar el aviso de clic: %w", err)
	}
	return w, nil
}

// armClickWait registers a buffered notice channel under a fresh wait id.
func (w *Waiter) armClickWait() (string, chan ClickNotice) {
	w.mu.Lock()
	w.waitSeq++
	id := fmt.Sprintf("w%d", w.waitSeq)
	ch := make(chan ClickNotice, 1)
	w.waits[id] = ch
	w.mu.Unlock()
	return id, ch
}

// disarmClickWait forgets the wait and tears its listener out of the DOM so
// an abandoned watch cannot keep firing.
func (w *Waiter) disarmClickWait(id string) {
	w.mu.Lock()
	delete(w.waits, id)
	w.mu.Unlock()
	_, _ = w.page.Evaluate(removeClickWatchScript, id)
}

// waitFor polls the predicate until it reports done or the deadline passes.
// This is the uniform suspension mechanism behind every bounded wait: a
// single pending operation, resolved by the earliest of match or timeout.
func (w *Waiter) waitFor(what string, timeout time.Duration, pred func() (bool, error)) error {
	if timeout <= 0 {
		timeout = w.Timeout
	}
	deadline := time.Now().Add(timeout)
	for {
		done, err := pred()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if time.Now().After(deadline) {
			return &ErrWaitTimeout{What: what, Timeout: timeout}
		}
		time.Sleep(w.PollInterval)
	}
}

// WaitForElement resolves with the first element matching selector, checking
// immediately before settling into the poll. root scopes the query when non-nil.
func (w *Waiter) WaitForElement(selector string, timeout time.Duration, root pw.ElementHandle) (pw.ElementHandle, error) {
	var found pw.ElementHandle
	err := w.waitFor("elemento "+selector, timeout, func() (bool, error) {
		var el pw.ElementHandle
		var qerr error
		if root != nil {
			el, qerr = root.QuerySelector(selector)
		} else {
			el, qerr = w.page.QuerySelector(selector)
		}
		if qerr != nil || el == nil {
			return false, nil
		}
		found = el
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// WaitForElementGone resolves once no element matches selector any more.
func (w *Waiter) WaitForElementGone(selector string, timeout time.Duration) error {
	return w.waitFor("desaparición de "+selector, timeout, func() (bool, error) {
		el, err := w.page.QuerySelector(selector)
		if err != nil {
			return false, nil
		}
		if el == nil {
			return true, nil
		}
		visible, err := el.IsVisible()
		if err != nil {
			return true, nil
		}
		return !visible, nil
	})
}

// Sections returns the live list of top-level collapsible panels, probing the
// container contract in order. Handles are never cached; the form re-renders
// its panels on every state change.
func (w *Waiter) Sections() []pw.ElementHandle {
	for _, sel := range SectionContainers {
		els, err := w.page.QuerySelectorAll(sel)
		if err == nil && len(els) > 0 {
			return els
		}
	}
	return nil
}

// SectionExpanded reports whether the section at index carries an active
// class on its header and has rendered content.
func (w *Waiter) SectionExpanded(index int) bool {
	sections := w.Sections()
	if index < 0 || index >= len(sections) {
		return false
	}
	sec := sections[index]
	header := firstMatch(sec, SectionHeaders)
	if header == nil {
		return false
	}
	cls, err := header.GetAttribute("class")
	if err != nil {
		return false
	}
	active := false
	for _, ac := range SectionActiveClasses {
		if strings.Contains(cls, ac) {
			active = true
			break
		}
	}
	if !active {
		return false
	}
	content := firstMatch(sec, SectionContents)
	if content == nil {
		return false
	}
	txt, err := content.InnerHTML()
	return err == nil && strings.TrimSpace(txt) != ""
}

// WaitForSectionExpand blocks until the section at index is expanded with
// rendered content, then sleeps the settle delay so the panel animation and
// internal layout can finish before the caller starts reading the DOM.
func (w *Waiter) WaitForSectionExpand(index int, timeout time.Duration) error {
	err := w.waitFor(fmt.Sprintf("expansión de la sección %d", index), timeout, func() (bool, error) {
		return w.SectionExpanded(index), nil
	})
	if err != nil {
		return err
	}
	time.Sleep(w.SettleDelay)
	return nil
}

const installClickWatchScript = `(arg) => {
	if (!window.__fichaClickWatches) window.__fichaClickWatches = {};
	const norm = (s) => (s || '')
		.normalize('NFD').replace(/[̀-ͯ]/g, '')
		.toUpperCase().replace(/\s+/g, ' ').trim();
	const handler = (ev) => {
		if (!ev.isTrusted) return;
		let el = ev.target;
		while (el && el !== document) {
			const tag = el.tagName;
			const clickable = tag === 'BUTTON' || tag === 'A' ||
				(tag === 'INPUT' && (el.type === 'button' || el.type === 'submit'));
			if (clickable) break;
			el = el.parentElement;
		}
		if (!el || el === document) return;
		if (arg.selector && !el.matches(arg.selector)) return;
		const text = el.innerText || el.value || '';
		if (arg.text && !norm(text).includes(norm(arg.text))) return;
		document.removeEventListener('click', handler, true);
		delete window.__fichaClickWatches[arg.id];
		window[arg.binding](arg.id, text);
	};
	window.__fichaClickWatches[arg.id] = handler;
	document.addEventListener('click', handler, true);
}`

const removeClickWatchScript = `(id) => {
	const watches = window.__fichaClickWatches || {};
	const handler = watches[id];
	if (handler) {
		document.removeEventListener('click', handler, true);
		delete watches[id];
	}
}`

// WaitForButtonClick suspends until the next real (trusted) user click whose
// target matches the optional selector and text substring. The listener is
// installed under this wait's id and only a notice carrying that id resolves
// it; notices from listeners armed by other waits are ignored. A zero timeout
// means wait forever: the per-section save checkpoint is gated on genuine
// human action and deliberately has no deadline.
func (w *Waiter) WaitForButtonClick(selector, textFilter string, timeout time.Duration) (ClickNotice, error) {
	id, ch := w.armClickWait()
	defer w.disarmClickWait(id)
	_, err := w.page.Evaluate(installClickWatchScript, map[string]interface{}{
		"id":       id,
		"selector": selector,
		"text":     textFilter,
		"binding":  clickBindingName,
	})
	if err != nil {
		return ClickNotice{}, fmt.Errorf("no se pudo instalar el observador de clic: %w", err)
	}
	if timeout <= 0 {
		return <-ch, nil
	}
	select {
	case n := <-ch:
		return n, nil
	case <-time.After(timeout):
		return ClickNotice{}, &ErrWaitTimeout{What: "clic del usuario", Timeout: timeout}
	}
}

// WaitForModal resolves with the visible modal whose title contains the given
// substring (case and accent insensitive). Resolves nil, not an error, when
// no such modal appears within the timeout; callers must null-check.
func (w *Waiter) WaitForModal(titleSubstring string, timeout time.Duration) pw.ElementHandle {
	var modal pw.ElementHandle
	err := w.waitFor("modal «"+titleSubstring+"»", timeout, func() (bool, error) {
		m := w.findVisibleModal(titleSubstring)
		if m == nil {
			return false, nil
		}
		modal = m
		return true, nil
	})
	if err != nil {
		Warning(w.log, "No apareció el modal «%s»: %v", titleSubstring, err)
		return nil
	}
	return modal
}

func (w *Waiter) findVisibleModal(titleSubstring string) pw.ElementHandle {
	for _, sel := range ModalContainers {
		modals, err := w.page.QuerySelectorAll(sel)
		if err != nil {
			continue
		}
		for _, m := range modals {
			visible, err := m.IsVisible()
			if err != nil || !visible {
				continue
			}
			title := firstMatch(m, ModalTitles)
			if title == nil {
				continue
			}
			txt, err := title.TextContent()
			if err != nil {
				continue
			}
			if ContainsNormalized(txt, titleSubstring) {
				return m
			}
		}
	}
	return nil
}

// WaitForModalGone resolves once no visible modal carries the title any more.
func (w *Waiter) WaitForModalGone(titleSubstring string, timeout time.Duration) error {
	return w.waitFor("cierre del modal «"+titleSubstring+"»", timeout, func() (bool, error) {
		return w.findVisibleModal(titleSubstring) == nil, nil
	})
}

// Settle sleeps the configured settle delay.
func (w *Waiter) Settle() {
	time.Sleep(w.SettleDelay)
}

// Page exposes the underlying page for the drivers.
func (w *Waiter) Page() pw.Page {
	return w.page
}

// SectionHeader resolves the clickable header of the section at index.
func (w *Waiter) SectionHeader(index int) pw.ElementHandle {
	sections := w.Sections()
	if index < 0 || index >= len(sections) {
		return nil
	}
	return firstMatch(sections[index], SectionHeaders)
}

// firstMatch returns the first descendant of root matching any selector in
// the candidate list.
func firstMatch(root pw.ElementHandle, selectors []string) pw.ElementHandle {
	if root == nil {
		return nil
	}
	for _, sel := range selectors {
		el, err := root.QuerySelector(sel)
		if err == nil && el != nil {
			return el
		}
	}
	return nil
}
