package sections

import (
	"sync"
	"time"

	pw "github.com/playwright-community/playwright-go"

	"catastro/draft"
	"catastro/engine"
)

// fakeForm models just enough of the live form for the handler tests: a run
// of expanded section panels, one "Nuevo" button per section and a single
// dialog that the section button opens and the dialog's save button closes.
// Every material click lands in events, in order.
type fakeForm struct {
	mu           sync.Mutex
	sectionCount int
	headerless   bool
	modalTitle   string
	modalOpen    bool
	events       []string
}

func (f *fakeForm) record(ev string) {
	f.mu.Lock()
	f.events = append(f.events, ev)
	f.mu.Unlock()
}

func (f *fakeForm) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

func (f *fakeForm) setModal(open bool) {
	f.mu.Lock()
	f.modalOpen = open
	f.mu.Unlock()
}

func (f *fakeForm) modalVisible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.modalOpen
}

func oneOf(sel string, list []string) bool {
	for _, s := range list {
		if s == sel {
			return true
		}
	}
	return false
}

type fakeElement struct {
	pw.ElementHandle
	form *fakeForm
	role string
}

func (e *fakeElement) QuerySelector(selector string) (pw.ElementHandle, error) {
	switch e.role {
	case "section":
		if oneOf(selector, engine.SectionHeaders) {
			if e.form.headerless {
				return nil, nil
			}
			return &fakeElement{form: e.form, role: "header"}, nil
		}
		if oneOf(selector, engine.SectionContents) {
			return &fakeElement{form: e.form, role: "content"}, nil
		}
	case "modal":
		if oneOf(selector, engine.ModalTitles) {
			return &fakeElement{form: e.form, role: "title"}, nil
		}
	}
	return nil, nil
}

func (e *fakeElement) QuerySelectorAll(selector string) ([]pw.ElementHandle, error) {
	if selector != "button" {
		return nil, nil
	}
	switch e.role {
	case "section":
		return []pw.ElementHandle{&fakeElement{form: e.form, role: "nuevo"}}, nil
	case "modal":
		return []pw.ElementHandle{&fakeElement{form: e.form, role: "guardar"}}, nil
	}
	return nil, nil
}

func (e *fakeElement) GetAttribute(name string) (string, error) {
	if e.role == "header" && name == "class" {
		return "ui-accordion-header " + engine.SectionActiveClasses[0], nil
	}
	return "", nil
}

func (e *fakeElement) InnerHTML() (string, error) {
	if e.role == "content" {
		return "<span>contenido</span>", nil
	}
	return "", nil
}

func (e *fakeElement) TextContent() (string, error) {
	switch e.role {
	case "nuevo":
		return "Nuevo", nil
	case "guardar":
		return "Guardar", nil
	case "title":
		return e.form.modalTitle, nil
	}
	return "", nil
}

func (e *fakeElement) IsVisible() (bool, error) {
	if e.role == "modal" {
		return e.form.modalVisible(), nil
	}
	return true, nil
}

// Evaluate only ever receives the synthetic click script in these flows.
func (e *fakeElement) Evaluate(expression string, arg ...interface{}) (interface{}, error) {
	switch e.role {
	case "nuevo":
		e.form.record("abrir")
		e.form.setModal(true)
	case "guardar":
		e.form.record("guardar")
		e.form.setModal(false)
	}
	return true, nil
}

type fakePage struct {
	pw.Page
	form *fakeForm
}

func (p *fakePage) ExposeFunction(name string, binding pw.ExposedFunction) error {
	return nil
}

func (p *fakePage) Evaluate(expression string, arg ...interface{}) (interface{}, error) {
	return nil, nil
}

func (p *fakePage) QuerySelector(selector string, options ...pw.PageQuerySelectorOptions) (pw.ElementHandle, error) {
	return nil, nil
}

func (p *fakePage) QuerySelectorAll(selector string) ([]pw.ElementHandle, error) {
	if oneOf(selector, engine.SectionContainers) {
		count := p.form.sectionCount
		if count == 0 {
			count = 11
		}
		els := make([]pw.ElementHandle, count)
		for i := range els {
			els[i] = &fakeElement{form: p.form, role: "section"}
		}
		return els, nil
	}
	if oneOf(selector, engine.ModalContainers) {
		return []pw.ElementHandle{&fakeElement{form: p.form, role: "modal"}}, nil
	}
	return nil, nil
}

func newFakeRun(form *fakeForm) (*RunContext, error) {
	log := &engine.SimpleLogger{}
	page := &fakePage{form: form}
	waiter, err := engine.NewWaiter(page, log)
	if err != nil {
		return nil, err
	}
	waiter.PollInterval = 2 * time.Millisecond
	waiter.SettleDelay = time.Millisecond
	waiter.Timeout = 500 * time.Millisecond
	return &RunContext{
		Page:    page,
		Waiter:  waiter,
		Locator: engine.NewLocator(log),
		Log:     log,
		Draft:   draft.Record{},
		RunID:   "test",
	}, nil
}
