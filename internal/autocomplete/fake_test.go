package autocomplete_test

import (
	"errors"

	"github.com/dedene/typeahead-cli/internal/autocomplete"
)

type titled string

func (t titled) Title() string { return string(t) }

// untitled is an item that fails validation.
type untitled struct{}

func (untitled) Title() string { return "" }
func (untitled) Valid() error  { return errors.New("missing title") }

// panicky panics when its title is read.
type panicky struct{}

func (panicky) Title() string { panic("boom") }

func fruits() []autocomplete.Item {
	return []autocomplete.Item{titled("Apple"), titled("Banana"), titled("Grape")}
}

type fakeSurface struct {
	value         string
	bounds        autocomplete.Rect
	autofillOff   bool
	panel         *autocomplete.Panel
	setValueCalls int
}

func (s *fakeSurface) Value() string                    { return s.value }
func (s *fakeSurface) Bounds() autocomplete.Rect        { return s.bounds }
func (s *fakeSurface) DisableAutofill()                 { s.autofillOff = true }
func (s *fakeSurface) AttachPanel(p *autocomplete.Panel) { s.panel = p }

func (s *fakeSurface) SetValue(v string) {
	s.value = v
	s.setValueCalls++
}

type fakeDocument struct {
	surfaces  map[string]*fakeSurface
	listeners map[int]func()
	next      int
}

func newFakeDocument(ids ...string) *fakeDocument {
	d := &fakeDocument{
		surfaces:  map[string]*fakeSurface{},
		listeners: map[int]func(){},
	}
	for _, id := range ids {
		d.surfaces[id] = &fakeSurface{
			bounds: autocomplete.Rect{Top: 2, Left: 4, Width: 30, Height: 1},
		}
	}

	return d
}

func (d *fakeDocument) Lookup(id string) (autocomplete.Surface, bool) {
	s, ok := d.surfaces[id]
	if !ok {
		return nil, false
	}

	return s, true
}

func (d *fakeDocument) OnClick(fn func()) func() {
	id := d.next
	d.next++
	d.listeners[id] = fn

	return func() { delete(d.listeners, id) }
}

func (d *fakeDocument) click() {
	for _, fn := range d.listeners {
		fn()
	}
}
