package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/dedene/typeahead-cli/internal/autocomplete"
)

// Field is a terminal text input that an autocomplete widget can bind to.
type Field struct {
	input  textinput.Model
	bounds autocomplete.Rect
	panel  *autocomplete.Panel
}

// NewField returns a focused text input with the given prompt.
func NewField(prompt, placeholder string) *Field {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.Focus()

	return &Field{input: ti}
}

// Value returns the input text.
func (f *Field) Value() string { return f.input.Value() }

// SetValue replaces the input text and moves the cursor to the end.
func (f *Field) SetValue(v string) {
	f.input.SetValue(v)
	f.input.CursorEnd()
}

// Bounds returns the cell geometry of the input row.
func (f *Field) Bounds() autocomplete.Rect { return f.bounds }

// DisableAutofill turns off the text input's inline suggestions.
func (f *Field) DisableAutofill() {
	f.input.ShowSuggestions = false
	f.input.SetSuggestions(nil)
}

// AttachPanel records the dropdown drawn below the input.
func (f *Field) AttachPanel(p *autocomplete.Panel) { f.panel = p }

// Panel returns the attached dropdown, or nil.
func (f *Field) Panel() *autocomplete.Panel { return f.panel }

// Screen is the terminal document: it resolves fields by id and fans
// mouse clicks out to every subscribed widget.
type Screen struct {
	fields map[string]*Field
	subs   []subscription
	nextID int
}

type subscription struct {
	id int
	fn func()
}

// NewScreen returns an empty Screen.
func NewScreen() *Screen {
	return &Screen{fields: map[string]*Field{}}
}

// Register places f on the screen under id.
func (s *Screen) Register(id string, f *Field) {
	s.fields[id] = f
}

// Lookup implements autocomplete.Document.
func (s *Screen) Lookup(id string) (autocomplete.Surface, bool) {
	f, ok := s.fields[id]
	if !ok {
		return nil, false
	}

	return f, true
}

// OnClick implements autocomplete.Document.
func (s *Screen) OnClick(fn func()) func() {
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)

				return
			}
		}
	}
}

// Click delivers a click to every subscriber in subscription order.
func (s *Screen) Click() {
	for _, sub := range append([]subscription(nil), s.subs...) {
		sub.fn()
	}
}

// subscribers returns the number of click subscriptions.
func (s *Screen) subscribers() int { return len(s.subs) }
