// Package autocomplete implements a typeahead widget bound to a single text
// input. The widget filters a candidate list by title as the user types,
// shows the matches in a dropdown panel and reports the committed choice
// through a callback. It is host-agnostic: a Document and a Surface adapt it
// to a concrete display.
package autocomplete

import (
	"fmt"
	"log/slog"
	"slices"
)

// State is the interaction state of a widget.
type State int

const (
	// StateClosed means the dropdown is hidden and nothing is highlighted.
	StateClosed State = iota
	// StateOpen means the dropdown shows the displayed list.
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Key is an input key the widget reacts to. Everything that is not
// navigation, commit or dismiss is KeyText.
type Key int

const (
	// KeyText is any edit of the input text.
	KeyText Key = iota
	// KeyUp moves the highlight up.
	KeyUp
	// KeyDown moves the highlight down.
	KeyDown
	// KeyEnter commits the highlighted or previously selected item.
	KeyEnter
	// KeyEscape closes the dropdown.
	KeyEscape
)

// noHighlight is the highlighted index when the cursor is absent.
const noHighlight = -1

// Options configures a widget.
type Options struct {
	// OnSelect is called synchronously with every committed item.
	OnSelect func(Item)
	// Logger receives handler failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// Widget is an autocomplete bound to one input surface.
type Widget struct {
	id       string
	surface  Surface
	panel    *Panel
	onSelect func(Item)
	log      *slog.Logger

	state       State
	items       []Item
	displayed   []Item
	highlighted int
	selected    Item

	unsubscribe func()
}

// New binds a widget to the input registered under id in doc. It fails with
// a *ConfigurationError before touching the document when id does not
// resolve.
func New(doc Document, id string, opts Options) (*Widget, error) {
	if doc == nil {
		return nil, &ConfigurationError{ID: id, Reason: "no document"}
	}

	if id == "" {
		return nil, &ConfigurationError{ID: id, Reason: "empty element id"}
	}

	surface, ok := doc.Lookup(id)
	if !ok || surface == nil {
		return nil, &ConfigurationError{ID: id, Reason: "element not found"}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w := &Widget{
		id:          id,
		surface:     surface,
		panel:       &Panel{},
		onSelect:    opts.OnSelect,
		log:         logger.With("widget", id),
		state:       StateClosed,
		highlighted: noHighlight,
	}

	w.Reposition()
	surface.DisableAutofill()
	surface.AttachPanel(w.panel)
	w.unsubscribe = doc.OnClick(w.handleDocumentClick)

	return w, nil
}

// Close removes the widget's document click subscription. It is safe to
// call more than once.
func (w *Widget) Close() {
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
}

// Reposition places the panel directly below the input's current bounds.
// New calls it once; hosts call it again after a resize.
func (w *Widget) Reposition() {
	b := w.surface.Bounds()
	w.panel.Rect = Rect{
		Top:   b.Top + b.Height,
		Left:  b.Left,
		Width: b.Width,
	}
}

// SetItems replaces the candidate list.
func (w *Widget) SetItems(items []Item) {
	w.items = slices.Clone(items)
}

// Items returns a copy of the candidate list.
func (w *Widget) Items() []Item { return slices.Clone(w.items) }

// Displayed returns a copy of the displayed list.
func (w *Widget) Displayed() []Item { return slices.Clone(w.displayed) }

// Highlighted returns the highlighted index and whether one is set.
func (w *Widget) Highlighted() (int, bool) {
	if w.highlighted == noHighlight {
		return 0, false
	}

	return w.highlighted, true
}

// Selected returns the last committed item, or nil.
func (w *Widget) Selected() Item { return w.selected }

// State returns the current interaction state.
func (w *Widget) State() State { return w.state }

// Panel returns the dropdown panel the widget renders into.
func (w *Widget) Panel() *Panel { return w.panel }

// ID returns the element id the widget is bound to.
func (w *Widget) ID() string { return w.id }

// HandleKey applies a key to the widget. It reports whether the host should
// suppress the key's default action, which is true only for KeyEnter.
func (w *Widget) HandleKey(k Key) (preventDefault bool) {
	switch k {
	case KeyUp:
		w.guard("up", func() error { return w.move(-1) })
	case KeyDown:
		w.guard("down", func() error { return w.move(1) })
	case KeyEnter:
		w.guard("enter", w.commitHighlighted)

		return true
	case KeyEscape:
		w.guard("escape", func() error {
			w.dismiss()

			return nil
		})
	default:
		w.guard("text", w.refilter)
	}

	return false
}

// HandleEntryClick commits the dropdown entry at index and closes the panel.
func (w *Widget) HandleEntryClick(index int) {
	w.guard("entry click", func() error {
		if index < 0 || index >= len(w.displayed) {
			w.dismiss()

			return fmt.Errorf("%w: %d of %d", ErrEntryOutOfRange, index, len(w.displayed))
		}

		w.commit(w.displayed[index])
		w.dismiss()

		return nil
	})
}

func (w *Widget) handleDocumentClick() {
	w.guard("document click", func() error {
		w.dismiss()

		return nil
	})
}

// refilter recomputes the displayed list from the input text.
func (w *Widget) refilter() error {
	w.highlighted = noHighlight

	query := w.surface.Value()
	w.displayed = w.filter(query)

	if len(w.displayed) == 0 {
		w.hide()

		return nil
	}

	w.render()

	return nil
}

// filter is Filter with debug logging of skipped items.
func (w *Widget) filter(query string) []Item {
	for i, item := range w.items {
		if err := CheckItem(item); err != nil {
			w.log.Debug("skipping item", "index", i, "error", err)
		}
	}

	return Filter(w.items, query)
}

// move shifts the highlight by delta, wrapping around the displayed list.
func (w *Widget) move(delta int) error {
	n := len(w.displayed)
	if n == 0 {
		return nil
	}

	if w.highlighted == noHighlight {
		w.highlighted = 0
	} else {
		w.highlighted = wrap(w.highlighted+delta, n)
	}

	w.render()

	return nil
}

// commitHighlighted selects the highlighted entry, or re-affirms the
// current selection when nothing valid is highlighted.
func (w *Widget) commitHighlighted() error {
	item := w.selected
	if w.highlighted >= 0 && w.highlighted < len(w.displayed) {
		item = w.displayed[w.highlighted]
	}

	w.commit(item)
	w.dismiss()

	return nil
}

func (w *Widget) commit(item Item) {
	w.selected = item
	w.showSelected()

	if item != nil && w.onSelect != nil {
		w.notify(item)
	}
}

// notify runs the callback on its own boundary so a failing callback
// still lets the commit finish closing the panel.
func (w *Widget) notify(item Item) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("onSelect panicked", "panic", r)
		}
	}()

	w.onSelect(item)
}

// dismiss closes the panel and restores the selected title into the input.
func (w *Widget) dismiss() {
	w.hide()
	w.showSelected()
}

func (w *Widget) hide() {
	w.state = StateClosed
	w.highlighted = noHighlight
	w.panel.Visible = false
}

func (w *Widget) showSelected() {
	if w.selected == nil {
		return
	}

	w.surface.SetValue(w.selected.Title())
}

// render rebuilds the panel entries from the displayed list.
func (w *Widget) render() {
	if len(w.displayed) == 0 {
		w.hide()

		return
	}

	entries := make([]Entry, len(w.displayed))
	for i, item := range w.displayed {
		entries[i] = Entry{
			Title:       item.Title(),
			Highlighted: i == w.highlighted,
		}
	}

	w.panel.Entries = entries
	w.panel.Visible = true
	w.state = StateOpen
}

// guard runs a handler, logging its error or panic instead of letting it
// reach the host's event loop.
func (w *Widget) guard(handler string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("handler panicked", "handler", handler, "panic", r)
		}
	}()

	if err := fn(); err != nil {
		w.log.Warn("handler failed", "handler", handler, "error", err)
	}
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
