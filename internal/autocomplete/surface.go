package autocomplete

// Rect is the on-screen geometry of an element in host units (cells for a
// terminal, pixels for a graphical host).
type Rect struct {
	Top    int
	Left   int
	Width  int
	Height int
}

// Entry is one rendered row of the dropdown panel.
type Entry struct {
	Title       string
	Highlighted bool
}

// Panel is the dropdown element the widget inserts after its input. The
// widget owns and mutates it; the host reads it when drawing.
type Panel struct {
	Rect    Rect
	Visible bool
	Entries []Entry
}

// Surface is the text input a widget binds to.
type Surface interface {
	// Value returns the current input text.
	Value() string
	// SetValue replaces the input text.
	SetValue(v string)
	// Bounds returns the input geometry at the time of the call.
	Bounds() Rect
	// DisableAutofill turns off any native completion the host offers.
	DisableAutofill()
	// AttachPanel inserts the dropdown panel directly after the input.
	AttachPanel(p *Panel)
}

// Document resolves input surfaces by id and delivers page-wide clicks.
type Document interface {
	// Lookup returns the surface registered under id.
	Lookup(id string) (Surface, bool)
	// OnClick subscribes fn to every click in the document. The returned
	// function removes the subscription.
	OnClick(fn func()) (cancel func())
}
