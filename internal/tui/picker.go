// Package tui hosts the autocomplete widget in a Bubble Tea terminal UI.
package tui

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dedene/typeahead-cli/internal/autocomplete"
)

// FieldID is the element id of the picker's input.
const FieldID = "typeahead"

const defaultWidth = 40

// State represents the current phase of the picker.
type State int

const (
	// StatePicking means the user is still interacting with the widget.
	StatePicking State = iota
	// StateDone means the picker is finished and ready to quit.
	StateDone
)

// Options configures a picker.
type Options struct {
	Title          string
	Prompt         string
	Placeholder    string
	HighlightColor string
	// Width is used until the first window size message arrives.
	Width int
	// QuitOnSelect ends the program after the first committed selection.
	QuitOnSelect bool
	// OnSelect is called with every committed item.
	OnSelect func(autocomplete.Item)
	Logger   *slog.Logger
}

// session holds state shared between the model and the widget callback.
type session struct {
	selected autocomplete.Item
	commits  int
}

// Model is the bubbletea model hosting one autocomplete field.
type Model struct {
	state     State
	screen    *Screen
	field     *Field
	widget    *autocomplete.Widget
	session   *session
	keys      KeyMap
	help      help.Model
	styles    styles
	title     string
	quit      bool
	cancelled bool
	width     int
	height    int
	ready     bool
}

type styles struct {
	title       lipgloss.Style
	entry       lipgloss.Style
	highlighted lipgloss.Style
}

func newStyles(color string) styles {
	return styles{
		title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)),
		entry:       lipgloss.NewStyle(),
		highlighted: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color(color)),
	}
}

// NewPicker builds a picker over list.
func NewPicker(list []autocomplete.Item, opts Options) (Model, error) {
	prompt := opts.Prompt
	if prompt == "" {
		prompt = "> "
	}

	color := opts.HighlightColor
	if color == "" {
		color = "#7c3aed"
	}

	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}

	screen := NewScreen()
	field := NewField(prompt, opts.Placeholder)
	screen.Register(FieldID, field)

	m := Model{
		state:   StatePicking,
		screen:  screen,
		field:   field,
		session: &session{},
		keys:    DefaultKeyMap(),
		help:    help.New(),
		styles:  newStyles(color),
		title:   opts.Title,
		quit:    opts.QuitOnSelect,
		width:   width,
	}
	m.layout()

	s := m.session
	w, err := autocomplete.New(screen, FieldID, autocomplete.Options{
		OnSelect: func(item autocomplete.Item) {
			s.selected = item
			s.commits++

			if opts.OnSelect != nil {
				opts.OnSelect(item)
			}
		},
		Logger: opts.Logger,
	})
	if err != nil {
		return Model{}, err
	}

	w.SetItems(list)
	m.widget = w

	return m, nil
}

// layout sizes the input row from the current width.
func (m Model) layout() {
	top := 0
	if m.title != "" {
		top = 1
	}

	m.field.bounds = autocomplete.Rect{Top: top, Left: 0, Width: m.width, Height: 1}
	m.field.input.Width = max(1, m.width-lipgloss.Width(m.field.input.Prompt)-1)
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		m.widget.Reposition()
		m.ready = true

		return m, nil

	case tea.KeyMsg:
		if m.state == StateDone {
			return m, nil
		}

		return m.updateKey(msg)

	case tea.MouseMsg:
		if m.state == StateDone {
			return m, nil
		}

		return m.updateMouse(msg)
	}

	var cmd tea.Cmd
	m.field.input, cmd = m.field.input.Update(msg)

	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := m.session.commits

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.finish(true)

	case key.Matches(msg, m.keys.Dismiss):
		// Esc on a closed dropdown leaves the picker.
		if m.widget.State() == autocomplete.StateClosed {
			return m.finish(true)
		}

		m.widget.HandleKey(autocomplete.KeyEscape)

		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.widget.HandleKey(autocomplete.KeyUp)

		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.widget.HandleKey(autocomplete.KeyDown)

		return m, nil

	case key.Matches(msg, m.keys.Select):
		m.widget.HandleKey(autocomplete.KeyEnter)

		return m.afterCommit(before)
	}

	var cmd tea.Cmd
	m.field.input, cmd = m.field.input.Update(msg)
	m.widget.HandleKey(autocomplete.KeyText)

	return m, cmd
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	before := m.session.commits

	if idx, ok := m.entryAt(msg.X, msg.Y); ok {
		m.widget.HandleEntryClick(idx)
	}

	m.screen.Click()

	return m.afterCommit(before)
}

// afterCommit quits when a selection happened and the picker is one-shot.
func (m Model) afterCommit(before int) (tea.Model, tea.Cmd) {
	if m.quit && m.session.commits > before {
		return m.finish(false)
	}

	return m, nil
}

func (m Model) finish(cancelled bool) (tea.Model, tea.Cmd) {
	m.cancelled = cancelled
	m.state = StateDone

	return m, tea.Quit
}

// entryAt maps a cell to a dropdown row.
func (m Model) entryAt(x, y int) (int, bool) {
	p := m.field.Panel()
	if p == nil || !p.Visible {
		return 0, false
	}

	row := y - p.Rect.Top
	if row < 0 || row >= len(p.Entries) {
		return 0, false
	}

	if x < p.Rect.Left || (p.Rect.Width > 0 && x >= p.Rect.Left+p.Rect.Width) {
		return 0, false
	}

	return row, true
}

// View renders the picker.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder

	if m.title != "" {
		b.WriteString(m.styles.title.Render(runewidth.Truncate(singleLine(m.title), m.width, "…")))
		b.WriteByte('\n')
	}

	b.WriteString(m.field.input.View())
	b.WriteByte('\n')

	if p := m.field.Panel(); p != nil && p.Visible {
		for _, e := range p.Entries {
			b.WriteString(m.renderEntry(p.Rect, e))
			b.WriteByte('\n')
		}
	}

	b.WriteByte('\n')
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	b.WriteByte('\n')

	return b.String()
}

func (m Model) renderEntry(r autocomplete.Rect, e autocomplete.Entry) string {
	style := m.styles.entry
	if e.Highlighted {
		style = m.styles.highlighted
	}

	text := singleLine(e.Title)
	if r.Width > 0 {
		text = runewidth.Truncate(text, r.Width, "…")
		style = style.Width(r.Width)
	}

	return strings.Repeat(" ", r.Left) + style.Render(text)
}

// singleLine replaces control characters so every entry occupies exactly
// one row, which entryAt relies on.
func singleLine(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}

		return r
	}, s)
}

// Selected returns the last committed item, or nil.
func (m Model) Selected() autocomplete.Item { return m.session.selected }

// Cancelled returns true if the user left the picker without finishing.
func (m Model) Cancelled() bool { return m.cancelled }

// State returns the current picker state.
func (m Model) State() State { return m.state }

// Widget returns the hosted autocomplete widget.
func (m Model) Widget() *autocomplete.Widget { return m.widget }

// Value returns the current input text.
func (m Model) Value() string { return m.field.Value() }

// Close releases the widget's click subscription.
func (m Model) Close() { m.widget.Close() }
