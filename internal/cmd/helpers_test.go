package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/dedene/typeahead-cli/internal/config"
	"github.com/dedene/typeahead-cli/internal/outfmt"
	"github.com/dedene/typeahead-cli/internal/source"
	"github.com/dedene/typeahead-cli/internal/tui"
	"github.com/dedene/typeahead-cli/internal/ui"
)

// testCtx returns a context with output mode, config, UI and source client,
// with config and cache dirs under t.TempDir.
func testCtx(t *testing.T, mode outfmt.Mode, cfg *config.Config) context.Context {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if cfg == nil {
		cfg = &config.Config{}
	}

	u, err := ui.New(ui.Options{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Color: "never"})
	require.NoError(t, err)

	ctx := context.Background()
	ctx = outfmt.WithMode(ctx, mode)
	ctx = config.WithConfig(ctx, cfg)
	ctx = ui.WithUI(ctx, u)
	ctx = source.WithClient(ctx, source.NewClient(source.ClientOptions{UserAgent: "typeahead-cli/test"}))

	return ctx
}

// captureStdout runs fn while capturing os.Stdout and returns the output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	origStdout := os.Stdout
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	buf, _ := io.ReadAll(r)
	_ = r.Close()

	return string(buf)
}

// withStdin feeds data as piped stdin for the duration of the test.
func withStdin(t *testing.T, data string) {
	t.Helper()

	origIn, origTTY := stdin, stdinTTY
	stdin = strings.NewReader(data)
	stdinTTY = func() bool { return false }

	t.Cleanup(func() {
		stdin, stdinTTY = origIn, origTTY
	})
}

// withProgram replaces the terminal program with one that replays msgs
// against the picker after an initial window size.
func withProgram(t *testing.T, msgs ...tea.Msg) {
	t.Helper()

	origRun, origInteractive := runProgram, interactive
	interactive = func() bool { return true }
	runProgram = func(m tui.Model) (tea.Model, error) {
		var model tea.Model = m

		model, _ = model.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
		for _, msg := range msgs {
			model, _ = model.Update(msg)
		}

		return model, nil
	}

	t.Cleanup(func() {
		runProgram, interactive = origRun, origInteractive
	})
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func noPreview() *bool {
	f := false

	return &f
}
