package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"regexp"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apiscout/internal/config"
	"apiscout/internal/discovery"
	"apiscout/internal/ui/toaster"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	lipgloss.SetColorProfile(termenv.TrueColor)
	os.Exit(m.Run())
}

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

type fakeScanner struct {
	mu       sync.Mutex
	registry *discovery.Registry
	err      error
	calls    int
}

func (f *fakeScanner) Scan(context.Context) (*discovery.Registry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.registry, f.err
}

func (f *fakeScanner) scanCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeTerminator struct {
	mu      sync.Mutex
	outcome string
	last    discovery.Entry
}

func (f *fakeTerminator) Terminate(_ context.Context, e discovery.Entry) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = e
	return f.outcome
}

func (f *fakeTerminator) lastEntry() discovery.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func mixedRegistry() *discovery.Registry {
	return discovery.NewRegistry("cycle-1",
		[]discovery.Local{
			discovery.NewLocal(3000, 4321, "node", "node server.js --port 3000"),
			discovery.NewLocal(8080, 2210, "python", "python -m http.server 8080"),
		},
		[]discovery.Browser{
			discovery.NewBrowser("https://api.github.com:443", 888, "chrome"),
		})
}

func emptyRegistry() *discovery.Registry {
	return discovery.NewRegistry("cycle-0", nil, nil)
}

func newTestModel(scanner Scanner, terminator Terminator) Model {
	m := New(Services{Scanner: scanner, Terminator: terminator, Config: config.Defaults()})
	return m.SetSize(100, 40)
}

// apply runs one Update pass and casts the result back.
func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(Model)
	require.True(t, ok, "Update should return app.Model")
	return model, cmd
}

// scanned runs one discovery cycle synchronously.
func scanned(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = apply(t, m, m.scanCmd()())
	return m
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNew_InitialState(t *testing.T) {
	m := newTestModel(&fakeScanner{registry: emptyRegistry()}, &fakeTerminator{})

	assert.Equal(t, ViewMain, m.view)
	assert.True(t, m.loading, "first scan should be marked in flight")
	assert.Equal(t, -1, m.highlightRow)
	require.Len(t, m.menuOpts, 2, "empty inventory offers Refresh and Exit only")
	assert.Equal(t, actionRefresh, m.menuOpts[0].Value)
	assert.Equal(t, actionExit, m.menuOpts[1].Value)
}

func TestUpdate_ScanResultPopulatesTable(t *testing.T) {
	m := newTestModel(&fakeScanner{registry: mixedRegistry()}, &fakeTerminator{})
	m = scanned(t, m)

	assert.False(t, m.loading)
	assert.Equal(t, 3, m.table.RowCount())
	require.Len(t, m.menuOpts, 4, "non-empty inventory offers all four actions")

	view := stripANSI(m.View())
	assert.Contains(t, view, "Detected APIs:")
	assert.Contains(t, view, "node")
	assert.Contains(t, view, "3000")
	assert.Contains(t, view, "api.github.com")
	assert.Contains(t, view, "What would you like to do?")
	assert.Contains(t, view, "3 found")
	assert.Contains(t, view, "2 local · 1 browser")
}

func TestUpdate_EmptyScanShowsEmptyState(t *testing.T) {
	m := newTestModel(&fakeScanner{registry: emptyRegistry()}, &fakeTerminator{})
	m = scanned(t, m)

	view := stripANSI(m.View())
	assert.Contains(t, view, "No APIs found!")
	require.Len(t, m.menuOpts, 2)

	m, _ = apply(t, m, keyPress('t'))
	assert.Equal(t, ViewMain, m.view, "terminate should be unavailable with no entries")

	m, _ = apply(t, m, keyPress('i'))
	assert.Equal(t, ViewMain, m.view, "inspect should be unavailable with no entries")
}

func TestUpdate_ScanFailureShowsErrorNotice(t *testing.T) {
	m := newTestModel(&fakeScanner{err: errors.New("proc: permission denied")}, &fakeTerminator{})
	m = scanned(t, m)

	require.Equal(t, ViewNotice, m.view)
	view := stripANSI(m.View())
	assert.Contains(t, view, "An error occurred: proc: permission denied")
	assert.Contains(t, view, "Press Enter to continue...")

	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd, "ack should emit a message")
	m, cmd = apply(t, m, cmd())
	assert.Equal(t, ViewMain, m.view)
	assert.Nil(t, cmd, "error ack should not force a refresh")
	assert.False(t, m.loading)
}

func TestUpdate_RefreshGuardsSingleCycle(t *testing.T) {
	m := newTestModel(&fakeScanner{registry: emptyRegistry()}, &fakeTerminator{})
	m = scanned(t, m)
	require.False(t, m.loading)

	m, cmd := apply(t, m, keyPress('r'))
	assert.True(t, m.loading)
	require.NotNil(t, cmd)

	_, cmd = apply(t, m, keyPress('r'))
	assert.Nil(t, cmd, "only one cycle may be in flight")
}

func TestUpdate_MenuEnterRefreshes(t *testing.T) {
	m := newTestModel(&fakeScanner{registry: emptyRegistry()}, &fakeTerminator{})
	m = scanned(t, m)

	// Cursor starts on Refresh.
	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, actionMsg{}, msg)

	m, cmd = apply(t, m, msg)
	assert.True(t, m.loading)
	require.NotNil(t, cmd)
}

func TestUpdate_TerminateFlow(t *testing.T) {
	terminator := &fakeTerminator{outcome: "Terminated process 4321 (node) on port 3000"}
	m := newTestModel(&fakeScanner{registry: mixedRegistry()}, terminator)
	m = scanned(t, m)

	m, _ = apply(t, m, keyPress('t'))
	require.Equal(t, ViewTarget, m.view)
	view := stripANSI(m.View())
	assert.Contains(t, view, "Select an API to terminate:")
	assert.Contains(t, view, "1. LOCAL - Port 3000 (PID: 4321)")
	assert.Contains(t, view, "Cancel")

	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	picked := cmd()
	require.IsType(t, targetPickedMsg{}, picked)

	m, cmd = apply(t, m, picked)
	require.NotNil(t, cmd, "expected terminate command")
	outcome := cmd()
	require.IsType(t, terminateResultMsg{}, outcome)
	require.NotNil(t, terminator.lastEntry())
	assert.Equal(t, int32(4321), terminator.lastEntry().PID())

	m, _ = apply(t, m, outcome)
	require.Equal(t, ViewNotice, m.view)
	assert.Contains(t, stripANSI(m.View()), "Terminated process 4321 (node) on port 3000")

	m, cmd = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, cmd = apply(t, m, cmd())
	assert.Equal(t, ViewMain, m.view)
	assert.True(t, m.loading, "termination ack should force a refresh")
	require.NotNil(t, cmd)
}

func TestUpdate_InspectFlow(t *testing.T) {
	m := newTestModel(&fakeScanner{registry: mixedRegistry()}, &fakeTerminator{})
	m = scanned(t, m)

	m, _ = apply(t, m, keyPress('i'))
	require.Equal(t, ViewTarget, m.view)
	assert.Contains(t, stripANSI(m.View()), "Select an API to inspect:")

	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = apply(t, m, cmd())
	require.Equal(t, ViewDetails, m.view)
	view := stripANSI(m.View())
	assert.Contains(t, view, "API Details")
	assert.Contains(t, view, "http://localhost:3000")

	m, cmd = apply(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	m, _ = apply(t, m, cmd())
	assert.Equal(t, ViewMain, m.view)
}

func TestUpdate_TargetCursorHighlightsTableRow(t *testing.T) {
	m := newTestModel(&fakeScanner{registry: mixedRegistry()}, &fakeTerminator{})
	m = scanned(t, m)

	m, _ = apply(t, m, keyPress('t'))
	assert.Equal(t, 0, m.highlightRow)

	m, _ = apply(t, m, keyPress('j'))
	assert.Equal(t, 1, m.highlightRow)

	m, _ = apply(t, m, keyPress('j'))
	assert.Equal(t, 2, m.highlightRow)

	m, _ = apply(t, m, keyPress('j'))
	assert.Equal(t, -1, m.highlightRow, "cancel option should clear the highlight")
}

func TestUpdate_TargetEscReturnsToMain(t *testing.T) {
	m := newTestModel(&fakeScanner{registry: mixedRegistry()}, &fakeTerminator{})
	m = scanned(t, m)

	m, _ = apply(t, m, keyPress('t'))
	require.Equal(t, ViewTarget, m.view)

	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	m, _ = apply(t, m, cmd())
	assert.Equal(t, ViewMain, m.view)
	assert.Equal(t, -1, m.highlightRow)
}

func TestUpdate_StaleTargetIndexShowsErrorBar(t *testing.T) {
	m := newTestModel(&fakeScanner{registry: mixedRegistry()}, &fakeTerminator{})
	m = scanned(t, m)

	m, cmd := apply(t, m, targetPickedMsg{action: actionTerminate, index: 99})
	assert.Nil(t, cmd)
	view := stripANSI(m.View())
	assert.Contains(t, view, "Error selecting API:")
	assert.Contains(t, view, "[Press any key to dismiss]")

	m, _ = apply(t, m, keyPress('x'))
	assert.NotContains(t, stripANSI(m.View()), "[Press any key to dismiss]")
}

func TestUpdate_HelpOverlayToggles(t *testing.T) {
	m := newTestModel(&fakeScanner{registry: emptyRegistry()}, &fakeTerminator{})
	m = scanned(t, m)

	m, _ = apply(t, m, keyPress('?'))
	require.Equal(t, ViewHelp, m.view)
	assert.Contains(t, stripANSI(m.View()), "Keybindings")

	m, _ = apply(t, m, keyPress('?'))
	assert.Equal(t, ViewMain, m.view)

	m, _ = apply(t, m, keyPress('?'))
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewMain, m.view)
}

func TestUpdate_QuitPaths(t *testing.T) {
	m := newTestModel(&fakeScanner{registry: emptyRegistry()}, &fakeTerminator{})
	m = scanned(t, m)

	_, cmd := apply(t, m, keyPress('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = apply(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = apply(t, m, actionMsg{action: actionExit})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_LogOverlayToggle(t *testing.T) {
	m := newTestModel(&fakeScanner{registry: emptyRegistry()}, &fakeTerminator{})
	m = scanned(t, m)

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.True(t, m.logs.Visible())
	assert.Contains(t, stripANSI(m.View()), "Logs")

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.False(t, m.logs.Visible())
}

func TestUpdate_SpinnerOnlyTicksWhileLoading(t *testing.T) {
	m := newTestModel(&fakeScanner{registry: emptyRegistry()}, &fakeTerminator{})
	require.True(t, m.loading)

	m, cmd := apply(t, m, spinnerTickMsg{})
	assert.Equal(t, 1, m.spinnerFrame)
	require.NotNil(t, cmd, "spinner keeps ticking while loading")
	assert.Contains(t, stripANSI(m.View()), "Scanning...")

	m = scanned(t, m)
	_, cmd = apply(t, m, spinnerTickMsg{})
	assert.Nil(t, cmd, "spinner stops once the cycle completes")
}

func TestUpdate_ResizeKeepsFrameHeight(t *testing.T) {
	m := newTestModel(&fakeScanner{registry: mixedRegistry()}, &fakeTerminator{})
	m = scanned(t, m)

	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 120, Height: 35})
	assert.Equal(t, 35, lipgloss.Height(m.View()))

	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 60, Height: 24})
	assert.Equal(t, 24, lipgloss.Height(m.View()))
}

func TestNew_RestrictedShowsAdvisory(t *testing.T) {
	m := New(Services{
		Scanner:    &fakeScanner{registry: emptyRegistry()},
		Terminator: &fakeTerminator{},
		Config:     config.Defaults(),
		Restricted: true,
	}).SetSize(100, 40)

	assert.True(t, m.toast.Visible())
	assert.Contains(t, stripANSI(m.View()), "root privileges")

	m, _ = apply(t, m, toaster.DismissMsg{})
	assert.False(t, m.toast.Visible())
}

func TestChooseTarget_MapsOptionsStructurally(t *testing.T) {
	m := newTestModel(&fakeScanner{registry: mixedRegistry()}, &fakeTerminator{})
	m = scanned(t, m)
	m, _ = apply(t, m, keyPress('t'))

	// Zone coordinates aren't registered outside a running program, so
	// drive the click resolution directly.
	_, cmd := m.chooseTarget(1)
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, targetPickedMsg{}, msg)
	picked := msg.(targetPickedMsg)
	assert.Equal(t, actionTerminate, picked.action)
	assert.Equal(t, 2, picked.index)

	_, cmd = m.chooseTarget(m.targetCount - 1)
	require.NotNil(t, cmd)
	assert.IsType(t, targetCancelledMsg{}, cmd())
}

func TestInspectEntry_OpensDetailsForRow(t *testing.T) {
	m := newTestModel(&fakeScanner{registry: mixedRegistry()}, &fakeTerminator{})
	m = scanned(t, m)

	m, _ = m.inspectEntry(2)
	assert.Equal(t, ViewDetails, m.view)
	assert.Equal(t, "python", m.details.Entry().Name())
}

func TestProgram_ScansRendersAndQuits(t *testing.T) {
	scanner := &fakeScanner{registry: mixedRegistry()}
	m := New(Services{Scanner: scanner, Terminator: &fakeTerminator{}, Config: config.Defaults()})

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 40))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("API Scout")) && bytes.Contains(bts, []byte("node"))
	}, teatest.WithCheckInterval(20*time.Millisecond), teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final, ok := tm.FinalModel(t).(Model)
	require.True(t, ok)
	assert.GreaterOrEqual(t, scanner.scanCalls(), 1)
	final.Close()
}
