// Package app contains the root application model.
package app

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"apiscout/internal/config"
	"apiscout/internal/discovery"
	"apiscout/internal/keys"
	"apiscout/internal/log"
	"apiscout/internal/ui/details"
	"apiscout/internal/ui/help"
	"apiscout/internal/ui/logoverlay"
	"apiscout/internal/ui/notice"
	"apiscout/internal/ui/picker"
	"apiscout/internal/ui/table"
	"apiscout/internal/ui/toaster"
)

// Farewell is printed by the command layer after the program exits.
const Farewell = "👋 Exiting API Scout. Goodbye!"

const (
	headerTitle       = "🚀 API Scout"
	menuPrompt        = "What would you like to do?"
	scanningLabel     = "Scanning..."
	privilegeAdvisory = "Warning: Some features may require root privileges. Consider running with sudo."
)

// Menu action values. The pickers report these instead of option labels so
// behavior never depends on display text.
const (
	actionRefresh   = "refresh"
	actionTerminate = "terminate"
	actionInspect   = "inspect"
	actionExit      = "exit"

	targetCancelValue = "cancel"
)

const (
	rowZonePrefix    = "api-row-"
	menuZonePrefix   = "menu-option-"
	targetZonePrefix = "target-option-"
)

func rowZoneID(i int) string    { return rowZonePrefix + strconv.Itoa(i) }
func menuZoneID(i int) string   { return menuZonePrefix + strconv.Itoa(i) }
func targetZoneID(i int) string { return targetZonePrefix + strconv.Itoa(i) }

const (
	menuBoxWidth   = 28
	headerLines    = 2 // title line + table heading
	minTableHeight = 5

	advisoryTimeout = 3 * time.Second
)

// Scanner runs one discovery cycle.
type Scanner interface {
	Scan(ctx context.Context) (*discovery.Registry, error)
}

// Terminator acts on a single entry and reports the outcome as a
// user-facing message.
type Terminator interface {
	Terminate(ctx context.Context, e discovery.Entry) string
}

// Services carries the dependencies the model needs.
type Services struct {
	Scanner    Scanner
	Terminator Terminator
	Config     config.Config

	// Restricted reports that the process lacks the privileges to see
	// every socket owner; the model shows a one-time advisory toast.
	Restricted bool
}

// ViewMode identifies which surface currently has input focus.
type ViewMode int

const (
	// ViewMain shows the table with the action menu.
	ViewMain ViewMode = iota
	// ViewTarget shows the entry picker for terminate/inspect.
	ViewTarget
	// ViewNotice shows an outcome message awaiting acknowledgement.
	ViewNotice
	// ViewDetails shows the inspect overlay.
	ViewDetails
	// ViewHelp shows the keybinding reference.
	ViewHelp
)

type scanResultMsg struct {
	registry *discovery.Registry
	err      error
}

type terminateResultMsg struct {
	outcome string
}

type actionMsg struct {
	action string
}

type targetPickedMsg struct {
	action string
	index  int // 1-based registry index
}

type targetCancelledMsg struct{}

type spinnerTickMsg struct{}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func spinnerTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

// Model is the root application state.
type Model struct {
	services Services
	keys     keys.KeyMap

	table   table.Model
	menu    picker.Model
	target  picker.Model
	notice  notice.Model
	details details.Model
	help    help.Model
	logs    logoverlay.Model
	toast   toaster.Model

	registry *discovery.Registry
	view     ViewMode

	// Menu and target picker bookkeeping for structural click handling.
	menuOpts     []picker.Option
	targetAction string
	targetCount  int

	// Row highlighted while the target picker cursor moves; -1 clears it.
	highlightRow int

	// noticeRefresh forces a discovery pass when the notice is
	// acknowledged, so a termination outcome is reflected immediately.
	noticeRefresh bool

	loading      bool
	spinnerFrame int

	err        error
	errContext string

	width  int
	height int

	logListener  *log.LogListener
	listenCancel context.CancelFunc
}

// New creates the application model. The first discovery cycle starts
// from Init.
func New(services Services) Model {
	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		services:     services,
		keys:         keys.DefaultKeyMap(),
		view:         ViewMain,
		highlightRow: -1,
		loading:      true,
		help:         help.New(),
		logs:         logoverlay.New(),
		toast:        toaster.New(),
		logListener:  log.NewListener(ctx),
		listenCancel: cancel,
	}

	m.table = table.New(appTableConfig(""))
	m = m.setMenu(menuOptions(false))

	if services.Restricted {
		log.Warn(log.CatUI, "Running without elevated privileges, some processes may be invisible")
		m.toast = m.toast.Show(privilegeAdvisory, toaster.StyleWarn)
	}

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.scanCmd(), spinnerTick()}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.toast.Visible() {
		cmds = append(cmds, toaster.ScheduleDismiss(advisoryTimeout))
	}
	return tea.Batch(cmds...)
}

// Close releases the log subscription.
func (m *Model) Close() {
	if m.listenCancel != nil {
		m.listenCancel()
	}
}

// SetSize propagates terminal dimensions to every component.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height

	m = m.layout()
	m.menu = m.menu.SetSize(width, height)
	m.target = m.target.SetSize(width, height)
	m.notice = m.notice.SetSize(width, height)
	m.details = m.details.SetSize(width, height)
	m.help = m.help.SetSize(width, height)
	m.logs = m.logs.SetSize(width, height)
	m.toast = m.toast.SetSize(width, height)

	return m
}

// layout sizes the table to the space left after the header lines, the
// menu box, and the status bar.
func (m Model) layout() Model {
	if m.width <= 0 || m.height <= 0 {
		return m
	}
	menuHeight := len(m.menuOpts) + 4 // title + divider + borders
	tableHeight := max(m.height-headerLines-menuHeight-1, minTableHeight)
	m.table = m.table.SetSize(m.width, tableHeight)
	return m
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case tea.MouseMsg:
		if m.logs.Visible() {
			return m, nil
		}
		return m.handleMouse(msg)

	case log.LogEvent:
		m.logs = m.logs.Refresh()
		if m.logListener != nil {
			return m, m.logListener.Listen()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Logs) {
			m.logs = m.logs.Toggle()
			return m, nil
		}
		if m.logs.Visible() {
			var cmd tea.Cmd
			m.logs, cmd = m.logs.Update(msg)
			return m, cmd
		}
		if m.err != nil {
			m.err = nil
			m.errContext = ""
			return m, nil
		}
		return m.handleKey(msg)

	case spinnerTickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
		return m, spinnerTick()

	case scanResultMsg:
		return m.applyScanResult(msg)

	case terminateResultMsg:
		log.Info(log.CatUI, "Showing termination outcome", "outcome", msg.outcome)
		m.notice = notice.New("Terminate API", msg.outcome).SetSize(m.width, m.height)
		m.noticeRefresh = true
		m.view = ViewNotice
		return m, nil

	case actionMsg:
		return m.handleAction(msg.action)

	case targetPickedMsg:
		return m.handleTargetPicked(msg)

	case targetCancelledMsg:
		m.view = ViewMain
		m.highlightRow = -1
		return m, nil

	case notice.AckMsg:
		m.view = ViewMain
		if m.noticeRefresh {
			m.noticeRefresh = false
			return m.startScan()
		}
		return m, nil

	case details.CloseMsg:
		m.view = ViewMain
		return m, nil

	case toaster.DismissMsg:
		m.toast = m.toast.Hide()
		return m, nil
	}

	return m, nil
}

// handleKey routes keys to whichever surface owns input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.view {
	case ViewHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) {
			m.view = ViewMain
		}
		return m, nil

	case ViewNotice:
		var cmd tea.Cmd
		m.notice, cmd = m.notice.Update(msg)
		return m, cmd

	case ViewDetails:
		var cmd tea.Cmd
		m.details, cmd = m.details.Update(msg)
		return m, cmd

	case ViewTarget:
		var cmd tea.Cmd
		m.target, cmd = m.target.Update(msg)
		m = m.syncTargetHighlight()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		return m.startScan()
	case key.Matches(msg, m.keys.Terminate):
		return m.openTargetPicker(actionTerminate)
	case key.Matches(msg, m.keys.Inspect):
		return m.openTargetPicker(actionInspect)
	case key.Matches(msg, m.keys.Help):
		m.view = ViewHelp
		return m, nil
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

// handleMouse hit-tests left clicks against the active surface's zones
// and forwards wheel events to the scrollable component under them.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		switch m.view {
		case ViewMain:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		case ViewDetails:
			var cmd tea.Cmd
			m.details, cmd = m.details.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
		return m, nil
	}

	switch m.view {
	case ViewMain:
		for i, opt := range m.menuOpts {
			if zone.Get(menuZoneID(i)).InBounds(msg) {
				action := opt.Value
				return m, func() tea.Msg { return actionMsg{action: action} }
			}
		}
		for i := 0; i < m.table.RowCount(); i++ {
			if zone.Get(rowZoneID(i)).InBounds(msg) {
				log.Debug(log.CatUI, "Row clicked", "row", i)
				return m.inspectEntry(i + 1)
			}
		}

	case ViewTarget:
		for i := 0; i < m.targetCount; i++ {
			if zone.Get(targetZoneID(i)).InBounds(msg) {
				return m.chooseTarget(i)
			}
		}
	}

	return m, nil
}

// chooseTarget resolves a click on target picker option i the same way
// the picker's own enter key would.
func (m Model) chooseTarget(optionIndex int) (Model, tea.Cmd) {
	if optionIndex == m.targetCount-1 {
		return m, func() tea.Msg { return targetCancelledMsg{} }
	}
	action, index := m.targetAction, optionIndex+1
	return m, func() tea.Msg { return targetPickedMsg{action: action, index: index} }
}

// handleAction dispatches a main menu choice.
func (m Model) handleAction(action string) (Model, tea.Cmd) {
	log.Debug(log.CatUI, "Menu action chosen", "action", action)

	switch action {
	case actionRefresh:
		return m.startScan()
	case actionTerminate:
		return m.openTargetPicker(actionTerminate)
	case actionInspect:
		return m.openTargetPicker(actionInspect)
	case actionExit:
		return m, tea.Quit
	}
	return m, nil
}

// handleTargetPicked validates the picked index against the current
// registry and runs the pending action.
func (m Model) handleTargetPicked(msg targetPickedMsg) (Model, tea.Cmd) {
	m.view = ViewMain
	m.highlightRow = -1

	switch msg.action {
	case actionTerminate:
		entry, err := m.registry.At(msg.index)
		if err != nil {
			m.err = err
			m.errContext = "selecting API"
			return m, nil
		}
		return m, m.terminateCmd(entry)
	case actionInspect:
		return m.inspectEntry(msg.index)
	}
	return m, nil
}

// inspectEntry opens the details overlay for the 1-based registry index.
func (m Model) inspectEntry(index int) (Model, tea.Cmd) {
	if m.registry == nil {
		return m, nil
	}
	entry, err := m.registry.At(index)
	if err != nil {
		m.err = err
		m.errContext = "selecting API"
		return m, nil
	}

	m.details = details.New(entry, m.registry.TakenAt(), m.services.Config.Theme.MarkdownStyle).
		SetSize(m.width, m.height)
	m.view = ViewDetails
	return m, nil
}

// startScan kicks off a discovery cycle unless one is already running.
func (m Model) startScan() (Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	log.Debug(log.CatUI, "Refresh requested")
	m.loading = true
	return m, tea.Batch(m.scanCmd(), spinnerTick())
}

func (m Model) scanCmd() tea.Cmd {
	scanner := m.services.Scanner
	return func() tea.Msg {
		registry, err := scanner.Scan(context.Background())
		return scanResultMsg{registry: registry, err: err}
	}
}

func (m Model) terminateCmd(entry discovery.Entry) tea.Cmd {
	terminator := m.services.Terminator
	return func() tea.Msg {
		return terminateResultMsg{outcome: terminator.Terminate(context.Background(), entry)}
	}
}

// applyScanResult swaps in the new registry and rebuilds the menu, or
// reports the cycle failure in the notice overlay.
func (m Model) applyScanResult(msg scanResultMsg) (Model, tea.Cmd) {
	m.loading = false

	if msg.err != nil {
		log.Error(log.CatUI, "Discovery cycle failed", "error", msg.err)
		m.notice = notice.New("Error", "⚠️  An error occurred: "+msg.err.Error()).
			SetSize(m.width, m.height)
		m.noticeRefresh = false
		m.view = ViewNotice
		return m, nil
	}

	m.registry = msg.registry
	m.table = m.table.
		SetConfig(appTableConfig(entryHint(msg.registry.Len()))).
		SetRows(registryRows(msg.registry))
	m = m.setMenu(menuOptions(!msg.registry.Empty()))
	m = m.layout()

	return m, nil
}

// openTargetPicker shows the entry picker for terminate or inspect.
// No-op while the registry is empty; the menu doesn't offer these
// actions then, but the keyboard shortcuts still reach here.
func (m Model) openTargetPicker(action string) (Model, tea.Cmd) {
	if m.registry == nil || m.registry.Empty() {
		return m, nil
	}

	title := "Select an API to terminate:"
	if action == actionInspect {
		title = "Select an API to inspect:"
	}

	entries := m.registry.Entries()
	opts := make([]picker.Option, 0, len(entries)+1)
	for i, e := range entries {
		opts = append(opts, picker.Option{
			Label: discovery.PromptLabel(i+1, e),
			Value: strconv.Itoa(i + 1),
			Color: kindColor(e.Kind()),
		})
	}
	opts = append(opts, picker.Option{Label: "Cancel", Value: targetCancelValue})

	m.target = picker.NewWithConfig(picker.Config{
		Title:      title,
		Options:    opts,
		ZonePrefix: targetZonePrefix,
		OnSelect: func(opt picker.Option) tea.Msg {
			if opt.Value == targetCancelValue {
				return targetCancelledMsg{}
			}
			index, err := strconv.Atoi(opt.Value)
			if err != nil {
				return targetCancelledMsg{}
			}
			return targetPickedMsg{action: action, index: index}
		},
		OnCancel: func() tea.Msg { return targetCancelledMsg{} },
	}).SetBoxWidth(targetBoxWidth(opts, m.width)).SetSize(m.width, m.height)

	m.targetAction = action
	m.targetCount = len(opts)
	m.view = ViewTarget
	m.highlightRow = 0
	m.table = m.table.EnsureVisible(0)

	return m, nil
}

// syncTargetHighlight mirrors the target picker cursor onto the table.
func (m Model) syncTargetHighlight() Model {
	idx := m.target.SelectedIndex()
	if m.registry != nil && idx < m.registry.Len() {
		m.highlightRow = idx
		m.table = m.table.EnsureVisible(idx)
	} else {
		m.highlightRow = -1
	}
	return m
}

// setMenu rebuilds the action menu, keeping the cursor on the same
// action when the option set changes.
func (m Model) setMenu(opts []picker.Option) Model {
	selected := picker.FindIndexByValue(opts, m.menu.Selected().Value)
	m.menuOpts = opts
	m.menu = picker.NewWithConfig(picker.Config{
		Title:      menuPrompt,
		Options:    opts,
		Selected:   selected,
		ZonePrefix: menuZonePrefix,
		OnSelect: func(opt picker.Option) tea.Msg {
			return actionMsg{action: opt.Value}
		},
	}).SetBoxWidth(menuBoxWidth).SetSize(m.width, m.height)
	return m
}

// menuOptions returns the main menu. Terminate and Inspect are offered
// only when there is something to act on.
func menuOptions(hasEntries bool) []picker.Option {
	opts := []picker.Option{{Label: "Refresh", Value: actionRefresh}}
	if hasEntries {
		opts = append(opts,
			picker.Option{Label: "Terminate an API", Value: actionTerminate},
			picker.Option{Label: "Inspect an API", Value: actionInspect},
		)
	}
	return append(opts, picker.Option{Label: "Exit", Value: actionExit})
}

// targetBoxWidth fits the picker box to its longest label, bounded by
// the terminal width.
func targetBoxWidth(opts []picker.Option, termWidth int) int {
	width := menuBoxWidth
	for _, opt := range opts {
		if w := lipgloss.Width(opt.Label) + 6; w > width {
			width = w
		}
	}
	if termWidth > 8 {
		width = min(width, termWidth-8)
	}
	return width
}

func entryHint(count int) string {
	if count == 0 {
		return ""
	}
	return strconv.Itoa(count) + " found"
}
