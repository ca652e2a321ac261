package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwilde/topho/internal/tasks"
)

// eventTailSize bounds the number of recent events kept on screen.
const eventTailSize = 8

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RunView ViewState = iota
	ResultView
)

// Model represents the TUI application state for one sync run.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       tasks.SyncEngine
	rootName     string
	spinner      spinner.Model
	progressChan chan tasks.ProgressUpdate
	phase        tasks.Phase
	events       []string
	result       *tasks.SyncRunResult
	err          error
	help         help.Model
	keys         keyMap
}

type progressUpdateMsg tasks.ProgressUpdate

type runCompleteMsg struct {
	result *tasks.SyncRunResult
	err    error
}

// NewModel creates a TUI model that will sync the named root folder.
func NewModel(ctx context.Context, engine tasks.SyncEngine, rootName string) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.title

	return &Model{
		ctx:      ctx,
		view:     RunView,
		engine:   engine,
		rootName: rootName,
		spinner:  sp,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init starts the sync run and the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.startRun(), m.spinner.Tick)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progressUpdateMsg:
		update := tasks.ProgressUpdate(msg)
		m.phase = update.Phase
		m.events = append(m.events, update.Message)
		if len(m.events) > eventTailSize {
			m.events = m.events[len(m.events)-eventTailSize:]
		}
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) startRun() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Run(m.ctx, m.progressChan, m.rootName)
		m.result = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return runCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return runCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderRun() string {
	title := styles.title.Render(fmt.Sprintf("Syncing %q to Google Photos", m.rootName))

	var phase string
	switch m.phase {
	case tasks.ResolveRoot:
		phase = "Resolving root folder..."
	case tasks.ScanFolder:
		phase = "Scanning folders..."
	case tasks.Transfer:
		phase = "Uploading media..."
	case tasks.BindAlbum:
		phase = "Filing albums..."
	default:
		phase = "Working..."
	}

	tail := styles.help.Render(strings.Join(m.events, "\n"))
	helpView := m.help.ShortHelpView(m.keys.ShortHelp())

	return fmt.Sprintf("%s\n%s %s\n\n%s\n\n%s", title, m.spinner.View(), phase, tail, helpView)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView(m.keys.ShortHelp())

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s",
			styles.err.Render(fmt.Sprintf("Sync failed: %v", m.err)), helpView)
	}

	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	title := styles.ok.Render("✓ Sync Complete")
	info := fmt.Sprintf(
		"\nRoot: %s\nUploaded: %d\nReused: %d\nSkipped: %d\nAlbums: %d",
		m.result.Root, m.result.Uploaded, m.result.Reused, m.result.Skipped, m.result.Albums,
	)

	var failed string
	if m.result.Failed > 0 {
		failed = "\n" + styles.warn.Render(fmt.Sprintf("Failed: %d (see the miss log)", m.result.Failed))
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
