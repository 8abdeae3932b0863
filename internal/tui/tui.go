// Package tui provides a Bubble Tea terminal user interface for the
// collection downloader: resolve credentials, pick purchases from the
// collection, watch the downloads run.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bandcamp-collection-dl/internal/config"
	"bandcamp-collection-dl/internal/download"
	"bandcamp-collection-dl/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))
)

// State represents the current UI state.
type State int

const (
	StateLoading State = iota
	StateSelect
	StateDownloading
	StateComplete
	StateError
)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	identity string

	manager  *download.Manager
	items    []model.Item
	selected map[int]bool
	cursor   int
	offset   int

	username string
	err      error

	ctx    context.Context
	cancel context.CancelFunc

	receivedBytes   int64
	totalFiles      int32
	downloadedFiles int32

	width  int
	height int
}

// NewModel creates a new TUI model. identity is the explicit -identity
// flag value, empty to probe browser cookie stores.
func NewModel(settings *config.Settings, identity string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateLoading,
		spinner:  sp,
		progress: prog,
		settings: settings,
		identity: identity,
		selected: make(map[int]bool),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.initialize(), m.spinner.Tick)
}

// Message types
type (
	// InitDoneMsg is sent when credential resolution and collection
	// enumeration complete.
	InitDoneMsg struct {
		Manager  *download.Manager
		Items    []model.Item
		Username string
		Err      error
	}

	// DownloadDoneMsg is sent when all downloads complete.
	DownloadDoneMsg struct {
		Received int64
		Files    int32
		TotalF   int32
		Err      error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateSelect {
				return m, tea.Quit
			}
			if m.state == StateDownloading || m.state == StateLoading {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "up", "k":
			if m.state == StateSelect && m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.state == StateSelect && m.cursor < len(m.items)-1 {
				m.cursor++
			}

		case " ", "space":
			if m.state == StateSelect && len(m.items) > 0 {
				if m.items[m.cursor].Downloadable() {
					m.selected[m.cursor] = !m.selected[m.cursor]
				}
			}

		case "a":
			if m.state == StateSelect {
				for i, item := range m.items {
					if item.Downloadable() {
						m.selected[i] = true
					}
				}
			}

		case "n":
			if m.state == StateSelect {
				m.selected = make(map[int]bool)
			}

		case "enter":
			if m.state == StateSelect && m.selectionCount() > 0 {
				m.state = StateDownloading
				return m, tea.Batch(m.startDownload(), m.tickProgress(), m.spinner.Tick)
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case InitDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.manager = msg.Manager
			m.items = msg.Items
			m.username = msg.Username
			m.state = StateSelect
			// Preselect everything downloadable.
			for i, item := range m.items {
				if item.Downloadable() {
					m.selected[i] = true
				}
			}
		}

	case DownloadDoneMsg:
		m.receivedBytes = msg.Received
		m.downloadedFiles = msg.Files
		m.totalFiles = msg.TotalF
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateDownloading {
			received, files, totalFiles := m.manager.GetProgress()
			m.receivedBytes = received
			m.downloadedFiles = files
			m.totalFiles = totalFiles

			var percent float64
			if totalFiles > 0 {
				percent = float64(files) / float64(totalFiles)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) selectionCount() int {
	count := 0
	for _, on := range m.selected {
		if on {
			count++
		}
	}
	return count
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Bandcamp Collection Downloader"))
	b.WriteString("\n")
	if m.username != "" {
		b.WriteString(dimStyle.Render("Logged in as " + m.username))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.state {
	case StateLoading:
		b.WriteString(m.viewLoading())
	case StateSelect:
		b.WriteString(m.viewSelect())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewLoading() string {
	return m.spinner.View() + " " + subtitleStyle.Render("Loading collection...") + "\n"
}

func (m Model) viewSelect() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(fmt.Sprintf(
		"Collection: %d items, %d selected (format: %s)",
		len(m.items), m.selectionCount(), m.settings.Format,
	)))
	b.WriteString("\n\n")

	visible := m.visibleRows()
	start, end := m.window(visible)
	if start > 0 {
		b.WriteString(dimStyle.Render("  ..."))
		b.WriteString("\n")
	}

	for i := start; i < end; i++ {
		item := m.items[i]

		check := "[ ]"
		if m.selected[i] {
			check = "[x]"
		}
		if !item.Downloadable() {
			check = " - "
		}

		line := fmt.Sprintf("%s %-5s %s - %s", check, item.Type, item.Artist, item.Title)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else if !item.Downloadable() {
			b.WriteString(dimStyle.Render("  " + line))
		} else {
			b.WriteString(itemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if end < len(m.items) {
		b.WriteString(dimStyle.Render("  ..."))
		b.WriteString("\n")
	}

	return b.String()
}

// visibleRows returns how many item rows fit in the current window.
func (m Model) visibleRows() int {
	rows := m.height - 10
	if rows < 5 {
		rows = 5
	}
	return rows
}

// window computes the scroll window keeping the cursor visible.
func (m Model) window(visible int) (start, end int) {
	start = m.cursor - visible/2
	if start < 0 {
		start = 0
	}
	end = start + visible
	if end > len(m.items) {
		end = len(m.items)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Downloading..."))
	b.WriteString("\n\n")

	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.downloadedFiles) / float64(m.totalFiles)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Items: %d/%d | Received: %.2f MB",
		m.downloadedFiles,
		m.totalFiles,
		float64(m.receivedBytes)/1024/1024,
	)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewComplete() string {
	return boxStyle.Render(fmt.Sprintf(
		"Download Complete\n\n"+
			"Items: %d/%d\n"+
			"Size: %.2f MB",
		m.downloadedFiles,
		m.totalFiles,
		float64(m.receivedBytes)/1024/1024,
	))
}

func (m Model) viewError() string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("Error:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString("  " + m.err.Error())
	}
	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateLoading:
		return "esc: cancel"
	case StateSelect:
		return "space: toggle - a: all - n: none - enter: download - esc: quit"
	case StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "q: quit"
	}
	return ""
}

// initialize resolves credentials and enumerates the collection.
func (m *Model) initialize() tea.Cmd {
	ctx := m.ctx
	settings := m.settings
	identity := m.identity

	return func() tea.Msg {
		manager, err := download.NewManager(settings, nil)
		if err != nil {
			return InitDoneMsg{Err: err}
		}

		if err := manager.Initialize(ctx, identity); err != nil {
			return InitDoneMsg{Err: err}
		}

		return InitDoneMsg{
			Manager:  manager,
			Items:    manager.Items(),
			Username: manager.Username(),
		}
	}
}

// startDownload narrows the manager to the selection and runs it.
func (m *Model) startDownload() tea.Cmd {
	ctx := m.ctx
	manager := m.manager

	var picked []model.Item
	for i, item := range m.items {
		if m.selected[i] {
			picked = append(picked, item)
		}
	}
	manager.SetItems(picked)

	return func() tea.Msg {
		err := manager.StartDownloads(ctx)
		received, files, totalFiles := manager.GetProgress()

		return DownloadDoneMsg{
			Received: received,
			Files:    files,
			TotalF:   totalFiles,
			Err:      err,
		}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, identity string) error {
	p := tea.NewProgram(NewModel(settings, identity), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
