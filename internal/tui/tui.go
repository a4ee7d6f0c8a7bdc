// Package tui provides a Bubble Tea terminal user interface for bandcamp-unzip.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/handiism/bandcamp-unzip/internal/config"
	"github.com/handiism/bandcamp-unzip/internal/extract"
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

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

const maxLogLines = 10

var errCancelled = errors.New("cancelled by user")

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateScanning
	StateExtracting
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   extract.ProgressLevel
}

// Options are the run toggles shown on the input screen.
type Options struct {
	Playlist  bool
	Tags      bool
	Recursive bool
	Verbose   bool
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logger    *zap.Logger
	logs      []LogEntry
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	manager *extract.Manager
	events  chan extract.ProgressEvent

	// Extraction progress
	doneArchives   int32
	totalArchives  int32
	extractedBytes int64
	failed         int

	opts Options

	width  int
	height int
}

// NewModel creates a new TUI model starting from settings. The source
// directory input is prefilled with settings.SourcePath.
func NewModel(settings *config.Settings, logger *zap.Logger) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "zip"
	ti.SetValue(settings.SourcePath)
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		opts: Options{
			Playlist:  settings.CreatePlaylist,
			Tags:      settings.ModifyTags,
			Recursive: settings.Recursive,
		},
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one event from the extraction manager.
	ProgressMsg struct {
		Event extract.ProgressEvent
	}

	// ScanDoneMsg is sent when the source directory has been scanned.
	ScanDoneMsg struct {
		Manager *extract.Manager
		Events  chan extract.ProgressEvent
		Err     error
	}

	// ExtractDoneMsg is sent when all archives have been handled.
	ExtractDoneMsg struct {
		Done      int32
		Total     int32
		Extracted int64
		Failed    int
		Err       error
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
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateExtracting || m.state == StateScanning {
				m.cancel()
				m.state = StateError
				m.err = errCancelled
			}
			return m, nil

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				m.state = StateScanning
				return m, tea.Batch(m.scan(), m.spinner.Tick)
			}

		case "ctrl+p":
			if m.state == StateInput {
				m.opts.Playlist = !m.opts.Playlist
			}
			return m, nil

		case "ctrl+t":
			if m.state == StateInput {
				m.opts.Tags = !m.opts.Tags
			}
			return m, nil

		case "ctrl+r":
			if m.state == StateInput {
				m.opts.Recursive = !m.opts.Recursive
			}
			return m, nil

		case "ctrl+o":
			if m.state == StateInput {
				m.opts.Verbose = !m.opts.Verbose
			}
			return m, nil

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m = m.reset()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m.appendLog(msg.Event)
		if m.events != nil {
			cmds = append(cmds, waitForEvent(m.events))
		}

	case ScanDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			break
		}
		m.manager = msg.Manager
		m.events = msg.Events
		_, m.totalArchives, _, _ = m.manager.GetProgress()
		m.state = StateExtracting
		cmds = append(cmds, m.startExtraction(), waitForEvent(m.events), tickProgress())

	case ExtractDoneMsg:
		m.doneArchives = msg.Done
		m.totalArchives = msg.Total
		m.extractedBytes = msg.Extracted
		m.failed = msg.Failed
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateExtracting {
			m.doneArchives, m.totalArchives, m.extractedBytes, _ = m.manager.GetProgress()
			cmds = append(cmds, m.progress.SetPercent(m.percent()), tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) appendLog(event extract.ProgressEvent) {
	if event.Level == extract.LevelVerbose && !m.opts.Verbose {
		return
	}
	m.logs = append(m.logs, LogEntry{Message: event.Message, Level: event.Level})
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
}

func (m Model) reset() Model {
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.doneArchives = 0
	m.totalArchives = 0
	m.extractedBytes = 0
	m.failed = 0
	m.manager = nil
	m.events = nil
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.textInput.Focus()
	return m
}

func (m Model) percent() float64 {
	if m.totalArchives == 0 {
		return 0
	}
	return float64(m.doneArchives) / float64(m.totalArchives)
}

// tickProgress returns a command to tick progress updates.
func tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent delivers the next manager event as a ProgressMsg. The
// channel is closed once the batch is over, which ends the chain.
func waitForEvent(events <-chan extract.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("📦 Bandcamp Unzip"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Extract Bandcamp downloads into an Artist/Album tree"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateScanning:
		b.WriteString(m.viewScanning())
	case StateExtracting:
		b.WriteString(m.viewExtracting())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Directory with Bandcamp zip files:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s Create playlist (ctrl+p)\n", checkbox(m.opts.Playlist))
	fmt.Fprintf(&b, "  %s Rewrite ID3 tags (ctrl+t)\n", checkbox(m.opts.Tags))
	fmt.Fprintf(&b, "  %s Search subdirectories (ctrl+r)\n", checkbox(m.opts.Recursive))
	fmt.Fprintf(&b, "  %s Verbose output (ctrl+o)\n", checkbox(m.opts.Verbose))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Destination: %s", m.settings.DestinationPath)))
	b.WriteString("\n")

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewScanning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Looking for archives..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewExtracting() string {
	var b strings.Builder

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Archives: %d/%d | Extracted: %s",
		m.doneArchives,
		m.totalArchives,
		humanize.Bytes(uint64(m.extractedBytes)),
	)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	box := boxStyle.Render(fmt.Sprintf(
		"✨ Extraction Complete!\n\n"+
			"Archives: %d\n"+
			"Failed: %d\n"+
			"Size: %s",
		m.doneArchives,
		m.failed,
		humanize.Bytes(uint64(m.extractedBytes)),
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		fmt.Fprintf(&b, "  %s", m.err.Error())
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case extract.LevelError:
			style = errorStyle
			prefix = "✗"
		case extract.LevelWarning:
			style = warningStyle
			prefix = "!"
		case extract.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case extract.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • ctrl+p: playlist • ctrl+t: tags • ctrl+r: recursive • ctrl+o: verbose • esc: quit"
	case StateScanning, StateExtracting:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

// runSettings applies the input screen to a copy of the base settings.
func (m Model) runSettings() *config.Settings {
	settings := *m.settings
	settings.SourcePath = strings.TrimSpace(m.textInput.Value())
	settings.CreatePlaylist = m.opts.Playlist
	settings.ModifyTags = m.opts.Tags
	settings.Recursive = m.opts.Recursive
	return &settings
}

// scan creates the manager and looks for archives.
func (m Model) scan() tea.Cmd {
	settings := m.runSettings()
	ctx := m.ctx
	logger := m.logger

	return func() tea.Msg {
		if err := settings.Validate(); err != nil {
			return ScanDoneMsg{Err: err}
		}

		events := make(chan extract.ProgressEvent, 64)
		manager := extract.NewManager(settings, logger, func(event extract.ProgressEvent) {
			event.Log(logger)
			select {
			case events <- event:
			case <-ctx.Done():
			}
		})

		if err := manager.Initialize(ctx); err != nil {
			return ScanDoneMsg{Err: err}
		}
		return ScanDoneMsg{Manager: manager, Events: events}
	}
}

// startExtraction runs the batch in the background.
func (m Model) startExtraction() tea.Cmd {
	manager := m.manager
	events := m.events
	ctx := m.ctx

	return func() tea.Msg {
		err := manager.StartExtractions(ctx)
		close(events)

		done, total, extracted, _ := manager.GetProgress()
		return ExtractDoneMsg{
			Done:      done,
			Total:     total,
			Extracted: extracted,
			Failed:    manager.Failed(),
			Err:       err,
		}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, logger *zap.Logger) error {
	p := tea.NewProgram(NewModel(settings, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
