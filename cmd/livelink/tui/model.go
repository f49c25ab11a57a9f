package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the bubbletea model for the livelink status view.
type Model struct {
	// Models
	Overlay viewport.Model
	Spinner spinner.Model

	// State
	OverlayVisible bool
	OverlayKind    string
	Entries        []string
	Phase          string
	Percent        int
	ProgressText   string
	Width          int
	Height         int
	Ready          bool
	Quitting       bool
}

// NewModel creates the initial model.
func NewModel() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		Spinner: sp,
		Phase:   "connecting",
	}
}

func (m Model) Init() tea.Cmd {
	return m.Spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Overlay = viewport.New(msg.Width-4, msg.Height-5)
		m.Overlay.SetContent(strings.Join(m.Entries, "\n\n"))
		m.Ready = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.Overlay, cmd = m.Overlay.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case ShowOverlayMsg:
		m.OverlayVisible = true
		m.OverlayKind = msg.Kind
		m.Entries = msg.Entries
		m.Overlay.SetContent(strings.Join(msg.Entries, "\n\n"))
		m.Overlay.GotoTop()
		return m, nil

	case HideOverlayMsg:
		m.OverlayVisible = false
		m.Entries = nil
		return m, nil

	case ProgressMsg:
		m.Percent = msg.Percent
		m.ProgressText = msg.Message
		return m, nil

	case PhaseMsg:
		m.Phase = msg.Phase
		if msg.Phase != "compiling" {
			m.Percent = 0
			m.ProgressText = ""
		}
		return m, nil
	}

	return m, nil
}
