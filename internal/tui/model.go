package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/molview/internal/render"
	"github.com/san-kum/molview/internal/scene"
	"github.com/san-kum/molview/internal/viewer"
)

const (
	DefaultFPS = 60

	// rows taken by the header, status bar and help line
	chromeRows = 4

	orbitStep = 0.1
	dollyStep = 0.9
)

type TickMsg time.Time

type loadedMsg struct {
	source string
	err    error
}

type Options struct {
	Title  string
	Source string
	FPS    int
	Labels bool
}

// Model drives a viewer.Context from bubbletea messages.
type Model struct {
	view   *viewer.Context
	raster *render.Braille
	labels *render.Labels

	spinner spinner.Model
	help    help.Model
	keys    keyMap

	title      string
	source     string
	fps        int
	showLabels bool

	width, height int
	loading       bool
	paused        bool
	atoms, bonds  int
	err           error

	ctx    context.Context
	cancel context.CancelFunc
}

func New(open scene.OpenFunc, p scene.Params, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	if opts.Title == "" {
		opts.Title = "molview"
	}
	raster := render.NewBraille(0, 0)
	labels := render.NewLabels(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		view:       viewer.NewContext(raster, labels, open, p),
		raster:     raster,
		labels:     labels,
		spinner:    sp,
		help:       help.New(),
		keys:       defaultKeys(),
		title:      opts.Title,
		source:     opts.Source,
		fps:        opts.FPS,
		showLabels: opts.Labels,
		loading:    true,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Viewer exposes the underlying context.
func (m Model) Viewer() *viewer.Context { return m.view }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(), m.tick())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) load() tea.Cmd {
	view, ctx, source := m.view, m.ctx, m.source
	return func() tea.Msg {
		return loadedMsg{source: source, err: view.Load(ctx, source)}
	}
}

// Update handles input and advances the animation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Left):
			m.view.Orbit(-orbitStep, 0)
		case key.Matches(msg, m.keys.Right):
			m.view.Orbit(orbitStep, 0)
		case key.Matches(msg, m.keys.Up):
			m.view.Orbit(0, orbitStep)
		case key.Matches(msg, m.keys.Down):
			m.view.Orbit(0, -orbitStep)
		case key.Matches(msg, m.keys.In):
			m.view.Dolly(dollyStep)
		case key.Matches(msg, m.keys.Out):
			m.view.Dolly(1 / dollyStep)
		case key.Matches(msg, m.keys.Pause):
			m.paused = m.view.TogglePause()
		case key.Matches(msg, m.keys.Reset):
			m.view.Reset()
		case key.Matches(msg, m.keys.Labels):
			m.showLabels = !m.showLabels
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.view.Resize(msg.Width, max(msg.Height-chromeRows, 1))

	case loadedMsg:
		if msg.source != m.source {
			return m, nil
		}
		m.loading = false
		if msg.err != nil && !errors.Is(msg.err, viewer.ErrStale) {
			m.err = msg.err
		}
		g := m.view.Snapshot()
		m.atoms, m.bonds = g.Spheres(), g.Boxes()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		if err := m.view.Frame(time.Time(msg)); err != nil {
			m.err = err
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)))
	s.WriteString("  " + sourceStyle.Render(m.source) + "\n")

	if m.loading {
		fmt.Fprintf(&s, "\n%s loading %s\n", m.spinner.View(), m.source)
		return s.String()
	}

	raster := m.raster.String()
	if m.showLabels {
		raster = m.labels.ComposeStyled(raster, labelStyle)
	}
	s.WriteString(raster)
	if !strings.HasSuffix(raster, "\n") {
		s.WriteString("\n")
	}
	s.WriteString(m.status() + "\n")
	s.WriteString(m.help.View(m.keys))
	return s.String()
}

func (m Model) status() string {
	parts := []string{
		statusStyle.Render("atoms ") + valueStyle.Render(fmt.Sprint(m.atoms)),
		statusStyle.Render("bonds ") + valueStyle.Render(fmt.Sprint(m.bonds)),
		statusStyle.Render("distance ") + valueStyle.Render(fmt.Sprintf("%.0f", m.view.Distance())),
	}
	if m.paused {
		parts = append(parts, pausedStyle.Render("PAUSED"))
	}
	if m.err != nil {
		parts = append(parts, errorStyle.Render(m.err.Error()))
	}
	return strings.Join(parts, statusStyle.Render("  │  "))
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(m Model) error {
	defer m.cancel()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
