// Package tui hosts the box world in a Bubble Tea program. The program's
// goroutine plays the role of the input thread: it only posts messages and
// toggles pause, never touching actors or bodies.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/boxsim/internal/circles"
	"github.com/san-kum/boxsim/internal/engine"
	"github.com/san-kum/boxsim/internal/viz"
)

const tiltStep = 1.0

// FrameMsg carries one presented frame from the loop goroutine.
type FrameMsg string

type stoppedMsg struct{ err error }

type model struct {
	world   *engine.World
	game    *circles.Game
	surface *viz.TerminalSurface

	frame       string
	width       int
	height      int
	roll, pitch float64
	initialized bool
	notice      string
	err         error
}

func newModel(w *engine.World, g *circles.Game, s *viz.TerminalSurface) model {
	return model{world: w, game: g, surface: s}
}

func (m model) Init() tea.Cmd {
	return waitStopped(m.world)
}

func waitStopped(w *engine.World) tea.Cmd {
	return func() tea.Msg {
		return stoppedMsg{err: w.Wait()}
	}
}

// canvasRows leaves one row for the status bar.
func (m model) canvasRows() int {
	if m.height <= 1 {
		return 0
	}
	return m.height - 1
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		rows := m.canvasRows()
		m.surface.Resize(m.width, rows)
		if !m.initialized && m.width > 0 && rows > 0 {
			if err := m.game.Init(m.width*2, rows*4); err != nil {
				m.notice = err.Error()
			}
			m.initialized = true
		}
	case FrameMsg:
		m.frame = string(msg)
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y < m.canvasRows() {
			// Center of the clicked cell in canvas pixels.
			m.touch(float64(msg.X*2+1), float64(msg.Y*4+2))
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	case stoppedMsg:
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.world.Stop()
		m.surface.Close()
		return m, tea.Quit
	case " ", "p":
		var err error
		if m.world.IsPaused() {
			err = m.world.Resume()
		} else {
			err = m.world.Pause()
		}
		m.notice = ""
		if err != nil {
			m.notice = err.Error()
		}
	case "c":
		m.touch(float64(m.width), float64(m.canvasRows()*2))
	case "left", "h":
		m.tilt(m.roll+tiltStep, m.pitch)
	case "right", "l":
		m.tilt(m.roll-tiltStep, m.pitch)
	case "up", "k":
		m.tilt(m.roll, m.pitch+tiltStep)
	case "down", "j":
		m.tilt(m.roll, m.pitch-tiltStep)
	case "0":
		m.tilt(0, 0)
	}
	return m, nil
}

func (m *model) touch(x, y float64) {
	if err := m.game.Touch(x, y); err != nil {
		m.notice = err.Error()
	}
}

func (m *model) tilt(roll, pitch float64) {
	m.roll, m.pitch = roll, pitch
	if err := m.game.Tilt(roll, pitch); err != nil {
		m.notice = err.Error()
	}
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.frame)
	if m.frame != "" {
		b.WriteByte('\n')
	}
	state := m.world.State().String()
	b.WriteString(viz.StatusBar(state, int(m.game.Circles()), m.world.CurrentFPS(), -m.roll, m.pitch, m.width))
	if m.notice != "" {
		b.WriteString("  " + viz.StatusStopped.Render(m.notice))
	}
	return b.String()
}
