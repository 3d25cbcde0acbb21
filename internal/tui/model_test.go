package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/boxsim/internal/circles"
	"github.com/san-kum/boxsim/internal/engine"
	"github.com/san-kum/boxsim/internal/physics"
	"github.com/san-kum/boxsim/internal/viz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (model, *engine.World, *viz.TerminalSurface) {
	t.Helper()
	phys := physics.NewWorld(nil)
	surface := viz.NewTerminalSurface(nil)
	w, err := engine.New(engine.DefaultConfig(), phys, surface)
	require.NoError(t, err)
	g := circles.New(w, phys, circles.Options{WorldHeight: 15, WallMargin: 0.5, CircleRadius: 0.5})
	return newModel(w, g, surface), w, surface
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestWindowSizeResizesAndInits(t *testing.T) {
	m, w, surface := newTestModel(t)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 25})
	c, ok := surface.Acquire()
	require.True(t, ok)
	cw, ch := c.Size()
	assert.Equal(t, 160, cw)
	assert.Equal(t, 96, ch)
	assert.Equal(t, 1, w.Pending())

	// Later resizes only change the surface.
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 1, w.Pending())
	assert.True(t, m.initialized)
}

func TestClickPostsTouch(t *testing.T) {
	m, w, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 25})

	m, _ = update(t, m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, 2, w.Pending())

	// Clicks on the status bar row and other buttons are ignored.
	m, _ = update(t, m, tea.MouseMsg{X: 10, Y: 24, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	_, _ = update(t, m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.Equal(t, 2, w.Pending())
}

func TestArrowsTilt(t *testing.T) {
	m, w, _ := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1.0, m.roll)
	assert.Equal(t, 1.0, m.pitch)
	assert.Equal(t, 2, w.Pending())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0'}})
	assert.Zero(t, m.roll)
	assert.Zero(t, m.pitch)
}

func TestPauseWhileStoppedShowsError(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Nil(t, cmd)
	assert.Contains(t, m.notice, "cannot pause while stopped")
	assert.Contains(t, m.View(), "STOPPED")
}

func TestQuitStopsAndClosesSurface(t *testing.T) {
	m, _, surface := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.True(t, isQuit(cmd))

	_, ok := surface.Acquire()
	assert.False(t, ok)
}

func TestFrameShownAboveStatusBar(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, FrameMsg("canvas"))
	view := m.View()
	assert.Contains(t, view, "canvas\n")
	assert.Contains(t, view, "circles")
}

func TestLoopExitQuits(t *testing.T) {
	m, _, _ := newTestModel(t)
	errLoop := errors.New("loop failed")

	m, cmd := update(t, m, stoppedMsg{err: errLoop})
	assert.True(t, isQuit(cmd))
	assert.ErrorIs(t, m.err, errLoop)
}
