package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/boxsim/internal/circles"
	"github.com/san-kum/boxsim/internal/engine"
	"github.com/san-kum/boxsim/internal/viz"
)

// Run starts the world, shows it full screen until the user quits or the
// loop stops on its own, and returns the loop error, if any.
func Run(ctx context.Context, w *engine.World, g *circles.Game, s *viz.TerminalSurface) error {
	p := tea.NewProgram(newModel(w, g, s), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	s.SetSink(func(frame string) { p.Send(FrameMsg(frame)) })

	if err := w.Start(ctx); err != nil {
		return err
	}

	final, err := p.Run()
	w.Stop()
	s.Close()
	loopErr := w.Wait()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if m, ok := final.(model); ok && m.err != nil {
		return m.err
	}
	return loopErr
}
