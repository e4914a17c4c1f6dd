package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the screen and blocks until the user quits or a storage
// failure arrives on opt.Errors, which is returned.
func Run(ctx context.Context, ctrl Controller, opt Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(ctx, ctrl, opt), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}
