package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vidinfra/tenbyte-userdata/pkg/clipboard"
	"github.com/vidinfra/tenbyte-userdata/pkg/config"
)

// Program wraps the Bubble Tea program.
type Program struct {
	model Model
}

// NewProgram creates a new TUI program seeded with r.
func NewProgram(ctx context.Context, r config.Record, copier *clipboard.Copier) *Program {
	return &Program{model: NewModel(ctx, r, copier)}
}

// Run starts the TUI and blocks until the operator quits. It returns the
// final record.
func (p *Program) Run(ctx context.Context) (config.Record, error) {
	prog := tea.NewProgram(p.model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		return p.model.record, fmt.Errorf("tui failed: %w", err)
	}
	if m, ok := final.(Model); ok {
		p.model = m
	}
	return p.model.record, nil
}
