// internal/console/prompt.go
package console

import (
	"context"

	"github.com/pterm/pterm"
)

// Prompter asks the person at the terminal to pick one option.
type Prompter interface {
	Select(ctx context.Context, title string, options []string) (string, error)
}

// PtermPrompter shows pterm's interactive select.
type PtermPrompter struct{}

type selection struct {
	choice string
	err    error
}

// Select blocks until an option is chosen or ctx is done. A cancelled prompt stays on
// screen until the next key press.
func (PtermPrompter) Select(ctx context.Context, title string, options []string) (string, error) {
	done := make(chan selection, 1)
	go func() {
		choice, err := pterm.DefaultInteractiveSelect.
			WithDefaultText(title).
			WithOptions(options).
			WithMaxHeight(len(options)).
			Show()
		done <- selection{choice, err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case s := <-done:
		return s.choice, s.err
	}
}
