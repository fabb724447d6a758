package output

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/huh"
)

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, question string) (bool, error)

// Confirm implements Prompter.
func (f PrompterFunc) Confirm(ctx context.Context, question string) (bool, error) {
	return f(ctx, question)
}

// Answer returns a Prompter that always gives the same answer.
func Answer(yes bool) Prompter {
	return PrompterFunc(func(context.Context, string) (bool, error) { return yes, nil })
}

// HuhPrompter asks through a huh confirm form. Accessible mode reads plain
// lines and is meant for input that is not a terminal.
type HuhPrompter struct {
	In         io.Reader
	Out        io.Writer
	Accessible bool
}

// Confirm implements Prompter. The default answer is no; aborting the form
// also counts as no.
func (p *HuhPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	var yes bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(question).
			Affirmative("Yes").
			Negative("No").
			Value(&yes),
	)).WithAccessible(p.Accessible).WithShowHelp(false)
	if p.In != nil {
		form = form.WithInput(p.In)
	}
	if p.Out != nil {
		form = form.WithOutput(p.Out)
	}

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return yes, nil
}
