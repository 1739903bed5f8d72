// Package prompt asks the operator to confirm destructive CLI actions.
package prompt

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user interrupts a prompt with Ctrl+C.
var ErrAborted = errors.New("aborted")

// runner is swapped in tests; promptui needs a terminal.
var runner = func(p *promptui.Prompt) (string, error) {
	return p.Run()
}

// Confirm asks a yes/no question defaulting to no.
func Confirm(label string) (bool, error) {
	p := &promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := runner(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrInterrupt):
		return false, ErrAborted
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	default:
		return false, fmt.Errorf("prompt failed: %w", err)
	}
}

// ConfirmWithForce returns true immediately if force is true,
// otherwise prompts for confirmation.
func ConfirmWithForce(label string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	return Confirm(label)
}
