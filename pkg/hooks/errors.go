package hooks

import (
	"fmt"

	"github.com/glorpus-work/narget/pkg/errors"
)

// Common hooks errors.
var (
	// ErrHookTypeEmpty is returned when a hooks type is empty.
	ErrHookTypeEmpty = fmt.Errorf("hooks type cannot be empty")

	// ErrHookExecution is returned when there's an error executing a hooks.
	ErrHookExecution = fmt.Errorf("error executing hooks")

	// ErrHookScript is returned when there's an error in a hooks script.
	ErrHookScript = fmt.Errorf("hooks script error")

	// ErrHookLoad is returned when there's an error loading a hooks.
	ErrHookLoad = fmt.Errorf("failed to load hooks")
)

// ErrUnsupportedHookType is returned when a hooks file names an unknown hooks type.
func ErrUnsupportedHookType(hookType string) error {
	return errors.Wrapf(ErrHookLoad, "unsupported hooks type: %s", hookType)
}
