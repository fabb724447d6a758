package gitbump

import (
	"errors"
	"fmt"
)

// ErrCanceled is returned when the user declines the confirmation prompt.
var ErrCanceled = errors.New("canceled by user")

// SameVersionError is returned when the new version equals the current one.
type SameVersionError struct {
	Version string
}

func (e *SameVersionError) Error() string {
	return fmt.Sprintf("new version %s is the same as the current version", e.Version)
}
