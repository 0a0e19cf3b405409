package launch

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the launch table has no entry for the id.
	ErrNotFound = errors.New("launch descriptor not found")
	// ErrEmptyPath is returned when the descriptor has no executable path.
	ErrEmptyPath = errors.New("launch path is empty")
)

// SpawnError reports a failed process start.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ArgsError reports an argument string that cannot be tokenized.
type ArgsError struct {
	Args string
	Err  error
}

func (e *ArgsError) Error() string {
	return fmt.Sprintf("parse args %q: %v", e.Args, e.Err)
}

func (e *ArgsError) Unwrap() error { return e.Err }
