package scene

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownFormat is returned for scene files with an unsupported
	// extension.
	ErrUnknownFormat = errors.New("unknown scene format")

	// ErrInvalid matches every ValidationError.
	ErrInvalid = errors.New("invalid scene")
)

// ParseError wraps a decode failure with the file it came from.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing scene %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Issue is one problem found in a scene.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string { return i.Path + ": " + i.Message }

// ValidationError lists every problem found in a scene.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.String()
	}
	return fmt.Sprintf("invalid scene: %s", strings.Join(parts, "; "))
}

// Is makes every ValidationError match ErrInvalid.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }
