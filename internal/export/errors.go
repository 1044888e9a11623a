package export

import (
	"errors"
	"fmt"
)

// ErrExport matches every error returned while writing an export artifact.
var ErrExport = errors.New("export failed")

// Error reports a failed write of the artifact at Path.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("exporting results to %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrExport
}
