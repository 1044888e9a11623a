package screening

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every ValidationError.
var ErrInvalidInput = errors.New("invalid input")

const (
	msgNoResumes = "please upload at least one resume file"
	msgNoJob     = "please enter the job description"
)

// ValidationError rejects a request before any resume is processed.
// Message is meant to be shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Failure is a resume that could not be read. The rest of the batch is unaffected.
type Failure struct {
	Filename string
	Err      error
}
