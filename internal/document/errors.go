package document

import (
	"errors"
	"fmt"
)

// ErrDocumentRead is matched by every error returned when a resume document cannot be read.
var ErrDocumentRead = errors.New("document read failed")

// ReadError describes a document that is missing, corrupt or of an unsupported type.
type ReadError struct {
	Path string
	Type Type
	Err  error
}

func (e *ReadError) Error() string {
	if e.Type == TypeUnknown {
		return fmt.Sprintf("%s: %s: %v", ErrDocumentRead, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s (%s): %v", ErrDocumentRead, e.Path, e.Type, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

func (e *ReadError) Is(target error) bool {
	return target == ErrDocumentRead
}
