package n64tex

import (
	"errors"
	"fmt"

	"github.com/bodgit/n64tex/format"
)

var (
	// ErrUnknownFormat is returned when the requested texture format isn't
	// one of the catalog profiles.
	ErrUnknownFormat = format.ErrUnknownFormat

	// ErrInvalidParameters is returned when a conversion parameter is out of
	// range.
	ErrInvalidParameters = errors.New("n64tex: invalid parameters")

	// ErrDuplicateOutput is returned when two sources in a batch would be
	// written to the same output file.
	ErrDuplicateOutput = errors.New("n64tex: output already written by another source")
)

// DecodeError records a source file that couldn't be read as an image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("n64tex: decoding %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// WriteError records an output file that couldn't be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("n64tex: writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
