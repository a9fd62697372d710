package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

//nolint:gochecknoglobals // Sentinel errors
var (
	// ErrGenerationFailed is returned when no attempt produced usable content.
	ErrGenerationFailed = errors.New("cover letter generation failed")
	// ErrUnusableCompletion marks a completion that parsed to too little text.
	ErrUnusableCompletion = errors.New("unusable completion")
	// ErrInvalidRequest marks a request or generator that can never succeed.
	ErrInvalidRequest = errors.New("invalid generation request")
)

// GenerationError reports that every attempt failed to produce content. It
// matches ErrGenerationFailed and unwraps to the last attempt's failure.
type GenerationError struct {
	Attempts int
	Last     error
}

// Error implements error.
func (e *GenerationError) Error() (msg string) {
	msg = fmt.Sprintf("%s after %d attempts: %v", ErrGenerationFailed, e.Attempts, e.Last)
	return msg
}

// Unwrap returns the last attempt's failure.
func (e *GenerationError) Unwrap() (err error) {
	err = e.Last
	return err
}

// Is matches ErrGenerationFailed.
func (e *GenerationError) Is(target error) (match bool) {
	match = target == ErrGenerationFailed
	return match
}
