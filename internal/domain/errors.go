package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrPromptInFlight rejects a prompt submission while another prompt
	// call is outstanding. Responses are not correlated to requests, so a
	// second call could overwrite a newer prompt with a stale one.
	ErrPromptInFlight = errors.New("prompt generation already in progress")
	// ErrImageInFlight is the same guard for image generation.
	ErrImageInFlight = errors.New("image generation already in progress")
)

// ValidationError reports a precondition that failed locally. No remote call
// is attempted and no state changes when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// RemoteCallError wraps a failure from one of the remote collaborators
// (prompt service, image service, record store).
type RemoteCallError struct {
	Op  string
	Err error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteCallError) Unwrap() error { return e.Err }

// PartialSaveError signals that image generation succeeded but persisting the
// record failed. The generated image is kept and shown; only the history write
// (and therefore the gallery refresh) is missing. Deliberate policy, not a bug.
type PartialSaveError struct {
	Err error
}

func (e *PartialSaveError) Error() string {
	return fmt.Sprintf("image generated but record not saved: %v", e.Err)
}

func (e *PartialSaveError) Unwrap() error { return e.Err }
