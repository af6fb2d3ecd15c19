package genclient

import (
	"errors"
	"fmt"
)

// ErrExhausted is the terminal failure returned once every attempt has failed.
var ErrExhausted = errors.New("failed to generate content after multiple retries")

// ErrMalformedResponse marks a response that parsed but did not carry
// candidates[0].content.parts[0].text.
var ErrMalformedResponse = errors.New("unexpected API response structure")

// StatusError is returned by a transport when the remote answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API call failed with status: %d: %s", e.Code, e.Body)
}

// ExhaustedError carries the attempt count and the last per-attempt error
// for logging. It matches ErrExhausted under errors.Is and nothing else, so
// callers cannot mistake it for a transient failure.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s (%d attempts, last error: %v)", ErrExhausted, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return ErrExhausted }
