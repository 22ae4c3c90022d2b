package reddit

import (
	"errors"
	"fmt"
)

// ErrCircuitOpen is returned without dispatching when the upstream circuit
// breaker is open. Callers should treat it as a temporary outage.
var ErrCircuitOpen = errors.New("upstream circuit open")

// TransientError is a retryable upstream failure: a network error, a 5xx
// response, or a 429. It only reaches callers once retries are exhausted.
type TransientError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: upstream returned %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError is a non-retryable upstream failure (4xx other than 429).
// It is surfaced immediately.
type PermanentError struct {
	Op         string
	StatusCode int
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("%s: upstream returned %d", e.Op, e.StatusCode)
}

// MalformedResponseError indicates that an upstream payload could not be
// parsed by the strict decoder nor by the tolerant fallback.
type MalformedResponseError struct {
	Op  string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed upstream response: %v", e.Op, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
