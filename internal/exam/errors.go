package exam

import (
	"errors"
	"fmt"
)

// Not-found sentinels for the two external lookups. Callers translate these
// to their transport's not-found response.
var (
	ErrExamNotFound   = errors.New("exam set not found")
	ErrResultNotFound = errors.New("result not found")
)

// ValidationError reports a malformed submission. The whole submission is
// rejected as a unit; nothing is retried.
type ValidationError struct {
	Reason string
	Index  int // 1-based index of the offending answer entry, 0 when not entry-scoped
	Entry  any // echo of the offending entry, for diagnostics
}

func (e *ValidationError) Error() string {
	if e.Index > 0 {
		return fmt.Sprintf("invalid answer format at question %d: %s", e.Index, e.Reason)
	}
	return e.Reason
}

// UpstreamError wraps a failure of an external collaborator (catalog, result
// store, inference endpoint). The wrapped error is for operators; callers
// should report it as a generic failure.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
