package mapsheet

import (
	"errors"
	"fmt"
)

// Sentinel errors for common export failure conditions.
var (
	ErrInvalidTemplate   = errors.New("mapsheet: invalid template")
	ErrMissingMapElement = errors.New("mapsheet: template has no visible map element")
	ErrExportInProgress  = errors.New("mapsheet: an export is already running on this engine")
	ErrUnknownFormat     = errors.New("mapsheet: unknown output format")
)

// ExportError represents an error that occurred during a specific export stage.
// It wraps an underlying error and includes the operation name for context.
type ExportError struct {
	Op  string // operation name, e.g. "ResolveExportArea", "EncodePDF"
	Err error  // underlying error
}

func (e *ExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mapsheet.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("mapsheet.%s: unknown error", e.Op)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// newExportError creates a new ExportError wrapping the given error with operation context.
func newExportError(op string, err error) *ExportError {
	return &ExportError{Op: op, Err: err}
}
