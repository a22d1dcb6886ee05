package vault

import (
	"errors"
	"fmt"
)

var (
	// ErrLocked means the document is encrypted and no valid session key is held.
	// Read returns the still-sealed document alongside it.
	ErrLocked = errors.New("vault is locked")
	// ErrMalformedDocument means stored or imported bytes are not a JSON document
	ErrMalformedDocument = errors.New("malformed document")
	// ErrSchemaMismatch means the JSON parsed but is not a valid document
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrUnsupportedVersion means the document was written by a newer build
	ErrUnsupportedVersion = errors.New("unsupported document version")
	// ErrImport matches every *ImportError
	ErrImport = errors.New("import failed")
)

// ImportError describes why a payload could not be imported
type ImportError struct {
	Reason string
	Err    error
}

// NewImportError wraps err with a user-facing reason
func NewImportError(reason string, err error) *ImportError {
	return &ImportError{Reason: reason, Err: err}
}

func (e *ImportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("import failed: %s", e.Reason)
	}
	return fmt.Sprintf("import failed: %s: %v", e.Reason, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrImport) match any ImportError
func (e *ImportError) Is(target error) bool {
	return target == ErrImport
}
