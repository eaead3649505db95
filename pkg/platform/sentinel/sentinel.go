// Package sentinel holds the storage-level facts that services translate
// into client-facing errors. Callers wrap them with fmt.Errorf("...: %w").
package sentinel

import "errors"

var (
	// ErrNotFound means no row matched the identifier.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState means a staged write cannot apply to the entity as given,
	// such as an update of a never-persisted row.
	ErrInvalidState = errors.New("invalid state")
)
