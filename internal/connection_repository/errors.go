package connection_repository

import (
	"fmt"

	"github.com/RedHatInsights/connection-catalog/internal/domain"
	"github.com/RedHatInsights/connection-catalog/internal/platform/table"
)

// ConnectionAlreadyExistsError is returned by Create when the derived id is
// already taken within the namespace.  It carries the requested display name
// and the computed id so the caller can build a user facing message.
type ConnectionAlreadyExistsError struct {
	Name string
	ID   domain.ConnectionID
}

func (e *ConnectionAlreadyExistsError) Error() string {
	return fmt.Sprintf("Connection named '%s' with id '%s' already exists.", e.Name, e.ID)
}

// ConnectionNotFoundError is returned by Get and Update when no row exists at
// the requested key.
type ConnectionNotFoundError struct {
	ID domain.ConnectionID
}

func (e *ConnectionNotFoundError) Error() string {
	return fmt.Sprintf("Connection '%s' does not exist", e.ID)
}

// CorruptRowError reports a stored row that can no longer be materialized -
// an unparseable type name or a malformed properties document.  The set of
// valid types is closed, so this is data corruption, not a recoverable
// condition.
type CorruptRowError struct {
	Key   table.Key
	Cause error
}

func (e *CorruptRowError) Error() string {
	return fmt.Sprintf("corrupt connection row at (%s, %s): %v", e.Key.Namespace, e.Key.ID, e.Cause)
}

func (e *CorruptRowError) Unwrap() error {
	return e.Cause
}
