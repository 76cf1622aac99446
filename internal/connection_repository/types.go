package connection_repository

import (
	"context"

	"github.com/RedHatInsights/connection-catalog/internal/domain"
)

// Predicate is a caller supplied filter applied to each scanned connection.
type Predicate func(domain.Connection) bool

// AcceptAll is the predicate used when the caller wants every connection in
// the namespace.
func AcceptAll(domain.Connection) bool {
	return true
}

type ConnectionCatalog interface {
	Create(context.Context, domain.Namespace, domain.ConnectionMeta) (domain.NamespacedID, error)
	Get(context.Context, domain.NamespacedID) (domain.Connection, error)
	Update(context.Context, domain.NamespacedID, domain.ConnectionMeta) error
	Delete(context.Context, domain.NamespacedID) error
	ConnectionExists(context.Context, domain.Namespace, string) (bool, error)
	List(context.Context, domain.Namespace, Predicate) ([]domain.Connection, error)
}
