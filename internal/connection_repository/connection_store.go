package connection_repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/RedHatInsights/connection-catalog/internal/domain"
	"github.com/RedHatInsights/connection-catalog/internal/platform/logger"
	"github.com/RedHatInsights/connection-catalog/internal/platform/table"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var connectionIdScrubber = regexp.MustCompile("[^a-z0-9_]")

// DeriveConnectionID computes the connection id for a display name.  The name
// is trimmed, lowercased and every remaining character outside [a-z0-9_] is
// replaced with an underscore.  Two display names that collapse to the same
// id are duplicates of each other.
func DeriveConnectionID(name string) domain.ConnectionID {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	name = connectionIdScrubber.ReplaceAllString(name, "_")
	return domain.ConnectionID(name)
}

// ConnectionStore manages the lifecycle of connection records.  It is the
// exclusive owner of the rows in the connections table - callers never touch
// the table directly.  The store itself is stateless; concurrency is
// delegated to the per key atomicity of the underlying table.
type ConnectionStore struct {
	table   table.Table
	nowFunc func() time.Time
}

func NewConnectionStore(tbl table.Table) *ConnectionStore {
	return &ConnectionStore{
		table:   tbl,
		nowFunc: time.Now,
	}
}

// Create derives the connection id from the display name and writes a new
// row, failing with ConnectionAlreadyExistsError if the (namespace, id) pair
// is already taken.  The existence check feeds the error message; the write
// itself is a conditional insert, so a concurrent duplicate create loses
// with the same error instead of silently overwriting.
func (cs *ConnectionStore) Create(ctx context.Context, namespace domain.Namespace, meta domain.ConnectionMeta) (domain.NamespacedID, error) {

	callDurationTimer := prometheus.NewTimer(metrics.createConnectionDuration)
	defer callDurationTimer.ObserveDuration()

	id := domain.NamespacedID{Namespace: namespace, ID: DeriveConnectionID(meta.Name)}

	log := logger.Log.WithFields(logrus.Fields{"namespace": namespace, "connection_id": id.ID})

	_, found, err := cs.table.Read(ctx, tableKey(id))
	if err != nil {
		return domain.NamespacedID{}, err
	}
	if found {
		return domain.NamespacedID{}, &ConnectionAlreadyExistsError{Name: meta.Name, ID: id.ID}
	}

	now := cs.nowFunc().Unix()

	connection := domain.Connection{
		NamespacedID: id,
		Type:         meta.Type,
		Name:         meta.Name,
		Description:  meta.Description,
		Properties:   meta.Properties,
		Created:      now,
		Updated:      now,
	}

	row, err := connectionToRow(connection)
	if err != nil {
		logger.LogWithError(log, "Unable to serialize connection", err)
		return domain.NamespacedID{}, err
	}

	err = cs.table.Insert(ctx, row)
	if err != nil {
		if errors.Is(err, table.ErrRowExists) {
			return domain.NamespacedID{}, &ConnectionAlreadyExistsError{Name: meta.Name, ID: id.ID}
		}
		return domain.NamespacedID{}, err
	}

	log.Debug("Created a connection")

	return id, nil
}

// Get returns the connection stored at the given key, or
// ConnectionNotFoundError if there is none.
func (cs *ConnectionStore) Get(ctx context.Context, id domain.NamespacedID) (domain.Connection, error) {

	callDurationTimer := prometheus.NewTimer(metrics.lookupConnectionDuration)
	defer callDurationTimer.ObserveDuration()

	row, found, err := cs.table.Read(ctx, tableKey(id))
	if err != nil {
		return domain.Connection{}, err
	}
	if !found {
		return domain.Connection{}, &ConnectionNotFoundError{ID: id.ID}
	}

	return connectionFromRow(row)
}

// Update replaces the mutable portion of an existing connection.  The id and
// namespace are fixed and the created timestamp is carried over; the display
// name may change but the id is never re-derived.
func (cs *ConnectionStore) Update(ctx context.Context, id domain.NamespacedID, meta domain.ConnectionMeta) error {

	callDurationTimer := prometheus.NewTimer(metrics.updateConnectionDuration)
	defer callDurationTimer.ObserveDuration()

	existing, err := cs.Get(ctx, id)
	if err != nil {
		return err
	}

	updated := domain.Connection{
		NamespacedID: id,
		Type:         meta.Type,
		Name:         meta.Name,
		Description:  meta.Description,
		Properties:   meta.Properties,
		Created:      existing.Created,
		Updated:      cs.nowFunc().Unix(),
	}

	row, err := connectionToRow(updated)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"namespace": id.Namespace, "connection_id": id.ID, "error": err}).Error("Unable to serialize connection")
		return err
	}

	return cs.table.Upsert(ctx, row)
}

// Delete removes the connection at the given key.  Deleting a connection
// that does not exist is not an error.
func (cs *ConnectionStore) Delete(ctx context.Context, id domain.NamespacedID) error {

	callDurationTimer := prometheus.NewTimer(metrics.deleteConnectionDuration)
	defer callDurationTimer.ObserveDuration()

	return cs.table.Delete(ctx, tableKey(id))
}

// ConnectionExists reports whether a connection whose display name derives to
// an occupied id already lives in the namespace.
func (cs *ConnectionStore) ConnectionExists(ctx context.Context, namespace domain.Namespace, connectionName string) (bool, error) {

	callDurationTimer := prometheus.NewTimer(metrics.lookupConnectionDuration)
	defer callDurationTimer.ObserveDuration()

	id := domain.NamespacedID{Namespace: namespace, ID: DeriveConnectionID(connectionName)}

	_, found, err := cs.table.Read(ctx, tableKey(id))
	if err != nil {
		return false, err
	}

	return found, nil
}

// List scans every connection in the namespace, materializes each row and
// returns the ones the filter accepts, in scan order.  The scan is bounded
// to the single namespace so rows from other namespaces can never leak in.
// There is no pagination - very large namespaces pay for the full scan.
func (cs *ConnectionStore) List(ctx context.Context, namespace domain.Namespace, filter Predicate) ([]domain.Connection, error) {

	callDurationTimer := prometheus.NewTimer(metrics.listConnectionsDuration)
	defer callDurationTimer.ObserveDuration()

	iterator, err := cs.table.Scan(ctx, namespace.String())
	if err != nil {
		return nil, err
	}
	defer iterator.Close()

	result := []domain.Connection{}
	for iterator.Next() {
		connection, err := connectionFromRow(iterator.Row())
		if err != nil {
			return nil, err
		}
		if filter(connection) {
			result = append(result, connection)
		}
	}

	if err := iterator.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func tableKey(id domain.NamespacedID) table.Key {
	return table.Key{
		Namespace: id.Namespace.String(),
		ID:        id.ID.String(),
	}
}
