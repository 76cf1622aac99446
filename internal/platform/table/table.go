package table

import (
	"context"
	"errors"
)

// ErrRowExists is returned by Insert when a row already occupies the key.
var ErrRowExists = errors.New("table: row already exists")

// Key is the primary key of the connections table.
type Key struct {
	Namespace string
	ID        string
}

// Row is one row of the connections table.  Properties holds the opaque
// serialized form of the connection properties map.
type Row struct {
	Namespace   string
	ID          string
	Type        string
	Name        string
	Description string
	Properties  string
	Created     int64
	Updated     int64
}

func (r Row) Key() Key {
	return Key{Namespace: r.Namespace, ID: r.ID}
}

// Iterator walks the rows produced by a scan.  Close must be called once the
// caller is done with the iterator, whether or not the scan completed.
type Iterator interface {
	Next() bool
	Row() Row
	Err() error
	Close() error
}

// Table is the keyed storage capability the connection store is built on.
// Individual operations are atomic per key; nothing spans keys.
type Table interface {
	// Upsert writes or fully replaces the row at its key.
	Upsert(ctx context.Context, row Row) error

	// Insert writes the row only if the key is vacant.  An occupied key
	// fails with ErrRowExists.
	Insert(ctx context.Context, row Row) error

	// Read performs a point lookup.  Absence is a normal outcome, reported
	// through the bool rather than an error.
	Read(ctx context.Context, key Key) (Row, bool, error)

	// Delete removes the row at the key.  Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key Key) error

	// Scan iterates all rows in the given namespace.  The ordering is
	// storage defined.
	Scan(ctx context.Context, namespace string) (Iterator, error)
}
