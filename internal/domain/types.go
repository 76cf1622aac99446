package domain

type Namespace string

func (n Namespace) String() string {
	return string(n)
}

type ConnectionID string

func (cid ConnectionID) String() string {
	return string(cid)
}

// NamespacedID identifies a connection within a namespace.  The pair is the
// primary key of the connections table.
type NamespacedID struct {
	Namespace Namespace
	ID        ConnectionID
}

type Properties map[string]string

// ConnectionMeta carries the caller supplied portion of a connection.  The id
// and the timestamps are owned by the store.
type ConnectionMeta struct {
	Name        string
	Type        ConnectionType
	Description string
	Properties  Properties
}

// Connection is the fully materialized connection record.
type Connection struct {
	NamespacedID
	Type        ConnectionType
	Name        string
	Description string
	Properties  Properties
	Created     int64
	Updated     int64
}

func (c Connection) Meta() ConnectionMeta {
	return ConnectionMeta{
		Name:        c.Name,
		Type:        c.Type,
		Description: c.Description,
		Properties:  c.Properties,
	}
}
