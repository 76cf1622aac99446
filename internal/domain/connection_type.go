package domain

import (
	"fmt"
)

// ConnectionType is the closed set of connection kinds the catalog knows how
// to describe.  The stored column holds the canonical uppercase name.
type ConnectionType string

const (
	Upload   ConnectionType = "UPLOAD"
	File     ConnectionType = "FILE"
	Database ConnectionType = "DATABASE"
	Table    ConnectionType = "TABLE"
	S3       ConnectionType = "S3"
	GCS      ConnectionType = "GCS"
	ADLS     ConnectionType = "ADLS"
	Kafka    ConnectionType = "KAFKA"
)

var knownConnectionTypes = map[ConnectionType]struct{}{
	Upload:   {},
	File:     {},
	Database: {},
	Table:    {},
	S3:       {},
	GCS:      {},
	ADLS:     {},
	Kafka:    {},
}

func (ct ConnectionType) String() string {
	return string(ct)
}

// ParseConnectionType maps a stored type name back onto the closed set.  The
// lookup is an exact match - the set of valid types is fixed, so an
// unrecognized value means the stored row is bad, not that a new type showed
// up.
func ParseConnectionType(value string) (ConnectionType, error) {
	ct := ConnectionType(value)
	if _, ok := knownConnectionTypes[ct]; !ok {
		return "", fmt.Errorf("unknown connection type '%s'", value)
	}
	return ct, nil
}
