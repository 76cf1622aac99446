package connection_repository

import (
	"encoding/json"

	"github.com/RedHatInsights/connection-catalog/internal/domain"
	"github.com/RedHatInsights/connection-catalog/internal/platform/table"
)

func connectionToRow(connection domain.Connection) (table.Row, error) {

	serializedProperties, err := json.Marshal(connection.Properties)
	if err != nil {
		return table.Row{}, err
	}

	return table.Row{
		Namespace:   connection.Namespace.String(),
		ID:          connection.ID.String(),
		Type:        connection.Type.String(),
		Name:        connection.Name,
		Description: connection.Description,
		Properties:  string(serializedProperties),
		Created:     connection.Created,
		Updated:     connection.Updated,
	}, nil
}

func connectionFromRow(row table.Row) (domain.Connection, error) {

	connectionType, err := domain.ParseConnectionType(row.Type)
	if err != nil {
		return domain.Connection{}, &CorruptRowError{Key: row.Key(), Cause: err}
	}

	var properties domain.Properties
	if row.Properties != "" {
		if err := json.Unmarshal([]byte(row.Properties), &properties); err != nil {
			return domain.Connection{}, &CorruptRowError{Key: row.Key(), Cause: err}
		}
	}

	return domain.Connection{
		NamespacedID: domain.NamespacedID{
			Namespace: domain.Namespace(row.Namespace),
			ID:        domain.ConnectionID(row.ID),
		},
		Type:        connectionType,
		Name:        row.Name,
		Description: row.Description,
		Properties:  properties,
		Created:     row.Created,
		Updated:     row.Updated,
	}, nil
}
