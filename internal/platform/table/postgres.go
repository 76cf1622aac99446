package table

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/RedHatInsights/connection-catalog/internal/platform/logger"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

// PostgresTable implements the Table contract on top of the connections
// table managed by the db/migrations scripts.
type PostgresTable struct {
	database     *sql.DB
	queryTimeout time.Duration
}

func NewPostgresTable(database *sql.DB, queryTimeout time.Duration) *PostgresTable {
	return &PostgresTable{
		database:     database,
		queryTimeout: queryTimeout,
	}
}

func (pt *PostgresTable) Upsert(ctx context.Context, row Row) error {

	ctx, cancel := context.WithTimeout(ctx, pt.queryTimeout)
	defer cancel()

	statement, err := pt.database.Prepare(
		`INSERT INTO connections (namespace, id, type, name, description, properties, created, updated)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
            ON CONFLICT (namespace, id) DO UPDATE SET
                type = EXCLUDED.type,
                name = EXCLUDED.name,
                description = EXCLUDED.description,
                properties = EXCLUDED.properties,
                created = EXCLUDED.created,
                updated = EXCLUDED.updated`)
	if err != nil {
		logger.LogError("SQL Prepare failed", err)
		return err
	}
	defer statement.Close()

	_, err = statement.ExecContext(ctx, row.Namespace, row.ID, row.Type, row.Name,
		row.Description, row.Properties, row.Created, row.Updated)
	if err != nil {
		logger.LogError("SQL upsert failed", err)
		return err
	}

	return nil
}

func (pt *PostgresTable) Insert(ctx context.Context, row Row) error {

	ctx, cancel := context.WithTimeout(ctx, pt.queryTimeout)
	defer cancel()

	statement, err := pt.database.Prepare(
		`INSERT INTO connections (namespace, id, type, name, description, properties, created, updated)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		logger.LogError("SQL Prepare failed", err)
		return err
	}
	defer statement.Close()

	_, err = statement.ExecContext(ctx, row.Namespace, row.ID, row.Type, row.Name,
		row.Description, row.Properties, row.Created, row.Updated)
	if err != nil {
		var pqError *pq.Error
		if errors.As(err, &pqError) && string(pqError.Code) == pgerrcode.UniqueViolation {
			return ErrRowExists
		}
		logger.LogError("SQL insert failed", err)
		return err
	}

	return nil
}

func (pt *PostgresTable) Read(ctx context.Context, key Key) (Row, bool, error) {

	var row Row

	ctx, cancel := context.WithTimeout(ctx, pt.queryTimeout)
	defer cancel()

	statement, err := pt.database.Prepare(
		`SELECT namespace, id, type, name, description, properties, created, updated
            FROM connections WHERE namespace = $1 AND id = $2`)
	if err != nil {
		logger.LogError("SQL Prepare failed", err)
		return row, false, err
	}
	defer statement.Close()

	var description sql.NullString
	var properties sql.NullString

	err = statement.QueryRowContext(ctx, key.Namespace, key.ID).Scan(
		&row.Namespace, &row.ID, &row.Type, &row.Name, &description, &properties,
		&row.Created, &row.Updated)
	if err != nil {
		if err == sql.ErrNoRows {
			return row, false, nil
		}
		logger.LogError("SQL query failed", err)
		return row, false, err
	}

	if description.Valid {
		row.Description = description.String
	}

	if properties.Valid {
		row.Properties = properties.String
	}

	return row, true, nil
}

func (pt *PostgresTable) Delete(ctx context.Context, key Key) error {

	ctx, cancel := context.WithTimeout(ctx, pt.queryTimeout)
	defer cancel()

	statement, err := pt.database.Prepare("DELETE FROM connections WHERE namespace = $1 AND id = $2")
	if err != nil {
		logger.LogError("SQL Prepare failed", err)
		return err
	}
	defer statement.Close()

	_, err = statement.ExecContext(ctx, key.Namespace, key.ID)
	if err != nil {
		logger.LogError("SQL delete failed", err)
		return err
	}

	return nil
}

func (pt *PostgresTable) Scan(ctx context.Context, namespace string) (Iterator, error) {

	ctx, cancel := context.WithTimeout(ctx, pt.queryTimeout)

	statement, err := pt.database.Prepare(
		`SELECT namespace, id, type, name, description, properties, created, updated
            FROM connections WHERE namespace = $1 ORDER BY id`)
	if err != nil {
		cancel()
		logger.LogError("SQL Prepare failed", err)
		return nil, err
	}

	rows, err := statement.QueryContext(ctx, namespace)
	if err != nil {
		statement.Close()
		cancel()
		logger.LogError("SQL query failed", err)
		return nil, err
	}

	return &postgresIterator{
		statement: statement,
		rows:      rows,
		cancel:    cancel,
	}, nil
}

type postgresIterator struct {
	statement *sql.Stmt
	rows      *sql.Rows
	cancel    context.CancelFunc
	current   Row
	err       error
}

func (it *postgresIterator) Next() bool {
	if !it.rows.Next() {
		return false
	}

	var row Row
	var description sql.NullString
	var properties sql.NullString

	err := it.rows.Scan(&row.Namespace, &row.ID, &row.Type, &row.Name, &description,
		&properties, &row.Created, &row.Updated)
	if err != nil {
		it.err = err
		return false
	}

	if description.Valid {
		row.Description = description.String
	}

	if properties.Valid {
		row.Properties = properties.String
	}

	it.current = row
	return true
}

func (it *postgresIterator) Row() Row {
	return it.current
}

func (it *postgresIterator) Err() error {
	if it.err != nil {
		return it.err
	}
	return it.rows.Err()
}

func (it *postgresIterator) Close() error {
	defer it.cancel()
	err := it.rows.Close()
	if closeErr := it.statement.Close(); err == nil {
		err = closeErr
	}
	return err
}
