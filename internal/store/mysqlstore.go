package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// MySQLPersister keeps each collection as a single JSON document in a
// keyed-record table:
//
//	CREATE TABLE IF NOT EXISTS collections (
//	    name VARCHAR(64) PRIMARY KEY,
//	    doc  JSON NOT NULL,
//	    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
//	        ON UPDATE CURRENT_TIMESTAMP
//	);
//
// The whole-collection-per-row shape mirrors the JSON file layout, so
// the two backends stay interchangeable behind Persister.
type MySQLPersister struct {
	db *sql.DB
}

// NewMySQLPersister ensures the collections table exists.
func NewMySQLPersister(ctx context.Context, db *sql.DB) (*MySQLPersister, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS collections (
			name VARCHAR(64) PRIMARY KEY,
			doc JSON NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return nil, fmt.Errorf("%w: ensure collections table: %v", ErrStorageUnavailable, err)
	}
	return &MySQLPersister{db: db}, nil
}

// Save upserts the collection row.
func (p *MySQLPersister) Save(ctx context.Context, collection string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrStorageUnavailable, collection, err)
	}
	_, err = p.db.ExecContext(ctx,
		"INSERT INTO collections (name, doc) VALUES (?,?) ON DUPLICATE KEY UPDATE doc=VALUES(doc)",
		collection, doc)
	if err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrStorageUnavailable, collection, err)
	}
	return nil
}

// Load reads the collection row into v.
func (p *MySQLPersister) Load(ctx context.Context, collection string, v any) (bool, error) {
	var doc []byte
	err := p.db.QueryRowContext(ctx,
		"SELECT doc FROM collections WHERE name=? LIMIT 1", collection).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: load %s: %v", ErrStorageUnavailable, collection, err)
	}
	if err := json.Unmarshal(doc, v); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", ErrStorageUnavailable, collection, err)
	}
	return true, nil
}
