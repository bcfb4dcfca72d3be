package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// KnownOtuDB is a sqlite-backed known-OTU store, for curated databases too
// large to re-parse from TSV on every run.
type KnownOtuDB struct {
	sqldb *sql.DB
}

const knownOtuSchema = `
CREATE TABLE IF NOT EXISTS known_otus (
	sequence TEXT PRIMARY KEY,
	taxonomy TEXT NOT NULL
);`

// OpenKnownOtuDB opens (creating the schema if needed) a known-OTU sqlite
// database. The modernc.org/sqlite driver must be registered by the caller.
func OpenKnownOtuDB(ctx context.Context, path string) (*KnownOtuDB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open known OTU database %s: %w", path, err)
	}

	if _, err := sqldb.ExecContext(ctx, knownOtuSchema); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to prepare known OTU schema: %w", err)
	}

	return &KnownOtuDB{sqldb: sqldb}, nil
}

// Put inserts or replaces the curated taxonomy for a window sequence.
func (k *KnownOtuDB) Put(ctx context.Context, sequence, taxonomy string) error {
	qstring := `INSERT OR REPLACE INTO known_otus (sequence, taxonomy) VALUES (?, ?);`

	stm, err := k.sqldb.PrepareContext(ctx, qstring)
	if err != nil {
		return err
	}
	defer stm.Close()

	if _, err := stm.ExecContext(ctx, sequence, taxonomy); err != nil {
		return fmt.Errorf("failed to store known OTU: %w", err)
	}
	return nil
}

// Taxonomy implements KnownTaxonomySource.
func (k *KnownOtuDB) Taxonomy(ctx context.Context, sequence string) (string, bool, error) {
	qstring := `SELECT taxonomy FROM known_otus WHERE sequence = ?;`

	stm, err := k.sqldb.PrepareContext(ctx, qstring)
	if err != nil {
		return "", false, err
	}
	defer stm.Close()

	var taxonomy string
	err = stm.QueryRowContext(ctx, sequence).Scan(&taxonomy)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query known OTU: %w", err)
	}

	return taxonomy, true, nil
}

// Close releases the underlying database handle.
func (k *KnownOtuDB) Close() error {
	return k.sqldb.Close()
}
