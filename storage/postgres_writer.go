package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"berlin-bridges/models"
)

const catalogColumns = 11

// PostgresWriter persists the flattened bridge catalog to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS bridges (
			id              SERIAL PRIMARY KEY,
			run_id          UUID,
			dataset         VARCHAR(20)   NOT NULL,
			section         VARCHAR(40)   NOT NULL DEFAULT '',
			district        TEXT          NOT NULL DEFAULT '',
			name            TEXT          NOT NULL DEFAULT '',
			lat             DOUBLE PRECISION,
			lon             DOUBLE PRECISION,
			coord_source    TEXT          NOT NULL DEFAULT '',
			status          VARCHAR(30)   NOT NULL DEFAULT '',
			damage_category VARCHAR(30)   NOT NULL DEFAULT '',
			cost_millions   NUMERIC(12,2),
			created_at      TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_bridges_run      ON bridges(run_id);
		CREATE INDEX IF NOT EXISTS idx_bridges_dataset  ON bridges(dataset);
		CREATE INDEX IF NOT EXISTS idx_bridges_district ON bridges(district);
		CREATE INDEX IF NOT EXISTS idx_bridges_status   ON bridges(status);
		CREATE INDEX IF NOT EXISTS idx_bridges_damage   ON bridges(damage_category);
	`)
	return err
}

// Write replaces the stored catalog with entries in a single transaction.
func (pw *PostgresWriter) Write(ctx context.Context, entries []*models.CatalogEntry) error {
	tx, err := pw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM bridges"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(entries); i += batchSize {
		end := min(i+batchSize, len(entries))
		if err := insertBatch(ctx, tx, entries[i:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, batch []*models.CatalogEntry) error {
	query, args := buildInsert(batch)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

func buildInsert(batch []*models.CatalogEntry) (string, []any) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*catalogColumns)

	for idx, e := range batch {
		base := idx * catalogColumns
		placeholders := make([]string, catalogColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			nullString(e.RunID), e.Dataset, e.Section, e.District, e.Name, e.Lat, e.Lon,
			e.CoordSource, string(e.Status), string(e.DamageCategory), e.CostMillions)
	}

	query := fmt.Sprintf(`
		INSERT INTO bridges (run_id, dataset, section, district, name, lat, lon, coord_source, status, damage_category, cost_millions)
		VALUES %s
	`, strings.Join(valueStrings, ","))
	return query, valueArgs
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves the stored catalog, used by the summary report.
func (pw *PostgresWriter) FetchAll(ctx context.Context) ([]*models.CatalogEntry, error) {
	rows, err := pw.db.QueryContext(ctx, `
		SELECT id, COALESCE(run_id::text, ''), dataset, section, district, name, lat, lon, coord_source,
		       status, damage_category, cost_millions, created_at
		FROM bridges
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var entries []*models.CatalogEntry
	for rows.Next() {
		e := &models.CatalogEntry{}
		var lat, lon, cost sql.NullFloat64
		var status, damage string
		if err := rows.Scan(
			&e.ID, &e.RunID, &e.Dataset, &e.Section, &e.District, &e.Name, &lat, &lon,
			&e.CoordSource, &status, &damage, &cost, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		e.Lat = nullFloat(lat)
		e.Lon = nullFloat(lon)
		e.CostMillions = nullFloat(cost)
		e.Status = models.Status(status)
		e.DamageCategory = models.DamageCategory(damage)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
