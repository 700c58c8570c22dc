// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survey

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists the harmonized long table in SQLite so downstream analysis
// can query it without re-reading the workbooks.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the database at path and ensures the schema.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS observations (
			year INTEGER NOT NULL,
			municipality_id TEXT NOT NULL,
			variable TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (year, municipality_id, variable)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_observations_variable ON observations(variable)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ReplaceYear transactionally replaces all observations of one survey year.
// Re-running harmonization is therefore idempotent per year.
func (s *Store) ReplaceYear(year int, rows []LongRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM observations WHERE year = ?`, year); err != nil {
		return fmt.Errorf("deleting old observations: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO observations (year, municipality_id, variable, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r.Year, r.UnitID, r.Variable, r.Value); err != nil {
			return fmt.Errorf("inserting observation (%d, %s, %s): %w", r.Year, r.UnitID, r.Variable, err)
		}
	}

	return tx.Commit()
}

// CountByYear returns the number of observations stored per year.
func (s *Store) CountByYear() (map[int]int, error) {
	rows, err := s.db.Query(`SELECT year, count(*) FROM observations GROUP BY year ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("querying counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var year, n int
		if err := rows.Scan(&year, &n); err != nil {
			return nil, err
		}
		counts[year] = n
	}
	return counts, rows.Err()
}

// Values returns the stored values of one variable for one year, keyed by
// municipality.
func (s *Store) Values(year int, variable string) (map[string]string, error) {
	rows, err := s.db.Query(
		`SELECT municipality_id, value FROM observations WHERE year = ? AND variable = ?`,
		year, variable)
	if err != nil {
		return nil, fmt.Errorf("querying values: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, value string
		if err := rows.Scan(&id, &value); err != nil {
			return nil, err
		}
		out[id] = value
	}
	return out, rows.Err()
}
