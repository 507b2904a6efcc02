// Package history persists solved case results so successive runs can be
// compared.
package history

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one solved case.
type Record struct {
	RunID          string
	Phase          string
	Condition      string
	Iterations     int
	Conversion     float64
	CostUSDPerYear float64
	Time           time.Time
}

// SQLiteStore persists run records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS runs (
        run_id TEXT PRIMARY KEY,
        phase TEXT,
        condition TEXT,
        iterations INTEGER,
        conversion REAL,
        cost_usd_per_yr REAL,
        created_at INTEGER
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Add inserts or replaces the run record.
func (s *SQLiteStore) Add(r Record) error {
	_, err := s.db.Exec(`INSERT INTO runs
        (run_id, phase, condition, iterations, conversion, cost_usd_per_yr, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(run_id) DO UPDATE SET
            phase = excluded.phase,
            condition = excluded.condition,
            iterations = excluded.iterations,
            conversion = excluded.conversion,
            cost_usd_per_yr = excluded.cost_usd_per_yr,
            created_at = excluded.created_at`,
		r.RunID, r.Phase, r.Condition, r.Iterations, r.Conversion, r.CostUSDPerYear, r.Time.Unix())
	return err
}

// Recent returns the latest n records, newest first.
func (s *SQLiteStore) Recent(n int) ([]Record, error) {
	rows, err := s.db.Query(`SELECT run_id, phase, condition, iterations, conversion, cost_usd_per_yr, created_at
        FROM runs ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Record
	for rows.Next() {
		var r Record
		var ts int64
		if err := rows.Scan(&r.RunID, &r.Phase, &r.Condition, &r.Iterations, &r.Conversion, &r.CostUSDPerYear, &ts); err != nil {
			return nil, err
		}
		r.Time = time.Unix(ts, 0).UTC()
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
