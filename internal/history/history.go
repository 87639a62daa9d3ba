// Package history persists recently picked date ranges so the suggest
// selector can offer them back as completions.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	_ "modernc.org/sqlite"

	"tuikit.dev/almanac/dateutil"
	"tuikit.dev/almanac/internal/logger"
	"tuikit.dev/almanac/internal/perf"
)

// slowQueryMs is the threshold for slow-query warnings.
const slowQueryMs = 50

const schema = `
CREATE TABLE IF NOT EXISTS selections (
    id TEXT PRIMARY KEY,
    label TEXT NOT NULL,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    selected_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_selections_selected_at ON selections(selected_at);
`

// Selection is one remembered pick.
type Selection struct {
	ID         string
	Label      string
	Value      dateutil.Range
	SelectedAt time.Time
}

// Store wraps the selections database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the selections database at path.
func Open(path string) (*Store, error) {
	// WAL mode for better concurrent access.
	db, err := sql.Open("sqlite", path+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record saves a picked range under a display label and returns the stored
// selection.
func (s *Store) Record(value dateutil.Range, label string) (*Selection, error) {
	defer perf.NewTimer("history_record", logger.Get(), slowQueryMs).Stop()

	sel := &Selection{
		ID:         xid.New().String(),
		Label:      label,
		Value:      value,
		SelectedAt: s.now(),
	}

	_, err := s.db.Exec(`
		INSERT INTO selections (id, label, start_date, end_date, selected_at)
		VALUES (?, ?, ?, ?, ?)
	`, sel.ID, sel.Label, textOrEmpty(value.Start), textOrEmpty(value.End), sel.SelectedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to record selection: %w", err)
	}
	return sel, nil
}

// Recent returns the newest selections, most recent first.
func (s *Store) Recent(limit int) ([]Selection, error) {
	defer perf.NewTimer("history_recent", logger.Get(), slowQueryMs).Stop()

	rows, err := s.db.Query(`
		SELECT id, label, start_date, end_date, selected_at
		FROM selections ORDER BY selected_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list selections: %w", err)
	}
	defer rows.Close()

	var out []Selection
	for rows.Next() {
		var sel Selection
		var start, end string
		var at int64
		if err := rows.Scan(&sel.ID, &sel.Label, &start, &end, &at); err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		if sel.Value.Start, err = timeFromText(start); err != nil {
			return nil, fmt.Errorf("failed to parse selection start: %w", err)
		}
		if sel.Value.End, err = timeFromText(end); err != nil {
			return nil, fmt.Errorf("failed to parse selection end: %w", err)
		}
		sel.SelectedAt = time.Unix(at, 0)
		out = append(out, sel)
	}
	return out, rows.Err()
}

// Delete removes one selection by ID.
func (s *Store) Delete(id string) error {
	_, err := s.db.Exec("DELETE FROM selections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete selection: %w", err)
	}
	return nil
}

// Prune drops everything but the newest limit selections.
func (s *Store) Prune(limit int) error {
	_, err := s.db.Exec(`
		DELETE FROM selections WHERE id NOT IN (
			SELECT id FROM selections ORDER BY selected_at DESC, id DESC LIMIT ?
		)
	`, limit)
	if err != nil {
		return fmt.Errorf("failed to prune selections: %w", err)
	}
	return nil
}

// Boundaries are stored as RFC 3339 text. The offset in the text keeps the
// calendar day stable across restarts in any zone; an empty string marks an
// unset boundary.
func textOrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func timeFromText(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
