// Package history keeps an append-only JSONL log of finished dialogs and
// queries it through DuckDB.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/strrl/ask-user/internal/db"
	"github.com/strrl/ask-user/pkg/models"
)

// ErrNotFound is returned by Get when no entry has the requested id.
var ErrNotFound = errors.New("history entry not found")

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// record is the on-disk line format.
type record struct {
	ID        string `json:"id"`
	Prompt    string `json:"prompt"`
	Status    string `json:"status"`
	Content   string `json:"content"`
	Countdown int    `json:"countdown"`
	Piped     bool   `json:"piped"`
	Directory string `json:"directory"`
	CreatedAt string `json:"created_at"`
}

// Store appends to and reads from one history file.
type Store struct {
	path string
	now  func() time.Time
}

// New returns a store backed by the JSONL file at path.
func New(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Append writes one entry, filling in ID and CreatedAt when missing.
func (s *Store) Append(entry models.HistoryEntry) (models.HistoryEntry, error) {
	if s.path == "" {
		return entry, errors.New("history path is not set")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC().Truncate(time.Microsecond)

	line, err := json.Marshal(record{
		ID:        entry.ID,
		Prompt:    entry.Prompt,
		Status:    string(entry.Status),
		Content:   entry.Content,
		Countdown: entry.Countdown,
		Piped:     entry.Piped,
		Directory: entry.Directory,
		CreatedAt: entry.CreatedAt.Format(timeLayout),
	})
	if err != nil {
		return entry, fmt.Errorf("failed to encode history entry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return entry, fmt.Errorf("failed to create history directory: %w", err)
	}
	err = withLock(s.path, func() error {
		f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open history file: %w", err)
		}
		defer f.Close()

		if _, err := f.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("failed to write history entry: %w", err)
		}
		return nil
	})
	return entry, err
}

// Recent returns up to limit entries, newest first. A missing file is empty.
func (s *Store) Recent(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	if !s.exists() {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	database, err := db.GetDB()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`%s ORDER BY created_at DESC LIMIT ?`, s.selectFrom())

	var entries []models.HistoryEntry
	err = withReadLock(s.path, func() error {
		rows, err := database.QueryContext(ctx, query, limit)
		if err != nil {
			return fmt.Errorf("failed to execute history query: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			entry, err := scanEntry(rows)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Get returns the entry with the given id.
func (s *Store) Get(ctx context.Context, id string) (models.HistoryEntry, error) {
	if !s.exists() {
		return models.HistoryEntry{}, ErrNotFound
	}

	database, err := db.GetDB()
	if err != nil {
		return models.HistoryEntry{}, err
	}

	query := fmt.Sprintf(`%s WHERE id = ? LIMIT 1`, s.selectFrom())

	var entry models.HistoryEntry
	err = withReadLock(s.path, func() error {
		rows, err := database.QueryContext(ctx, query, id)
		if err != nil {
			return fmt.Errorf("failed to execute history query: %w", err)
		}
		defer rows.Close()

		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return err
			}
			return ErrNotFound
		}
		entry, err = scanEntry(rows)
		return err
	})
	return entry, err
}

func (s *Store) exists() bool {
	if s.path == "" {
		return false
	}
	info, err := os.Stat(s.path)
	return err == nil && info.Size() > 0
}

func (s *Store) selectFrom() string {
	return fmt.Sprintf(`
		SELECT id, prompt, status, content, countdown, piped, directory, created_at
		FROM read_json(%s,
			format = 'newline_delimited',
			columns = {
				id: 'VARCHAR',
				prompt: 'VARCHAR',
				status: 'VARCHAR',
				content: 'VARCHAR',
				countdown: 'INTEGER',
				piped: 'BOOLEAN',
				directory: 'VARCHAR',
				created_at: 'VARCHAR'
			}
		)`, db.QuoteLiteral(s.path))
}

func scanEntry(rows *sql.Rows) (models.HistoryEntry, error) {
	var (
		entry     models.HistoryEntry
		status    sql.NullString
		prompt    sql.NullString
		content   sql.NullString
		directory sql.NullString
		countdown sql.NullInt64
		piped     sql.NullBool
		createdAt sql.NullString
	)
	if err := rows.Scan(&entry.ID, &prompt, &status, &content, &countdown, &piped, &directory, &createdAt); err != nil {
		return entry, fmt.Errorf("failed to scan history entry: %w", err)
	}
	entry.Prompt = prompt.String
	entry.Status = models.Status(status.String)
	entry.Content = content.String
	entry.Directory = directory.String
	entry.Countdown = int(countdown.Int64)
	entry.Piped = piped.Bool

	if createdAt.Valid {
		if t, err := time.Parse(timeLayout, createdAt.String); err == nil {
			entry.CreatedAt = t.Local()
		}
	}
	return entry, nil
}
