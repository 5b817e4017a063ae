// Package store handles SQLite persistence of the local quote library.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/spede/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

var (
	// ErrEmptyLibrary is returned when a random quote is requested from an empty library.
	ErrEmptyLibrary = errors.New("quote library is empty")
	// ErrNotFound is returned when a quote ID does not exist.
	ErrNotFound = errors.New("quote not found")
)

// Store wraps SQLite access for the quote library.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS quotes (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			author TEXT NOT NULL,
			tags TEXT NOT NULL,
			added_at TEXT NOT NULL
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_quotes_content_author ON quotes(content, author);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AddQuote stores a quote and returns it with its assigned ID.
func (s *Store) AddQuote(ctx context.Context, q model.Quote) (model.StoredQuote, error) {
	q.Content = strings.TrimSpace(q.Content)
	q.Author = strings.TrimSpace(q.Author)
	if q.Content == "" {
		return model.StoredQuote{}, fmt.Errorf("quote content must not be empty")
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	addedAt := s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quotes (id, content, author, tags, added_at) VALUES (?, ?, ?, ?, ?)`,
		q.ID,
		q.Content,
		q.Author,
		q.TagList(),
		addedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return model.StoredQuote{}, err
	}
	return model.StoredQuote{Quote: q, AddedAt: addedAt}, nil
}

// Random returns a random quote from the library.
func (s *Store) Random(ctx context.Context) (model.Quote, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, content, author, tags, added_at FROM quotes ORDER BY RANDOM() LIMIT 1`)
	q, err := scanQuote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Quote{}, ErrEmptyLibrary
	}
	if err != nil {
		return model.Quote{}, err
	}
	return q.Quote, nil
}

// ListQuotes returns all quotes, oldest first.
func (s *Store) ListQuotes(ctx context.Context) ([]model.StoredQuote, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, author, tags, added_at FROM quotes ORDER BY added_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var quotes []model.StoredQuote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return quotes, nil
}

// RemoveQuote deletes the quote with the given ID.
func (s *Store) RemoveQuote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuote(sc scanner) (model.StoredQuote, error) {
	var q model.StoredQuote
	var tags, addedAt string
	if err := sc.Scan(&q.ID, &q.Content, &q.Author, &tags, &addedAt); err != nil {
		return model.StoredQuote{}, err
	}
	if tags != "" {
		q.Tags = strings.Split(tags, ",")
	}
	parsed, err := time.Parse(time.RFC3339Nano, addedAt)
	if err != nil {
		return model.StoredQuote{}, err
	}
	q.AddedAt = parsed
	return q, nil
}
