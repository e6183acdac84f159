package history

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"qrsafe/internal/config"
	"qrsafe/internal/services"
)

// Entry is one generated QR code retained in history.
type Entry struct {
	ID          string
	CreatedAt   time.Time
	TemplateID  string
	DisplayName string
	Payload     string
	RecordJSON  string
	QRPNG       []byte
}

// Store persists generated QR codes in SQLite, bounded to the configured
// number of most recent entries.
type Store struct {
	db    *sql.DB
	path  string
	limit int

	mu          sync.Mutex
	entropy     *ulid.MonotonicEntropy
	subscribers map[chan struct{}]struct{}
}

// Open initializes or connects to the history database and applies the
// schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.HistoryDBPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:          db,
		path:        dbPath,
		limit:       cfg.History.Limit,
		entropy:     ulid.Monotonic(rand.Reader, 0),
		subscribers: make(map[chan struct{}]struct{}),
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Append records a new entry and prunes anything beyond the retention limit
// in the same transaction. Newest entries always survive pruning.
func (s *Store) Append(ctx context.Context, entry *Entry) (*Entry, error) {
	if entry == nil {
		return nil, errors.New("entry required")
	}

	stored := *entry
	stored.CreatedAt = time.Now().UTC()
	stored.ID = s.newID(stored.CreatedAt)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO history_entries (id, created_at, template_id, display_name, payload, record_json, qr_png)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		stored.ID,
		stored.CreatedAt.Format(time.RFC3339Nano),
		stored.TemplateID,
		stored.DisplayName,
		stored.Payload,
		stored.RecordJSON,
		stored.QRPNG,
	)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	if s.limit > 0 {
		_, err = tx.ExecContext(
			ctx,
			`DELETE FROM history_entries WHERE id NOT IN (
                SELECT id FROM history_entries ORDER BY created_at DESC, id DESC LIMIT ?
            )`,
			s.limit,
		)
		if err != nil {
			return nil, fmt.Errorf("prune entries: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}

	s.notify()
	return &stored, nil
}

// List returns entries most recent first. A non-positive limit returns
// everything retained.
func (s *Store) List(ctx context.Context, limit int) ([]*Entry, error) {
	query := `SELECT id, created_at, template_id, display_name, payload, record_json, qr_png
        FROM history_entries ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Get returns a single entry by id.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, created_at, template_id, display_name, payload, record_json, qr_png
         FROM history_entries WHERE id = ?`,
		id,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "history", "get", fmt.Sprintf("entry %s", id), nil)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Count returns the number of retained entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM history_entries").Scan(&count); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}

// Clear removes all entries.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM history_entries"); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	s.notify()
	return nil
}

// Subscribe returns a channel that receives a signal whenever history
// changes. Signals coalesce; the channel never blocks writers. Call the
// returned cancel function to unsubscribe.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subscribers, ch)
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Store) newID(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), s.entropy).String()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		entry     Entry
		createdAt string
	)
	if err := row.Scan(&entry.ID, &createdAt, &entry.TemplateID, &entry.DisplayName, &entry.Payload, &entry.RecordJSON, &entry.QRPNG); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan entry: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	entry.CreatedAt = parsed
	return &entry, nil
}
