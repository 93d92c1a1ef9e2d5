package deadletter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/randalmurphal/amicore/pkg/amicore/event"
)

// SQLiteQueue persists letters to SQLite.
// It is suitable for single-process production use.
type SQLiteQueue struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
	onPark func(*Letter)
}

// SQLiteOption configures a SQLiteQueue.
type SQLiteOption func(*SQLiteQueue)

// WithSQLiteOnPark sets a callback run after each letter is stored.
func WithSQLiteOnPark(fn func(*Letter)) SQLiteOption {
	return func(q *SQLiteQueue) {
		q.onPark = fn
	}
}

// NewSQLiteQueue opens or creates a queue at path.
// The path should be a file path (e.g., "./deadletters.db") or ":memory:" for testing.
func NewSQLiteQueue(path string, opts ...SQLiteOption) (*SQLiteQueue, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS dead_letters (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			reason TEXT NOT NULL,
			subscriber TEXT NOT NULL DEFAULT '',
			event TEXT NOT NULL,
			category TEXT NOT NULL,
			token TEXT NOT NULL DEFAULT '',
			fields BLOB NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			attempts INTEGER NOT NULL DEFAULT 0,
			parked_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_dead_letters_reason
		ON dead_letters(reason)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	q := &SQLiteQueue{db: db}
	for _, opt := range opts {
		opt(q)
	}
	return q, nil
}

// Park implements Queue.
func (q *SQLiteQueue) Park(ctx context.Context, l *Letter) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.ParkedAt.IsZero() {
		l.ParkedAt = time.Now().UTC()
	}
	fields, err := json.Marshal(l.Fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	_, err = q.db.ExecContext(ctx, `
		INSERT INTO dead_letters (id, reason, subscriber, event, category, token, fields, error, attempts, parked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, l.ID, string(l.Reason), l.Subscriber, l.Event, l.Category, l.Token, fields, l.Error, l.Attempts,
		l.ParkedAt.UTC().Format(time.RFC3339Nano))
	q.mu.Unlock()
	if err != nil {
		return fmt.Errorf("park letter: %w", err)
	}

	if q.onPark != nil {
		q.onPark(l)
	}
	return nil
}

const selectLetter = `
	SELECT id, reason, subscriber, event, category, token, fields, error, attempts, parked_at
	FROM dead_letters
`

// List implements Queue.
func (q *SQLiteQueue) List(ctx context.Context, limit int) ([]*Letter, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return nil, ErrQueueClosed
	}

	if limit <= 0 {
		limit = -1
	}
	rows, err := q.db.QueryContext(ctx, selectLetter+` ORDER BY seq LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list letters: %w", err)
	}
	defer rows.Close()

	var out []*Letter
	for rows.Next() {
		l, err := scanLetter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate letters: %w", err)
	}
	return out, nil
}

// Get implements Queue.
func (q *SQLiteQueue) Get(ctx context.Context, id string) (*Letter, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return nil, ErrQueueClosed
	}

	l, err := scanLetter(q.db.QueryRowContext(ctx, selectLetter+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return l, err
}

// Delete implements Queue.
func (q *SQLiteQueue) Delete(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	if _, err := q.db.ExecContext(ctx, `DELETE FROM dead_letters WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete letter: %w", err)
	}
	return nil
}

// Count implements Queue.
func (q *SQLiteQueue) Count(ctx context.Context) (int, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return 0, ErrQueueClosed
	}
	var n int
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dead_letters`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count letters: %w", err)
	}
	return n, nil
}

// CountByReason implements Queue.
func (q *SQLiteQueue) CountByReason(ctx context.Context) (map[Reason]int, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return nil, ErrQueueClosed
	}

	rows, err := q.db.QueryContext(ctx, `SELECT reason, COUNT(*) FROM dead_letters GROUP BY reason`)
	if err != nil {
		return nil, fmt.Errorf("count letters: %w", err)
	}
	defer rows.Close()

	counts := make(map[Reason]int)
	for rows.Next() {
		var (
			reason string
			n      int
		)
		if err := rows.Scan(&reason, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[Reason(reason)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

// Close implements Queue.
func (q *SQLiteQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	return q.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLetter(row rowScanner) (*Letter, error) {
	var (
		l        Letter
		reason   string
		fields   []byte
		parkedAt string
	)
	if err := row.Scan(&l.ID, &reason, &l.Subscriber, &l.Event, &l.Category, &l.Token, &fields, &l.Error, &l.Attempts, &parkedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan letter: %w", err)
	}
	l.Reason = Reason(reason)
	l.ParkedAt, _ = time.Parse(time.RFC3339Nano, parkedAt)

	var decoded event.Fields
	if err := json.Unmarshal(fields, &decoded); err != nil {
		return nil, fmt.Errorf("decode fields of %s: %w", l.ID, err)
	}
	l.Fields = decoded
	return &l, nil
}
