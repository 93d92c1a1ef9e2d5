package deadletter

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryConfig configures a MemoryQueue.
type MemoryConfig struct {
	// MaxSize limits the number of letters.
	// Default: 10000
	MaxSize int

	// OnPark is called after a letter is stored.
	OnPark func(*Letter)
}

// DefaultMemoryConfig provides reasonable defaults.
var DefaultMemoryConfig = MemoryConfig{
	MaxSize: 10000,
}

// MemoryQueue is a bounded in-memory Queue.
// Suitable for testing and single-instance deployments.
type MemoryQueue struct {
	cfg MemoryConfig

	mu      sync.RWMutex
	letters []*Letter
	byID    map[string]*Letter
	closed  bool
}

// NewMemoryQueue creates an in-memory queue.
func NewMemoryQueue(cfg MemoryConfig) *MemoryQueue {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMemoryConfig.MaxSize
	}
	return &MemoryQueue{
		cfg:  cfg,
		byID: make(map[string]*Letter),
	}
}

// Park implements Queue.
func (q *MemoryQueue) Park(_ context.Context, l *Letter) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	if len(q.letters) >= q.cfg.MaxSize {
		q.mu.Unlock()
		return fmt.Errorf("%w: %d letters", ErrFull, q.cfg.MaxSize)
	}

	stored := *l
	stored.Fields = l.Fields.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
		l.ID = stored.ID
	}
	if _, dup := q.byID[stored.ID]; dup {
		q.mu.Unlock()
		return fmt.Errorf("letter %s already parked", stored.ID)
	}
	q.letters = append(q.letters, &stored)
	q.byID[stored.ID] = &stored
	q.mu.Unlock()

	if q.cfg.OnPark != nil {
		q.cfg.OnPark(l)
	}
	return nil
}

// List implements Queue.
func (q *MemoryQueue) List(_ context.Context, limit int) ([]*Letter, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return nil, ErrQueueClosed
	}

	n := len(q.letters)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*Letter, 0, n)
	for _, l := range q.letters[:n] {
		out = append(out, copyLetter(l))
	}
	return out, nil
}

// Get implements Queue.
func (q *MemoryQueue) Get(_ context.Context, id string) (*Letter, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return nil, ErrQueueClosed
	}
	l, ok := q.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyLetter(l), nil
}

// Delete implements Queue.
func (q *MemoryQueue) Delete(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	l, ok := q.byID[id]
	if !ok {
		return nil
	}
	delete(q.byID, id)
	q.letters = slices.DeleteFunc(q.letters, func(x *Letter) bool { return x == l })
	return nil
}

// Count implements Queue.
func (q *MemoryQueue) Count(_ context.Context) (int, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return 0, ErrQueueClosed
	}
	return len(q.letters), nil
}

// CountByReason implements Queue.
func (q *MemoryQueue) CountByReason(_ context.Context) (map[Reason]int, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return nil, ErrQueueClosed
	}
	counts := make(map[Reason]int)
	for _, l := range q.letters {
		counts[l.Reason]++
	}
	return counts, nil
}

// Close implements Queue.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.letters = nil
	q.byID = nil
	return nil
}

func copyLetter(l *Letter) *Letter {
	c := *l
	c.Fields = l.Fields.Clone()
	return &c
}
