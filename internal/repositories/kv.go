package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/desertthunder/movievault/internal/shared"
)

// KVRepository implements [Store] on the SQLite kv table.
//
// Each write takes the next value of kv_sequence as the row's revision. The
// revisions this instance wrote itself are remembered so a [Watcher] can tell
// them apart from writes made by other processes. The bookkeeping happens under
// mu together with the commit, so a snapshot never sees a local write before it is known.
type KVRepository struct {
	db            *sql.DB
	maxValueBytes int
	origin        string
	events        *Broadcaster

	mu      sync.Mutex
	known   map[string]int64
	written int64 // highest sequence committed by this instance
}

// NewKVRepository creates a new [KVRepository]. A maxValueBytes of zero disables the quota.
func NewKVRepository(db *sql.DB, maxValueBytes int) *KVRepository {
	return &KVRepository{
		db:            db,
		maxValueBytes: maxValueBytes,
		origin:        shared.GenerateID(),
		events:        NewBroadcaster(),
		known:         make(map[string]int64),
	}
}

// Origin identifies changes published by this instance.
func (r *KVRepository) Origin() string { return r.origin }

// Get retrieves the value stored under key
func (r *KVRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to query %s: %v", shared.ErrStorage, key, err)
	}
	return value, true, nil
}

// Set upserts value under key. Values over the quota are rejected with [shared.ErrQuotaExceeded].
func (r *KVRepository) Set(key, value string) error {
	if r.maxValueBytes > 0 && len(value) > r.maxValueBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", shared.ErrQuotaExceeded, key, len(value), r.maxValueBytes)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", shared.ErrStorage, err)
	}
	defer tx.Rollback()

	revision, err := NextSequence(tx, "kv")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	query := `
		INSERT INTO kv (key, value, revision, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			revision = excluded.revision,
			updated_at = excluded.updated_at
	`
	if _, err := tx.Exec(query, key, value, revision); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrStorage, key, err)
	}

	r.mu.Lock()
	if err := tx.Commit(); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("%w: failed to commit %s: %v", shared.ErrStorage, key, err)
	}
	r.known[key] = revision
	r.written = max(r.written, revision)
	r.mu.Unlock()

	r.events.Publish(Change{Key: key, Origin: r.origin})
	return nil
}

// Remove deletes key. Subscribers are only notified when a row was deleted.
func (r *KVRepository) Remove(key string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", shared.ErrStorage, err)
	}
	defer tx.Rollback()

	result, err := tx.Exec("DELETE FROM kv WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("%w: failed to remove %s: %v", shared.ErrStorage, key, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to get affected rows: %v", shared.ErrStorage, err)
	}
	if rows == 0 {
		return nil
	}

	seq, err := NextSequence(tx, "kv")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	r.mu.Lock()
	if err := tx.Commit(); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("%w: failed to commit removal of %s: %v", shared.ErrStorage, key, err)
	}
	delete(r.known, key)
	r.written = max(r.written, seq)
	r.mu.Unlock()

	r.events.Publish(Change{Key: key, Origin: r.origin})
	return nil
}

// Subscribe returns a channel of changes made through this instance or detected by its [Watcher].
func (r *KVRepository) Subscribe() (<-chan Change, func()) {
	return r.events.Subscribe()
}

// Keys lists every stored key in order.
func (r *KVRepository) Keys() ([]string, error) {
	rows, err := r.db.Query("SELECT key FROM kv ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list keys: %v", shared.ErrStorage, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: failed to scan key: %v", shared.ErrStorage, err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// snapshot reads the write sequence and every key's revision in one transaction.
func (r *KVRepository) snapshot(ctx context.Context) (int64, map[string]int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, "SELECT value FROM kv_sequence WHERE id = 1").Scan(&seq); err != nil {
		return 0, nil, fmt.Errorf("failed to read sequence: %w", err)
	}

	rows, err := tx.QueryContext(ctx, "SELECT key, revision FROM kv")
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read revisions: %w", err)
	}
	defer rows.Close()

	revisions := make(map[string]int64)
	for rows.Next() {
		var (
			key      string
			revision int64
		)
		if err := rows.Scan(&key, &revision); err != nil {
			return 0, nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		revisions[key] = revision
	}
	if err := rows.Err(); err != nil {
		return 0, nil, err
	}

	return seq, revisions, nil
}

// reconcile records a snapshot as known and returns the keys changed by someone else.
// A snapshot older than this instance's last write is ignored; it cannot tell
// local writes from external ones and the next snapshot covers it.
func (r *KVRepository) reconcile(seq int64, revisions map[string]int64) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq < r.written {
		return nil
	}

	var changed []string
	for key, rev := range revisions {
		if known, ok := r.known[key]; !ok || rev > known {
			changed = append(changed, key)
			r.known[key] = rev
		}
	}
	for key, known := range r.known {
		if _, ok := revisions[key]; !ok && known <= seq {
			changed = append(changed, key)
			delete(r.known, key)
		}
	}
	return changed
}
