package repositories

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

const defaultWatchInterval = time.Second

// Watcher publishes changes that other processes make to the database behind a [KVRepository].
//
// SQLite has no cross-process notifications, so the watcher compares the kv
// revisions on an interval and reports every key whose revision moved without
// this process writing it. Those changes carry [OriginExternal].
type Watcher struct {
	repo     *KVRepository
	interval time.Duration
	logger   *log.Logger
	lastSeq  int64
}

// NewWatcher creates a new [Watcher]. A non-positive interval defaults to one second.
func NewWatcher(repo *KVRepository, interval time.Duration, logger *log.Logger) *Watcher {
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Watcher{repo: repo, interval: interval, logger: logger, lastSeq: -1}
}

// Run polls until ctx is cancelled. The first snapshot only primes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := w.Poll(ctx); err != nil {
		w.logger.Warn("initial watch snapshot failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			changes, err := w.Poll(ctx)
			if err != nil {
				w.logger.Warn("watch poll failed", "error", err)
				continue
			}
			for _, c := range changes {
				w.repo.events.Publish(c)
			}
		}
	}
}

// Poll takes one snapshot and returns the external changes since the previous one.
// It does not publish them.
func (w *Watcher) Poll(ctx context.Context) ([]Change, error) {
	seq, revisions, err := w.repo.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if seq == w.lastSeq {
		return nil, nil
	}
	w.lastSeq = seq

	keys := w.repo.reconcile(seq, revisions)
	sort.Strings(keys)

	changes := make([]Change, 0, len(keys))
	for _, key := range keys {
		w.logger.Debug("external change", "key", key)
		changes = append(changes, Change{Key: key, Origin: OriginExternal})
	}
	return changes, nil
}
