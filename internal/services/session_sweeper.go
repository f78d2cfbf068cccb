package services

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type sessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// SessionSweeper periodically deletes expired sessions so the table does
// not grow with abandoned logins.
type SessionSweeper struct {
	purger   sessionPurger
	interval time.Duration
	logger   *slog.Logger

	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.RWMutex

	lastRun     time.Time
	lastRemoved int64
}

func NewSessionSweeper(purger sessionPurger, interval time.Duration, logger *slog.Logger) *SessionSweeper {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionSweeper{
		purger:   purger,
		interval: interval,
		logger:   logger,
	}
}

func (w *SessionSweeper) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	// each run gets its own stop channel; Stop closes only that one
	stop := make(chan struct{})
	w.stopChan = stop
	w.mu.Unlock()

	w.wg.Add(1)
	go w.cleanupRoutine(stop)
}

func (w *SessionSweeper) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stop := w.stopChan
	w.mu.Unlock()

	close(stop)
	w.wg.Wait()
}

// Sweep runs one purge immediately.
func (w *SessionSweeper) Sweep(ctx context.Context) {
	removed, err := w.purger.PurgeExpiredSessions(ctx)
	if err != nil {
		w.logger.Warn("session sweep failed", "error", err)
		return
	}

	w.mu.Lock()
	w.lastRun = time.Now()
	w.lastRemoved = removed
	w.mu.Unlock()

	if removed > 0 {
		w.logger.Info("expired sessions removed", "count", removed)
	}
}

func (w *SessionSweeper) cleanupRoutine(stop <-chan struct{}) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			w.Sweep(ctx)
			cancel()
		case <-stop:
			return
		}
	}
}

func (w *SessionSweeper) GetStatus() map[string]interface{} {
	w.mu.RLock()
	defer w.mu.RUnlock()

	status := map[string]interface{}{
		"running":          w.running,
		"cleanup_interval": w.interval.String(),
		"last_removed":     w.lastRemoved,
	}
	if !w.lastRun.IsZero() {
		status["last_run"] = w.lastRun
	}
	return status
}
