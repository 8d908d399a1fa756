// Package cache holds the in-process caches the bot keeps between requests:
// a TTL'd LRU for report totals and a manager that sweeps expired entries.
package cache

import (
	"log/slog"
	"time"
)

// Cleaner is implemented by caches that can drop their expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Manager owns the background sweep over registered caches. Register
// everything before StartCleanup; the slice is not guarded.
type Manager struct {
	cleaners []Cleaner
	stop     chan struct{}
	done     chan struct{}
	running  bool
}

func NewManager() *Manager {
	return &Manager{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Register adds a cache to the sweep rotation.
func (m *Manager) Register(c Cleaner) {
	m.cleaners = append(m.cleaners, c)
}

// StartCleanup launches the sweep goroutine.
func (m *Manager) StartCleanup(interval time.Duration) {
	m.running = true
	go m.sweep(interval)
}

func (m *Manager) sweep(interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := 0
			for _, c := range m.cleaners {
				removed += c.CleanExpired()
			}
			if removed > 0 {
				slog.Debug("Swept expired cache entries", "removed", removed)
			}
		case <-m.stop:
			return
		}
	}
}

// Stop ends the sweep and waits for the goroutine to wind down. Safe to
// call when StartCleanup never ran.
func (m *Manager) Stop() {
	close(m.stop)
	if m.running {
		<-m.done
	}
}
