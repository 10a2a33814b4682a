// Package cache provides the bounded TTL caches the web layer uses
// for rendered dashboard data.
package cache

import "time"

// Cache is the read/write surface handlers program against.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Purge()
	Size() int
}

// Cleaner is implemented by caches that can shed expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Manager runs periodic expiry cleanup over registered caches and
// owns the cleanup goroutine's lifecycle.
type Manager struct {
	caches  []Cleaner
	started bool
	done    chan struct{}
	idle    chan struct{}
}

// NewManager creates an empty manager. Register caches before calling
// StartCleanup.
func NewManager() *Manager {
	return &Manager{
		done: make(chan struct{}),
		idle: make(chan struct{}),
	}
}

// Register adds a cache to the cleanup rotation.
func (m *Manager) Register(cache Cleaner) {
	m.caches = append(m.caches, cache)
}

// StartCleanup launches the cleanup loop with the given period.
func (m *Manager) StartCleanup(interval time.Duration) {
	m.started = true
	go func() {
		defer close(m.idle)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				for _, cache := range m.caches {
					cache.CleanExpired()
				}
			case <-m.done:
				return
			}
		}
	}()
}

// Stop halts the cleanup loop and waits for it to exit. Call at most
// once.
func (m *Manager) Stop() {
	close(m.done)
	if m.started {
		<-m.idle
	}
}
