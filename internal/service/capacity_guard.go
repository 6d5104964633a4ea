package service

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// Interval for cleaning up stale slot mutexes
	guardCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	guardStaleThreshold = 10 * time.Minute
)

// CapacityGuard serializes the check-then-insert sequence of the booking
// path per (doctor, calendar date). Counting existing appointments and
// inserting a new one is not atomic on its own; two concurrent bookings
// for the last free slot would otherwise both pass the count. Holding
// the per-key mutex across count+insert makes exactly one of them win.
//
// Mutexes are created on demand in a sync.Map and reaped by a background
// loop once idle. Call Stop() during graceful shutdown.
type CapacityGuard struct {
	log *logrus.Logger

	slotMu sync.Map // map[string]*slotMutex

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

type slotMutex struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

func NewCapacityGuard(log *logrus.Logger) *CapacityGuard {
	g := &CapacityGuard{
		log:      log,
		stopChan: make(chan struct{}),
	}

	g.wg.Add(1)
	go g.cleanupLoop()

	return g
}

// Stop shuts down the cleanup goroutine. Safe to call multiple times.
func (g *CapacityGuard) Stop() {
	if g.stopped.CompareAndSwap(false, true) {
		close(g.stopChan)
		g.wg.Wait()
	}
}

// Lock acquires the mutex for the doctor/date slot and returns the
// unlock function.
func (g *CapacityGuard) Lock(doctorID uuid.UUID, date time.Time) func() {
	key := slotKey(doctorID, date)
	sm, _ := g.slotMu.LoadOrStore(key, &slotMutex{})
	m := sm.(*slotMutex)
	m.lastUsed.Store(time.Now().Unix())
	m.mu.Lock()
	return m.mu.Unlock
}

func slotKey(doctorID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s|%s", doctorID, date.Format("2006-01-02"))
}

func (g *CapacityGuard) cleanupLoop() {
	defer g.wg.Done()

	ticker := time.NewTicker(guardCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.cleanupStale()
		}
	}
}

// cleanupStale removes idle mutexes. TryLock first; the lastUsed check
// happens under the lock so a concurrent booking cannot lose its mutex.
func (g *CapacityGuard) cleanupStale() {
	cutoff := time.Now().Add(-guardStaleThreshold).Unix()
	var cleaned int

	g.slotMu.Range(func(key, value any) bool {
		m, ok := value.(*slotMutex)
		if !ok {
			return true
		}
		if m.mu.TryLock() {
			if m.lastUsed.Load() < cutoff {
				g.slotMu.Delete(key)
				cleaned++
			}
			m.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		g.log.Debugf("Cleaned up %d stale slot mutexes", cleaned)
	}
}
