package service

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func TestCapacityGuardSerializesSameSlot(t *testing.T) {
	guard := NewCapacityGuard(logrus.New())
	defer guard.Stop()

	doctorID := uuid.New()
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	const workers = 50
	const limit = 3

	// Emulate the booking path: read the count, decide, write back. If
	// the guard failed to serialize, lost updates would let more than
	// `limit` workers through.
	var booked int
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			unlock := guard.Lock(doctorID, date)
			defer unlock()
			if booked < limit {
				booked++
			}
		}()
	}
	wg.Wait()

	if booked != limit {
		t.Errorf("booked = %d, want exactly %d", booked, limit)
	}
}

func TestCapacityGuardIndependentSlots(t *testing.T) {
	guard := NewCapacityGuard(logrus.New())
	defer guard.Stop()

	doctorID := uuid.New()
	day1 := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	unlock1 := guard.Lock(doctorID, day1)
	defer unlock1()

	// A different date must not block.
	done := make(chan struct{})
	go func() {
		unlock2 := guard.Lock(doctorID, day2)
		unlock2()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on a different date blocked behind an unrelated slot")
	}
}

func TestCapacityGuardStopIdempotent(t *testing.T) {
	guard := NewCapacityGuard(logrus.New())
	guard.Stop()
	guard.Stop()
}
