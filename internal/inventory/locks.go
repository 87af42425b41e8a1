package inventory

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// JourneyClassLocker serializes in-process bookings and cancellations
// against the same (journey, class) before they contend on the database
// row lock. Operations on different journey/class pairs run in parallel.
type JourneyClassLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewJourneyClassLocker() *JourneyClassLocker {
	return &JourneyClassLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *JourneyClassLocker) key(journeyID, classID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", journeyID, classID)
}

// Lock acquires the mutex for the journey/class pair, creating it on first use.
func (l *JourneyClassLocker) Lock(journeyID, classID uuid.UUID) {
	l.mu.Lock()
	m, ok := l.locks[l.key(journeyID, classID)]
	if !ok {
		m = &sync.Mutex{}
		l.locks[l.key(journeyID, classID)] = m
	}
	l.mu.Unlock()
	m.Lock()
}

// Unlock releases the mutex for the journey/class pair.
func (l *JourneyClassLocker) Unlock(journeyID, classID uuid.UUID) {
	l.mu.Lock()
	m := l.locks[l.key(journeyID, classID)]
	l.mu.Unlock()
	if m != nil {
		m.Unlock()
	}
}
