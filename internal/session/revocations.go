package session

import (
	"sync"
	"time"
)

// Revocations is a process-local RevocationList. Entries are dropped once the
// token they name has expired, and are lost on restart.
type Revocations struct {
	mu sync.Mutex

	until map[string]time.Time // jti -> token expiry
	now   Clock
}

func NewRevocations(now Clock) *Revocations {
	if now == nil {
		now = time.Now
	}
	return &Revocations{until: make(map[string]time.Time), now: now}
}

func (r *Revocations) Revoke(tokenID string, until time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked()
	r.until[tokenID] = until
}

func (r *Revocations) IsRevoked(tokenID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.until[tokenID]
	return ok
}

func (r *Revocations) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.until)
}

func (r *Revocations) pruneLocked() {
	now := r.now()
	for id, until := range r.until {
		if now.After(until) {
			delete(r.until, id)
		}
	}
}
