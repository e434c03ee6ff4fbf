package crypto

import (
	"sync"
	"time"
)

// Denylist records revoked token ids until the tokens would have expired
// anyway. It is process local; a multi-instance deployment needs a shared
// backing store instead.
type Denylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewDenylist() *Denylist {
	return &Denylist{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke denies tokenID until expiresAt. Expired entries are purged on the way.
func (d *Denylist) Revoke(tokenID string, expiresAt time.Time) {
	if tokenID == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for id, exp := range d.revoked {
		if !exp.After(now) {
			delete(d.revoked, id)
		}
	}
	if expiresAt.After(now) {
		d.revoked[tokenID] = expiresAt
	}
}

// IsRevoked reports whether tokenID has been revoked and has not yet expired.
func (d *Denylist) IsRevoked(tokenID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	exp, ok := d.revoked[tokenID]
	return ok && exp.After(d.now())
}

// Len returns the number of live revocations.
func (d *Denylist) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.revoked)
}
