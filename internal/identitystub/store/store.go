// Package store holds the development identity service's state: the user
// directory and the issued-code store.
//
// Codes are stored as HMAC digests, never in the clear, so a leaked dev
// snapshot is not a replayable credential.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/harvestlink/farmgate/internal/identitystub/entity"
	"github.com/harvestlink/farmgate/internal/pkg/goerror"
	"github.com/harvestlink/farmgate/internal/pkg/uid"
)

// Users is the in-memory user directory.
type Users struct {
	mu     sync.RWMutex
	byMail map[string]entity.User
	uid    uid.NumberID
}

// NewUsers creates an empty directory; ids come from the provided generator.
func NewUsers(nid uid.NumberID) *Users {
	return &Users{
		byMail: make(map[string]entity.User),
		uid:    nid,
	}
}

// GetByEmail returns the user or goerror.ErrNotFound.
func (u *Users) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	user, ok := u.byMail[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &user, nil
}

// Create adds a user; an existing email yields goerror.ErrConflict.
func (u *Users) Create(_ context.Context, user entity.User) (*entity.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, ok := u.byMail[user.Email]; ok {
		return nil, goerror.ErrConflict
	}

	user.ID = u.uid.Generate()
	user.CreatedAt = time.Now()
	u.byMail[user.Email] = user
	return &user, nil
}

// Codes stores one pending code digest per email with a TTL.
type Codes interface {
	Put(ctx context.Context, email, digest string, ttl time.Duration) error
	// Get returns the digest or goerror.ErrNotFound when absent or expired.
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}
