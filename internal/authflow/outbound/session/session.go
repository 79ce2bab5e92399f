// Package session persists the signed-in session record across launches.
package session

import (
	"context"

	"github.com/harvestlink/farmgate/internal/authflow/entity"
)

// Store is the persistence contract for the session record.
//
// Current returns a zero record and no error when nothing is stored; callers
// distinguish "signed out" with entity.Session.Authenticated.
type Store interface {
	Commit(ctx context.Context, rec entity.Session) error
	Clear(ctx context.Context) error
	Current(ctx context.Context) (entity.Session, error)
}
