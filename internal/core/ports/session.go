package ports

import (
	"context"

	"github.com/smartride/smartride-web/internal/core/domain"
)

// Snapshot is the session as read at one point in time.
type Snapshot struct {
	Token string
	User  *domain.UserRecord
	Role  domain.Role
}

// Authenticated reports whether a credential is present.
func (s Snapshot) Authenticated() bool { return s.Token != "" }

// Sessions is the typed view of the session store used by services. The
// scope is taken from the request context.
type Sessions interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, token string, user domain.UserRecord) error
	Clear(ctx context.Context) error
}
