package account

import (
	"context"

	"github.com/google/uuid"
)

// Store is the account persistence surface. Email and nickname uniqueness
// is enforced at this layer; a violation surfaces as ErrDuplicateAccount.
// Lookups return ErrAccountNotFound when no row matches.
type Store interface {
	Save(ctx context.Context, a *Account) error
	Update(ctx context.Context, a *Account) error
	ByID(ctx context.Context, id uuid.UUID) (*Account, error)
	ByEmail(ctx context.Context, email string) (*Account, error)
	ByNickname(ctx context.Context, nickname string) (*Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	CountVerified(ctx context.Context) (int64, error)
}

// TxRunner scopes store mutations to a single transaction. The store handed
// to fn operates inside that transaction; any error (or panic) rolls the
// whole unit of work back.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(Store) error) error
}

// CountCache caches the system-wide verified-member count for display.
// Implementations must be safe to call with a canceled context; a miss is
// never an error.
type CountCache interface {
	Get(ctx context.Context) (int64, bool)
	Set(ctx context.Context, n int64)
}
