package account

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Notifier delivers the verification link to a new member. Failure is
// surfaced synchronously; the sign-up transaction rolls back on it.
type Notifier interface {
	SendSignUpConfirmation(email, nickname, token string) error
}

// Service orchestrates account creation, verification-token issuance and
// validation, and profile edits. All collaborators are injected; the
// service holds no global state and never logs-and-continues: every failure
// aborts the current operation and is returned to the caller.
type Service struct {
	store    Store
	tx       TxRunner
	tokens   TokenGenerator
	hasher   PasswordHasher
	notifier Notifier
	counts   CountCache

	now func() time.Time
}

func NewService(
	store Store,
	tx TxRunner,
	tokens TokenGenerator,
	hasher PasswordHasher,
	notifier Notifier,
	counts CountCache,
) *Service {
	return &Service{
		store:    store,
		tx:       tx,
		tokens:   tokens,
		hasher:   hasher,
		notifier: notifier,
		counts:   counts,
		now:      time.Now,
	}
}

// ProcessSignUp validates the form, persists a new unverified account with
// default notification preferences, attaches a fresh verification token and
// mails the confirmation link. The store writes and the mail delivery share
// one unit of work: a notifier failure leaves no account behind.
func (s *Service) ProcessSignUp(ctx context.Context, form SignUpForm) (*Account, error) {
	if errs := ValidateSignUpForm(form); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	var acct *Account
	err := s.tx.WithinTx(ctx, func(store Store) error {
		if exists, err := store.ExistsByEmail(ctx, form.Email); err != nil {
			return err
		} else if exists {
			return ErrDuplicateAccount
		}
		if exists, err := store.ExistsByNickname(ctx, form.Nickname); err != nil {
			return err
		} else if exists {
			return ErrDuplicateAccount
		}

		hash, err := s.hasher.Hash(form.Password)
		if err != nil {
			return err
		}

		now := s.now()
		acct = &Account{
			ID:           uuid.New(),
			Nickname:     form.Nickname,
			Email:        form.Email,
			PasswordHash: hash,
			EmailCheckToken: sql.NullString{
				String: s.tokens.Generate(),
				Valid:  true,
			},
			StudyCreatedByWeb:          true,
			StudyUpdatedByWeb:          true,
			StudyEnrollmentResultByWeb: true,
			CreatedAt:                  now,
			UpdatedAt:                  now,
		}
		if err := store.Save(ctx, acct); err != nil {
			return err
		}

		if err := s.notifier.SendSignUpConfirmation(acct.Email, acct.Nickname, acct.EmailCheckToken.String); err != nil {
			return &NotificationDeliveryError{Email: acct.Email, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// ValidateToken checks the presented (email, token) pair against the stored
// account. On a match it marks the account verified, records the join time
// and clears the token, so a captured link is single-use. The result tells
// the caller to establish a session for the account; the service itself
// never touches session state.
func (s *Service) ValidateToken(ctx context.Context, email, token string) (*VerificationResult, error) {
	var result *VerificationResult
	err := s.tx.WithinTx(ctx, func(store Store) error {
		acct, err := store.ByEmail(ctx, email)
		if err != nil {
			return err
		}

		if !acct.EmailCheckToken.Valid || acct.EmailCheckToken.String != token {
			return ErrTokenMismatch
		}

		now := s.now()
		acct.EmailVerified = true
		acct.JoinedAt = sql.NullTime{Time: now, Valid: true}
		acct.EmailCheckToken = sql.NullString{}
		acct.UpdatedAt = now
		if err := store.Update(ctx, acct); err != nil {
			return err
		}

		count, err := store.CountVerified(ctx)
		if err != nil {
			return err
		}

		result = &VerificationResult{
			Account:       acct,
			Nickname:      acct.Nickname,
			VerifiedCount: count,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Cache only a committed count. Writing inside the transaction would
	// leave a stale value behind if the commit fails.
	s.counts.Set(ctx, result.VerifiedCount)
	return result, nil
}

// UpdateProfile overwrites the bio. A bio over the length limit fails
// validation and leaves the stored value untouched.
func (s *Service) UpdateProfile(ctx context.Context, accountID uuid.UUID, bio string) (*Account, error) {
	if errs := ValidateBio(bio); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	var acct *Account
	err := s.tx.WithinTx(ctx, func(store Store) error {
		var err error
		acct, err = store.ByID(ctx, accountID)
		if err != nil {
			return err
		}
		acct.Bio = sql.NullString{String: bio, Valid: true}
		acct.UpdatedAt = s.now()
		return store.Update(ctx, acct)
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// UpdateNotifications overwrites the web-notification preference flags.
func (s *Service) UpdateNotifications(ctx context.Context, accountID uuid.UUID, prefs NotificationPrefs) (*Account, error) {
	var acct *Account
	err := s.tx.WithinTx(ctx, func(store Store) error {
		var err error
		acct, err = store.ByID(ctx, accountID)
		if err != nil {
			return err
		}
		acct.StudyCreatedByWeb = prefs.StudyCreatedByWeb
		acct.StudyUpdatedByWeb = prefs.StudyUpdatedByWeb
		acct.StudyEnrollmentResultByWeb = prefs.StudyEnrollmentResultByWeb
		acct.UpdatedAt = s.now()
		return store.Update(ctx, acct)
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// Authenticate verifies an email/password pair for login. It fails with
// ErrInvalidCredentials whether the email is unknown or the password wrong,
// so callers cannot distinguish the two. Store failures other than a missing
// account propagate unchanged.
func (s *Service) Authenticate(ctx context.Context, email, rawPassword string) (*Account, error) {
	acct, err := s.store.ByEmail(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Matches(rawPassword, acct.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return acct, nil
}

// Profile returns the account for the given id.
func (s *Service) Profile(ctx context.Context, accountID uuid.UUID) (*Account, error) {
	return s.store.ByID(ctx, accountID)
}

// VerifiedCount reports how many members have completed verification,
// reading through the cache when it has a fresh value.
func (s *Service) VerifiedCount(ctx context.Context) (int64, error) {
	if n, ok := s.counts.Get(ctx); ok {
		return n, nil
	}
	n, err := s.store.CountVerified(ctx)
	if err != nil {
		return 0, err
	}
	s.counts.Set(ctx, n)
	return n, nil
}
