package account

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Account is a registered member. Email and nickname are unique across all
// accounts; the store enforces both.
//
// An account is unverified until the token mailed at sign-up is presented
// back via ValidateToken. The token is cleared on first successful use.
type Account struct {
	ID              uuid.UUID
	Nickname        string
	Email           string
	PasswordHash    string
	EmailVerified   bool
	EmailCheckToken sql.NullString
	JoinedAt        sql.NullTime
	Bio             sql.NullString

	StudyCreatedByWeb          bool
	StudyUpdatedByWeb          bool
	StudyEnrollmentResultByWeb bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NotificationPrefs are the web-notification toggles a member can edit.
type NotificationPrefs struct {
	StudyCreatedByWeb          bool
	StudyUpdatedByWeb          bool
	StudyEnrollmentResultByWeb bool
}

// SignUpForm is the input to ProcessSignUp.
type SignUpForm struct {
	Nickname string
	Email    string
	Password string
}

// VerificationResult is returned on a successful token validation. The
// caller is expected to establish an authenticated session for Account;
// the service itself never touches session state.
type VerificationResult struct {
	Account       *Account
	Nickname      string
	VerifiedCount int64
}
