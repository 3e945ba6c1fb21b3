package sessions

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/hobbang/studyhub/internal/account"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrTokenExpired = errors.New("session token has expired")
)

// Claims identify the authenticated account for the lifetime of a session.
type Claims struct {
	AccountID string `json:"account_id"`
	Nickname  string `json:"nickname"`
	jwt.RegisteredClaims
}

// Manager issues and validates signed session tokens. The verification core
// only signals that an account should be authenticated; callers apply that
// signal by asking the Manager for a token.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret []byte, ttl time.Duration) *Manager {
	return &Manager{secret: secret, ttl: ttl}
}

// Issue creates a session token for the account.
func (m *Manager) Issue(acct *account.Account) (string, error) {
	now := time.Now()
	claims := &Claims{
		AccountID: acct.ID.String(),
		Nickname:  acct.Nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses and verifies a session token.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
