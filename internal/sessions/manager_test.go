package sessions

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hobbang/studyhub/internal/account"
)

func testAccount() *account.Account {
	return &account.Account{
		ID:       uuid.New(),
		Nickname: "hobbang",
		Email:    "hobbang@naver.com",
	}
}

func TestIssueAndValidate(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)
	acct := testAccount()

	token, err := m.Issue(acct)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, acct.ID.String(), claims.AccountID)
	assert.Equal(t, "hobbang", claims.Nickname)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewManager([]byte("secret-a"), time.Hour)
	verifier := NewManager([]byte("secret-b"), time.Hour)

	token, err := issuer.Issue(testAccount())
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	m := NewManager([]byte("test-secret"), -time.Minute)

	token, err := m.Issue(testAccount())
	require.NoError(t, err)

	_, err = m.Validate(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)

	_, err := m.Validate("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
