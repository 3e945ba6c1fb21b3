package account

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// memStore is an in-memory Store and TxRunner used across the service
// tests. WithinTx snapshots state before running fn and restores it on
// error, mirroring the rollback guarantee of the Postgres store.
type memStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]Account
}

func newMemStore() *memStore {
	return &memStore{accounts: make(map[uuid.UUID]Account)}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	m.mu.Lock()
	snapshot := make(map[uuid.UUID]Account, len(m.accounts))
	for id, a := range m.accounts {
		snapshot[id] = a
	}
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.accounts = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) Save(ctx context.Context, a *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if strings.EqualFold(existing.Email, a.Email) || existing.Nickname == a.Nickname {
			return ErrDuplicateAccount
		}
	}
	m.accounts[a.ID] = *a
	return nil
}

func (m *memStore) Update(ctx context.Context, a *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[a.ID]; !ok {
		return ErrAccountNotFound
	}
	m.accounts[a.ID] = *a
	return nil
}

func (m *memStore) ByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[id]; ok {
		cp := a
		return &cp, nil
	}
	return nil, ErrAccountNotFound
}

func (m *memStore) ByEmail(ctx context.Context, email string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if strings.EqualFold(a.Email, email) {
			cp := a
			return &cp, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (m *memStore) ByNickname(ctx context.Context, nickname string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Nickname == nickname {
			cp := a
			return &cp, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (m *memStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.ByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (m *memStore) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	_, err := m.ByNickname(ctx, nickname)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (m *memStore) CountVerified(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, a := range m.accounts {
		if a.EmailVerified {
			count++
		}
	}
	return count, nil
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts)
}

type sentMail struct {
	email    string
	nickname string
	token    string
}

// fakeNotifier records outbound confirmations and can be told to fail.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeNotifier) SendSignUpConfirmation(email, nickname, token string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{email: email, nickname: nickname, token: token})
	return nil
}

type noCount struct{}

func (noCount) Get(ctx context.Context) (int64, bool) { return 0, false }
func (noCount) Set(ctx context.Context, n int64)      {}

// recordingCount captures every cache write for assertions.
type recordingCount struct {
	sets []int64
}

func (r *recordingCount) Get(ctx context.Context) (int64, bool) { return 0, false }
func (r *recordingCount) Set(ctx context.Context, n int64)      { r.sets = append(r.sets, n) }

// failingStore wraps memStore and fails ByEmail with the configured error,
// standing in for an unreachable database.
type failingStore struct {
	*memStore
	byEmailErr error
}

func (f *failingStore) ByEmail(ctx context.Context, email string) (*Account, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.memStore.ByEmail(ctx, email)
}

// commitFailTx runs the unit of work normally, then reports the configured
// error as if the commit itself had failed.
type commitFailTx struct {
	*memStore
	commitErr error
}

func (c *commitFailTx) WithinTx(ctx context.Context, fn func(Store) error) error {
	if err := c.memStore.WithinTx(ctx, fn); err != nil {
		return err
	}
	return c.commitErr
}
