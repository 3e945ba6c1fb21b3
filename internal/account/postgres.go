package account

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// querier is satisfied by both *sql.DB and *sql.Tx, so the same statements
// serve inside and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists accounts in the accounts table. It implements both
// Store and TxRunner.
type PostgresStore struct {
	db *sql.DB
	q  querier
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, q: db}
}

// WithinTx runs fn against a store bound to a single transaction,
// committing on success and rolling back on error or panic.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(Store) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(&PostgresStore{db: s.db, q: tx})
	return err
}

const accountColumns = `id, nickname, email, password_hash, email_verified, email_check_token,
	joined_at, bio, study_created_by_web, study_updated_by_web, study_enrollment_result_by_web,
	created_at, updated_at`

func (s *PostgresStore) Save(ctx context.Context, a *Account) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.Nickname, a.Email, a.PasswordHash, a.EmailVerified, a.EmailCheckToken,
		a.JoinedAt, a.Bio, a.StudyCreatedByWeb, a.StudyUpdatedByWeb, a.StudyEnrollmentResultByWeb,
		a.CreatedAt, a.UpdatedAt)
	return mapPQError(err)
}

func (s *PostgresStore) Update(ctx context.Context, a *Account) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE accounts SET
		nickname = $2, email = $3, password_hash = $4, email_verified = $5,
		email_check_token = $6, joined_at = $7, bio = $8,
		study_created_by_web = $9, study_updated_by_web = $10, study_enrollment_result_by_web = $11,
		updated_at = $12
		WHERE id = $1`,
		a.ID, a.Nickname, a.Email, a.PasswordHash, a.EmailVerified,
		a.EmailCheckToken, a.JoinedAt, a.Bio,
		a.StudyCreatedByWeb, a.StudyUpdatedByWeb, a.StudyEnrollmentResultByWeb,
		a.UpdatedAt)
	if err != nil {
		return mapPQError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (s *PostgresStore) ByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.scanOne(s.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (s *PostgresStore) ByEmail(ctx context.Context, email string) (*Account, error) {
	return s.scanOne(s.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
}

func (s *PostgresStore) ByNickname(ctx context.Context, nickname string) (*Account, error) {
	return s.scanOne(s.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE nickname = $1`, nickname))
}

func (s *PostgresStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (s *PostgresStore) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE nickname = $1)`, nickname).Scan(&exists)
	return exists, err
}

func (s *PostgresStore) CountVerified(ctx context.Context) (int64, error) {
	var count int64
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE email_verified`).Scan(&count)
	return count, err
}

func (s *PostgresStore) scanOne(row *sql.Row) (*Account, error) {
	a := &Account{}
	err := row.Scan(
		&a.ID, &a.Nickname, &a.Email, &a.PasswordHash, &a.EmailVerified, &a.EmailCheckToken,
		&a.JoinedAt, &a.Bio, &a.StudyCreatedByWeb, &a.StudyUpdatedByWeb, &a.StudyEnrollmentResultByWeb,
		&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func mapPQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
		return ErrDuplicateAccount
	}
	return err
}
