package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-lending/internal/domain"
)

const pgUniqueViolation = "23505"

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
		INSERT INTO users (phone_number, password_hash, user_name, registration_time)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id
	`
	err := r.pool.QueryRow(ctx, query,
		user.PhoneNumber,
		user.PasswordHash,
		user.UserName,
		user.RegistrationTime.Time,
	).Scan(&user.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	const query = `
		SELECT user_id, phone_number, password_hash, user_name, registration_time, last_login_time
		FROM users
		WHERE user_id = $1
	`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByPhone(ctx context.Context, phone string) (domain.User, error) {
	const query = `
		SELECT user_id, phone_number, password_hash, user_name, registration_time, last_login_time
		FROM users
		WHERE phone_number = $1
	`
	return scanUser(r.pool.QueryRow(ctx, query, phone))
}

func (r *PgUserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET last_login_time = $2 WHERE user_id = $1`, id, at.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u          domain.User
		registered time.Time
		lastLogin  *time.Time
	)
	err := row.Scan(&u.ID, &u.PhoneNumber, &u.PasswordHash, &u.UserName, &registered, &lastLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	u.RegistrationTime = domain.NewTimestamp(registered)
	if lastLogin != nil {
		ts := domain.NewTimestamp(*lastLogin)
		u.LastLoginTime = &ts
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
