package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush/bookshelf/internal/models"
)

const userColumns = "id, name, email, phone, username, password, created_at"

// UserStore handles user CRUD against PostgreSQL.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// Migrate creates the users table if it doesn't exist.
func (s *UserStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id         UUID PRIMARY KEY,
			name       VARCHAR(100) NOT NULL,
			email      VARCHAR(255) NOT NULL,
			phone      VARCHAR(20)  NOT NULL,
			username   VARCHAR(50)  UNIQUE NOT NULL,
			password   VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ  NOT NULL
		)
	`)
	return err
}

// List returns all users ordered by creation time, newest first.
// Password hashes are not selected.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, phone, username, created_at
		 FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Username, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Create inserts a new user with an app-generated id and timestamp.
func (s *UserStore) Create(ctx context.Context, u *models.User) (*models.User, error) {
	u.ID = uuid.New().String()
	u.CreatedAt = time.Now()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, phone, username, password, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Name, u.Email, u.Phone, u.Username, u.Password, u.CreatedAt,
	)
	if isUniqueViolation(err) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Username, &u.Password, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Update rewrites the mutable profile fields for username and returns
// the updated record.
func (s *UserStore) Update(ctx context.Context, username string, u *models.User) (*models.User, error) {
	var out models.User
	err := s.pool.QueryRow(ctx,
		`UPDATE users SET name = $2, email = $3, phone = $4, password = $5
		 WHERE username = $1
		 RETURNING `+userColumns,
		username, u.Name, u.Email, u.Phone, u.Password,
	).Scan(&out.ID, &out.Name, &out.Email, &out.Phone, &out.Username, &out.Password, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &out, nil
}

// Delete removes the user and returns the deleted snapshot.
func (s *UserStore) Delete(ctx context.Context, username string) (*models.User, error) {
	var out models.User
	err := s.pool.QueryRow(ctx,
		`DELETE FROM users WHERE username = $1 RETURNING `+userColumns,
		username,
	).Scan(&out.ID, &out.Name, &out.Email, &out.Phone, &out.Username, &out.Password, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return &out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
