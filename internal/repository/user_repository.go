package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/spreadline/internal/database"
	"github.com/yourusername/spreadline/internal/models"
)

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *database.DB
}

// NewPostgresUserRepository creates a new user repository
func NewPostgresUserRepository(db *database.DB) UserRepository {
	return &PostgresUserRepository{db: db}
}

// Create inserts a new user
func (u *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, email, username) VALUES ($1, $2, $3)`

	_, err := u.db.Querier(ctx).Exec(ctx, query, user.ID, user.Email, user.Username)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (u *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT id, email, username, created_at FROM users WHERE id = $1`

	user := &models.User{}
	err := u.db.Querier(ctx).QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.Username, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByUsername retrieves a user by username
func (u *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, email, username, created_at FROM users WHERE username = $1`

	user := &models.User{}
	err := u.db.Querier(ctx).QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Email, &user.Username, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}
