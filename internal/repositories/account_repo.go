package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/huyhoangtran00/portfolio/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrEmailExists = errors.New("email already exists")
)

const uniqueViolation = "23505"

const accountColumns = `id, email, password_hash, name, job_title, bio, profile_image_url, email_verified, created_at, updated_at`

type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `INSERT INTO accounts (email, password_hash, name, job_title, bio, profile_image_url, email_verified)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		account.Email,
		account.PasswordHash,
		account.Name,
		account.JobTitle,
		account.Bio,
		account.ProfileImageURL,
		account.EmailVerified,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrEmailExists
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.getOne(ctx, query, email)
}

// UpdateProfile applies the fields present in update; a present null clears the column.
func (r *PostgresAccountRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update models.ProfileUpdate) (*models.Account, error) {
	query := `UPDATE accounts
	          SET name = CASE WHEN $2 THEN $3 ELSE name END,
	              job_title = CASE WHEN $4 THEN $5 ELSE job_title END,
	              bio = CASE WHEN $6 THEN $7 ELSE bio END,
	              updated_at = NOW()
	          WHERE id = $1
	          RETURNING ` + accountColumns

	return r.getOne(ctx, query, id,
		update.Name.Set, update.Name.Value,
		update.JobTitle.Set, update.JobTitle.Value,
		update.Bio.Set, update.Bio.Value,
	)
}

func (r *PostgresAccountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE accounts SET password_hash = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateProfileImage sets or, when imageURL is nil, clears the profile image reference.
func (r *PostgresAccountRepository) UpdateProfileImage(ctx context.Context, id uuid.UUID, imageURL *string) (*models.Account, error) {
	query := `UPDATE accounts SET profile_image_url = $2, updated_at = NOW()
	          WHERE id = $1
	          RETURNING ` + accountColumns
	return r.getOne(ctx, query, id, imageURL)
}

// Delete removes the account; owned projects go with it through ON DELETE CASCADE.
func (r *PostgresAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM accounts WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *PostgresAccountRepository) getOne(ctx context.Context, query string, args ...any) (*models.Account, error) {
	var account models.Account
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Name,
		&account.JobTitle,
		&account.Bio,
		&account.ProfileImageURL,
		&account.EmailVerified,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
