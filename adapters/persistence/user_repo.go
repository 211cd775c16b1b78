package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhle/folioforge/internal/domain/user"
	"github.com/minhle/folioforge/pkg/apperror"
)

type postgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(db *pgxpool.Pool) user.Repository {
	return &postgresUserRepo{db: db}
}

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.HasPaid,
		&u.HasPortfolio,
		&u.PortfolioCategory,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperror.NewInternal("failed to scan user row", err)
	}
	return u, nil
}

func (r *postgresUserRepo) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, has_paid, has_portfolio, portfolio_category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		u.ID, u.Username, u.Email, u.PasswordHash,
		u.HasPaid, u.HasPortfolio, u.PortfolioCategory, u.CreatedAt,
	)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return apperror.NewConflict("user", "email or username", u.Email)
		}
		return apperror.NewInternal("failed to create user", err)
	}
	return nil
}

func (r *postgresUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `
		SELECT id, username, email, password_hash, has_paid, has_portfolio, portfolio_category, created_at
		FROM users
		WHERE id = $1
	`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *postgresUserRepo) FindByIdentifier(ctx context.Context, identifier string) (*user.User, error) {
	query := `
		SELECT id, username, email, password_hash, has_paid, has_portfolio, portfolio_category, created_at
		FROM users
		WHERE email = $1 OR username = $1
	`
	return scanUser(r.db.QueryRow(ctx, query, identifier))
}

func (r *postgresUserRepo) SetHasPortfolio(ctx context.Context, id uuid.UUID, has bool) error {
	query := `UPDATE users SET has_portfolio = $2 WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id, has)
	if err != nil {
		return apperror.NewInternal("failed to update has_portfolio", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", id.String())
	}
	return nil
}
