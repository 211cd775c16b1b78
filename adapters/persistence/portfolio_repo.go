package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/minhle/folioforge/internal/domain/portfolio"
	"github.com/minhle/folioforge/pkg/apperror"
	"github.com/minhle/folioforge/pkg/logger"
)

type postgresPortfolioRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresPortfolioRepo(db *pgxpool.Pool, log logger.Logger) portfolio.Repository {
	return &postgresPortfolioRepo{db: db, logger: log}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// sections gathers the JSONB columns so scan/save stay in one place.
type sections struct {
	social     []byte
	skills     []byte
	stats      []byte
	projects   []byte
	experience []byte
	education  []byte
	contact    []byte
}

func marshalSections(p *portfolio.Portfolio) (*sections, error) {
	s := &sections{}
	var err error
	if s.social, err = json.Marshal(p.Social); err != nil {
		return nil, apperror.NewInternal("failed to marshal social", err)
	}
	if s.skills, err = json.Marshal(p.Skills); err != nil {
		return nil, apperror.NewInternal("failed to marshal skills", err)
	}
	if s.stats, err = json.Marshal(p.Stats); err != nil {
		return nil, apperror.NewInternal("failed to marshal stats", err)
	}
	if s.projects, err = json.Marshal(p.Projects); err != nil {
		return nil, apperror.NewInternal("failed to marshal projects", err)
	}
	if s.experience, err = json.Marshal(p.Experience); err != nil {
		return nil, apperror.NewInternal("failed to marshal experience", err)
	}
	if s.education, err = json.Marshal(p.Education); err != nil {
		return nil, apperror.NewInternal("failed to marshal education", err)
	}
	if s.contact, err = json.Marshal(p.Contact); err != nil {
		return nil, apperror.NewInternal("failed to marshal contact", err)
	}
	return s, nil
}

func (r *postgresPortfolioRepo) unmarshalSections(p *portfolio.Portfolio, s *sections) {
	// a corrupt section degrades to empty rather than failing the read
	if err := json.Unmarshal(s.social, &p.Social); err != nil {
		r.logger.Warn("failed to unmarshal social", zap.String("portfolio_id", p.ID.String()), zap.Error(err))
	}
	if err := json.Unmarshal(s.skills, &p.Skills); err != nil {
		p.Skills = []portfolio.Skill{}
	}
	if err := json.Unmarshal(s.stats, &p.Stats); err != nil {
		p.Stats = []portfolio.Stat{}
	}
	if err := json.Unmarshal(s.projects, &p.Projects); err != nil {
		p.Projects = []portfolio.Project{}
	}
	if err := json.Unmarshal(s.experience, &p.Experience); err != nil {
		p.Experience = []portfolio.Experience{}
	}
	if err := json.Unmarshal(s.education, &p.Education); err != nil {
		p.Education = []portfolio.Education{}
	}
	if err := json.Unmarshal(s.contact, &p.Contact); err != nil {
		r.logger.Warn("failed to unmarshal contact", zap.String("portfolio_id", p.ID.String()), zap.Error(err))
	}
}

const portfolioColumns = `id, owner_id, name, slug, tag_line, description, location, social, about,
		skills, stats, projects, experience, education, contact, created_at, updated_at`

func (r *postgresPortfolioRepo) scanPortfolio(row pgx.Row) (*portfolio.Portfolio, error) {
	p := &portfolio.Portfolio{}
	s := &sections{}

	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Slug,
		&p.TagLine,
		&p.Description,
		&p.Location,
		&s.social,
		&p.About,
		&s.skills,
		&s.stats,
		&s.projects,
		&s.experience,
		&s.education,
		&s.contact,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, portfolio.ErrPortfolioNotFound
		}
		return nil, apperror.NewInternal("failed to scan portfolio row", err)
	}

	r.unmarshalSections(p, s)
	return p, nil
}

func (r *postgresPortfolioRepo) Save(ctx context.Context, p *portfolio.Portfolio) error {
	s, err := marshalSections(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO portfolios (` + portfolioColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err = r.db.Exec(ctx, query,
		p.ID, p.OwnerID, p.Name, p.Slug, p.TagLine, p.Description, p.Location,
		s.social, p.About, s.skills, s.stats, s.projects, s.experience,
		s.education, s.contact, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			// the constraint name tells apart the two uniqueness invariants
			if strings.Contains(pgErr.ConstraintName, "owner") {
				return apperror.NewConflict("portfolio", "owner", p.OwnerID.String())
			}
			return apperror.NewConflict("portfolio", "slug", p.Slug)
		}
		return apperror.NewInternal("failed to save portfolio", err)
	}
	return nil
}

func (r *postgresPortfolioRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*portfolio.Portfolio, error) {
	query := `
		SELECT ` + portfolioColumns + `
		FROM portfolios
		WHERE owner_id = $1
	`
	return r.scanPortfolio(r.db.QueryRow(ctx, query, ownerID))
}

func (r *postgresPortfolioRepo) FindBySlug(ctx context.Context, slug string) (*portfolio.PublicView, error) {
	builder := psql.Select(
		"p.id", "p.owner_id", "p.name", "p.slug", "p.tag_line", "p.description", "p.location",
		"p.social", "p.about", "p.skills", "p.stats", "p.projects", "p.experience",
		"p.education", "p.contact", "p.created_at", "p.updated_at",
		"u.id", "u.username", "u.portfolio_category",
	).
		From("portfolios p").
		Join("users u ON u.id = p.owner_id").
		Where(sq.Eq{"p.slug": slug})

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build portfolio query", err)
	}

	p := &portfolio.Portfolio{}
	s := &sections{}
	owner := portfolio.OwnerSummary{}

	err = r.db.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Slug, &p.TagLine, &p.Description, &p.Location,
		&s.social, &p.About, &s.skills, &s.stats, &s.projects, &s.experience,
		&s.education, &s.contact, &p.CreatedAt, &p.UpdatedAt,
		&owner.ID, &owner.Username, &owner.PortfolioCategory,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("portfolio", slug)
		}
		return nil, apperror.NewInternal("failed to query portfolio by slug", err)
	}

	r.unmarshalSections(p, s)
	return &portfolio.PublicView{Portfolio: *p, Owner: owner}, nil
}

func (r *postgresPortfolioRepo) UpdateProjects(ctx context.Context, id uuid.UUID, projects []portfolio.Project) error {
	projectsBytes, err := json.Marshal(projects)
	if err != nil {
		return apperror.NewInternal("failed to marshal projects for update", err)
	}

	query := `UPDATE portfolios SET projects = $2, updated_at = NOW() WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id, projectsBytes)
	if err != nil {
		return apperror.NewInternal("failed to update portfolio projects", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("portfolio", id.String())
	}
	return nil
}
