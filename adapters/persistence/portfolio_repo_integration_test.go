package persistence

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/minhle/folioforge/internal/domain/portfolio"
	"github.com/minhle/folioforge/internal/domain/user"
	"github.com/minhle/folioforge/pkg/apperror"
	"github.com/minhle/folioforge/pkg/logger"
)

type PortfolioRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool        *pgxpool.Pool
	pgContainer   *postgres.PostgresContainer
	portfolioRepo portfolio.Repository
	userRepo      user.Repository
}

func (s *PortfolioRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	testLogger := logger.NewNop()
	s.portfolioRepo = NewPostgresPortfolioRepo(s.dbPool, testLogger)
	s.userRepo = NewPostgresUserRepo(s.dbPool)
}

func (s *PortfolioRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func TestPortfolioRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(PortfolioRepoIntegrationTestSuite))
}

func (s *PortfolioRepoIntegrationTestSuite) seedUser(username, email string) *user.User {
	u := &user.User{
		ID:                uuid.New(),
		Username:          username,
		Email:             email,
		PasswordHash:      "hashedpassword",
		PortfolioCategory: user.DefaultPortfolioCategory,
		CreatedAt:         time.Now().UTC(),
	}
	s.Require().NoError(s.userRepo.Create(context.Background(), u))
	return u
}

func (s *PortfolioRepoIntegrationTestSuite) newPortfolio(ownerID uuid.UUID, slug string) *portfolio.Portfolio {
	now := time.Now().UTC()
	return &portfolio.Portfolio{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Draft: portfolio.Draft{
			Name:     "John Doe",
			Slug:     slug,
			TagLine:  "Backend engineer",
			Location: "Hanoi",
			About:    strings.Repeat("a", 60),
			Skills:   []portfolio.Skill{{Name: "Go", Level: 90}},
			Projects: []portfolio.Project{{Title: "FolioForge", Category: "web", Tech: []string{"go", "postgres"}}},
			Contact:  portfolio.Contact{Email: "john@example.com", Location: "Hanoi"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *PortfolioRepoIntegrationTestSuite) Test_Save_And_FindByOwner() {
	ctx := context.Background()
	owner := s.seedUser("savefind", "savefind@example.com")

	p := s.newPortfolio(owner.ID, "save-find")
	s.NoError(s.portfolioRepo.Save(ctx, p))

	found, err := s.portfolioRepo.FindByOwner(ctx, owner.ID)
	s.NoError(err)
	s.Equal(p.ID, found.ID)
	s.Equal("save-find", found.Slug)
	s.Len(found.Skills, 1)
	s.Equal(90, found.Skills[0].Level)
	s.Equal([]string{"go", "postgres"}, found.Projects[0].Tech)
}

func (s *PortfolioRepoIntegrationTestSuite) Test_FindByOwner_NotFound() {
	_, err := s.portfolioRepo.FindByOwner(context.Background(), uuid.New())
	s.ErrorIs(err, portfolio.ErrPortfolioNotFound)
}

func (s *PortfolioRepoIntegrationTestSuite) Test_FindBySlug_JoinsOwner() {
	ctx := context.Background()
	owner := s.seedUser("slugjoin", "slugjoin@example.com")

	p := s.newPortfolio(owner.ID, "slug-join")
	s.NoError(s.portfolioRepo.Save(ctx, p))

	view, err := s.portfolioRepo.FindBySlug(ctx, "slug-join")
	s.NoError(err)
	s.Equal(p.ID, view.Portfolio.ID)
	s.Equal("slugjoin", view.Owner.Username)
	s.Equal(user.DefaultPortfolioCategory, view.Owner.PortfolioCategory)
}

func (s *PortfolioRepoIntegrationTestSuite) Test_FindBySlug_NotFound() {
	_, err := s.portfolioRepo.FindBySlug(context.Background(), "missing-slug")
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *PortfolioRepoIntegrationTestSuite) Test_Save_OwnerConflict() {
	ctx := context.Background()
	owner := s.seedUser("ownerconflict", "ownerconflict@example.com")

	s.NoError(s.portfolioRepo.Save(ctx, s.newPortfolio(owner.ID, "owner-conflict-1")))

	err := s.portfolioRepo.Save(ctx, s.newPortfolio(owner.ID, "owner-conflict-2"))
	s.ErrorIs(err, apperror.ErrConflict)

	var appErr *apperror.AppError
	s.ErrorAs(err, &appErr)
	s.Contains(appErr.Details, "owner")
}

func (s *PortfolioRepoIntegrationTestSuite) Test_Save_SlugConflict() {
	ctx := context.Background()
	first := s.seedUser("slugconflict1", "slugconflict1@example.com")
	second := s.seedUser("slugconflict2", "slugconflict2@example.com")

	s.NoError(s.portfolioRepo.Save(ctx, s.newPortfolio(first.ID, "slug-conflict")))

	err := s.portfolioRepo.Save(ctx, s.newPortfolio(second.ID, "slug-conflict"))
	s.ErrorIs(err, apperror.ErrConflict)

	var appErr *apperror.AppError
	s.ErrorAs(err, &appErr)
	s.Contains(appErr.Details, "slug")
}

func (s *PortfolioRepoIntegrationTestSuite) Test_UpdateProjects() {
	ctx := context.Background()
	owner := s.seedUser("updateprojects", "updateprojects@example.com")

	p := s.newPortfolio(owner.ID, "update-projects")
	s.NoError(s.portfolioRepo.Save(ctx, p))

	mirrored := []portfolio.Project{{
		Title:    "FolioForge",
		Category: "web",
		Tech:     []string{"go"},
		Image:    "https://res.cloudinary.com/demo/image/upload/folio.png",
	}}
	s.NoError(s.portfolioRepo.UpdateProjects(ctx, p.ID, mirrored))

	found, err := s.portfolioRepo.FindByOwner(ctx, owner.ID)
	s.NoError(err)
	s.Equal(mirrored[0].Image, found.Projects[0].Image)
}

func (s *PortfolioRepoIntegrationTestSuite) Test_UserRepo_Lifecycle() {
	ctx := context.Background()
	u := s.seedUser("lifecycle", "lifecycle@example.com")

	byEmail, err := s.userRepo.FindByIdentifier(ctx, "lifecycle@example.com")
	s.NoError(err)
	s.Equal(u.ID, byEmail.ID)

	byUsername, err := s.userRepo.FindByIdentifier(ctx, "lifecycle")
	s.NoError(err)
	s.Equal(u.ID, byUsername.ID)

	dup := &user.User{
		ID:                uuid.New(),
		Username:          "lifecycle",
		Email:             "other-lifecycle@example.com",
		PasswordHash:      "hashedpassword",
		PortfolioCategory: user.DefaultPortfolioCategory,
		CreatedAt:         time.Now().UTC(),
	}
	s.ErrorIs(s.userRepo.Create(ctx, dup), apperror.ErrConflict)

	s.NoError(s.userRepo.SetHasPortfolio(ctx, u.ID, true))
	found, err := s.userRepo.FindByID(ctx, u.ID)
	s.NoError(err)
	s.True(found.HasPortfolio)

	s.ErrorIs(s.userRepo.SetHasPortfolio(ctx, uuid.New(), true), apperror.ErrNotFound)
}
