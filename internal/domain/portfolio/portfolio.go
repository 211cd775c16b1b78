package portfolio

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Social holds the optional outbound links shown on a portfolio. The JSON
// names follow the published wire format.
type Social struct {
	Github   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedIn,omitempty"`
	Mail     string `json:"mail,omitempty"`
}

type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type Stat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	Tech        []string `json:"tech"`
	Category    string   `json:"category"`
	Github      string   `json:"github,omitempty"`
	Demo        string   `json:"demo,omitempty"`
	Featured    bool     `json:"featured,omitempty"`
}

type Experience struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description,omitempty"`
}

type Education struct {
	Degree string `json:"degree"`
	School string `json:"school"`
	Year   string `json:"year"`
	Cgpa   string `json:"cgpa,omitempty"`
}

type Contact struct {
	Email    string `json:"email"`
	Location string `json:"location"`
	Social   Social `json:"social"`
}

// Draft is the in-progress portfolio a wizard session edits. It carries no
// owner: ownership is attached server-side at persistence time.
type Draft struct {
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	TagLine     string       `json:"tagLine,omitempty"`
	Description string       `json:"description,omitempty"`
	Location    string       `json:"location"`
	Social      Social       `json:"social"`
	About       string       `json:"about"`
	Skills      []Skill      `json:"skills"`
	Stats       []Stat       `json:"stats"`
	Projects    []Project    `json:"projects"`
	Experience  []Experience `json:"experience"`
	Education   []Education  `json:"education"`
	Contact     Contact      `json:"contact"`
}

// Portfolio is a persisted draft. At most one exists per owner.
type Portfolio struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`
	Draft
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerSummary is the slice of the owning account exposed on the public
// read path, enough for the theme layer to pick a renderer.
type OwnerSummary struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	PortfolioCategory string    `json:"portfolioCategory"`
}

// PublicView is what GET /api/data/{slug} returns: the portfolio joined
// with its owner summary.
type PublicView struct {
	Portfolio Portfolio    `json:"portfolio"`
	Owner     OwnerSummary `json:"owner"`
}

var (
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrInvalidSlug       = errors.New("slug must be lowercase letters, numbers, and hyphens, at least 3 characters")

	slugRegex = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// ValidSlug reports whether slug is a publishable URL identifier.
func ValidSlug(slug string) bool {
	return len(slug) >= 3 && slugRegex.MatchString(slug)
}

type Repository interface {
	// Save inserts a new portfolio. The owner-uniqueness and slug-uniqueness
	// invariants are enforced by the store at write time.
	Save(ctx context.Context, p *Portfolio) error
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*Portfolio, error)
	FindBySlug(ctx context.Context, slug string) (*PublicView, error)
	// UpdateProjects rewrites the projects section only. Used by the worker
	// after mirroring project images to the CDN.
	UpdateProjects(ctx context.Context, id uuid.UUID, projects []Project) error
}

// Cache is a read-through cache for the public view, keyed by slug.
type Cache interface {
	GetBySlug(ctx context.Context, slug string) (*PublicView, error)
	SetBySlug(ctx context.Context, slug string, view *PublicView) error
	DeleteBySlug(ctx context.Context, slug string) error
}
