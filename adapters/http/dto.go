package http

import (
	"time"

	"github.com/minhle/folioforge/internal/domain/portfolio"
	"github.com/minhle/folioforge/internal/domain/theme"
)

// Portfolio DTOs

type SocialDTO struct {
	Github   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedIn,omitempty"`
	Mail     string `json:"mail,omitempty"`
}

type CreateDataRequest struct {
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	TagLine     string    `json:"tagLine"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Social      SocialDTO `json:"social"`
	About       string    `json:"about"`
	Skills      []struct {
		Name  string `json:"name"`
		Level int    `json:"level"`
	} `json:"skills"`
	Stats []struct {
		Value string `json:"value"`
		Label string `json:"label"`
	} `json:"stats"`
	Projects []struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Image       string   `json:"image"`
		Tech        []string `json:"tech"`
		Category    string   `json:"category"`
		Github      string   `json:"github"`
		Demo        string   `json:"demo"`
		Featured    bool     `json:"featured"`
	} `json:"projects"`
	Experience []struct {
		Position    string `json:"position"`
		Company     string `json:"company"`
		Duration    string `json:"duration"`
		Description string `json:"description"`
	} `json:"experience"`
	Education []struct {
		Degree string `json:"degree"`
		School string `json:"school"`
		Year   string `json:"year"`
		Cgpa   string `json:"cgpa"`
	} `json:"education"`
	Contact struct {
		Email    string    `json:"email"`
		Location string    `json:"location"`
		Social   SocialDTO `json:"social"`
	} `json:"contact"`
	// Owner is deliberately not bound: ownership comes from the session.
}

func (req *CreateDataRequest) ToDraft() portfolio.Draft {
	draft := portfolio.Draft{
		Name:        req.Name,
		Slug:        req.Slug,
		TagLine:     req.TagLine,
		Description: req.Description,
		Location:    req.Location,
		Social:      portfolio.Social(req.Social),
		About:       req.About,
		Contact: portfolio.Contact{
			Email:    req.Contact.Email,
			Location: req.Contact.Location,
			Social:   portfolio.Social(req.Contact.Social),
		},
	}
	for _, s := range req.Skills {
		draft.Skills = append(draft.Skills, portfolio.Skill{Name: s.Name, Level: s.Level})
	}
	for _, s := range req.Stats {
		draft.Stats = append(draft.Stats, portfolio.Stat{Value: s.Value, Label: s.Label})
	}
	for _, p := range req.Projects {
		draft.Projects = append(draft.Projects, portfolio.Project{
			Title:       p.Title,
			Description: p.Description,
			Image:       p.Image,
			Tech:        p.Tech,
			Category:    p.Category,
			Github:      p.Github,
			Demo:        p.Demo,
			Featured:    p.Featured,
		})
	}
	for _, e := range req.Experience {
		draft.Experience = append(draft.Experience, portfolio.Experience{
			Position:    e.Position,
			Company:     e.Company,
			Duration:    e.Duration,
			Description: e.Description,
		})
	}
	for _, e := range req.Education {
		draft.Education = append(draft.Education, portfolio.Education{
			Degree: e.Degree,
			School: e.School,
			Year:   e.Year,
			Cgpa:   e.Cgpa,
		})
	}
	return draft
}

type PortfolioDTO struct {
	ID string `json:"id"`
	portfolio.Draft
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToPortfolioDTO(p *portfolio.Portfolio) PortfolioDTO {
	return PortfolioDTO{
		ID:        p.ID.String(),
		Draft:     p.Draft,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type OwnerDTO struct {
	Username          string `json:"username"`
	PortfolioCategory string `json:"portfolioCategory"`
	Theme             string `json:"theme"`
}

type PublicViewDTO struct {
	PortfolioDTO
	Owner OwnerDTO `json:"owner"`
}

func ToPublicViewDTO(v *portfolio.PublicView) PublicViewDTO {
	return PublicViewDTO{
		PortfolioDTO: ToPortfolioDTO(&v.Portfolio),
		Owner: OwnerDTO{
			Username:          v.Owner.Username,
			PortfolioCategory: v.Owner.PortfolioCategory,
			Theme:             theme.ForCategory(v.Owner.PortfolioCategory).Key,
		},
	}
}

// Auth DTOs

type signupRequest struct {
	Username string `json:"username" binding:"required,min=4"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}
