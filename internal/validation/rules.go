package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/minhle/folioforge/internal/domain/portfolio"
)

const (
	AboutMinLength = 50
	AboutMaxLength = 1000

	SkillLevelMin = 1
	SkillLevelMax = 100
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail applies the simplified RFC check the published form uses.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateStep checks one step's fields against its rules. It is pure:
// the same draft snapshot always yields the same result. List-typed steps
// only fail on the entries actually present.
func ValidateStep(id StepID, draft *portfolio.Draft) StepResult {
	var errs []FieldError

	switch id {
	case StepBasicInfo:
		if strings.TrimSpace(draft.Name) == "" {
			errs = append(errs, FieldError{Path: "name", Message: "Name is required"})
		}
		if strings.TrimSpace(draft.Slug) == "" {
			errs = append(errs, FieldError{Path: "slug", Message: "Slug is required"})
		} else if !portfolio.ValidSlug(draft.Slug) {
			errs = append(errs, FieldError{Path: "slug", Message: "Slug must be lowercase, 3+ characters, and contain only letters, numbers, and hyphens"})
		}
		if strings.TrimSpace(draft.Location) == "" {
			errs = append(errs, FieldError{Path: "location", Message: "Location is required"})
		}

	case StepAbout:
		about := strings.TrimSpace(draft.About)
		if about == "" {
			errs = append(errs, FieldError{Path: "about", Message: "About section is required"})
		} else if utf8.RuneCountInString(about) < AboutMinLength {
			errs = append(errs, FieldError{Path: "about", Message: fmt.Sprintf("About section should be at least %d characters", AboutMinLength)})
		} else if utf8.RuneCountInString(about) > AboutMaxLength {
			errs = append(errs, FieldError{Path: "about", Message: fmt.Sprintf("About section must be at most %d characters", AboutMaxLength)})
		}

	case StepSkills:
		for i, skill := range draft.Skills {
			if strings.TrimSpace(skill.Name) == "" {
				errs = append(errs, FieldError{Path: fmt.Sprintf("skills[%d].name", i), Message: fmt.Sprintf("Skill %d: Name is required", i+1)})
			}
			if skill.Level < SkillLevelMin || skill.Level > SkillLevelMax {
				errs = append(errs, FieldError{Path: fmt.Sprintf("skills[%d].level", i), Message: fmt.Sprintf("Skill %d: Level must be between %d-%d", i+1, SkillLevelMin, SkillLevelMax)})
			}
		}

	case StepStats:
		for i, stat := range draft.Stats {
			if strings.TrimSpace(stat.Value) == "" {
				errs = append(errs, FieldError{Path: fmt.Sprintf("stats[%d].value", i), Message: fmt.Sprintf("Stat %d: Value is required", i+1)})
			}
			if strings.TrimSpace(stat.Label) == "" {
				errs = append(errs, FieldError{Path: fmt.Sprintf("stats[%d].label", i), Message: fmt.Sprintf("Stat %d: Label is required", i+1)})
			}
		}

	case StepProjects:
		for i, project := range draft.Projects {
			if strings.TrimSpace(project.Title) == "" {
				errs = append(errs, FieldError{Path: fmt.Sprintf("projects[%d].title", i), Message: fmt.Sprintf("Project %d: Title is required", i+1)})
			}
			if strings.TrimSpace(project.Category) == "" {
				errs = append(errs, FieldError{Path: fmt.Sprintf("projects[%d].category", i), Message: fmt.Sprintf("Project %d: Category is required", i+1)})
			}
			if len(project.Tech) == 0 {
				errs = append(errs, FieldError{Path: fmt.Sprintf("projects[%d].tech", i), Message: fmt.Sprintf("Project %d: At least one technology is required", i+1)})
			}
		}

	case StepExperience:
		for i, exp := range draft.Experience {
			if strings.TrimSpace(exp.Position) == "" {
				errs = append(errs, FieldError{Path: fmt.Sprintf("experience[%d].position", i), Message: fmt.Sprintf("Experience %d: Position is required", i+1)})
			}
			if strings.TrimSpace(exp.Company) == "" {
				errs = append(errs, FieldError{Path: fmt.Sprintf("experience[%d].company", i), Message: fmt.Sprintf("Experience %d: Company is required", i+1)})
			}
			if strings.TrimSpace(exp.Duration) == "" {
				errs = append(errs, FieldError{Path: fmt.Sprintf("experience[%d].duration", i), Message: fmt.Sprintf("Experience %d: Duration is required", i+1)})
			}
		}

	case StepEducation:
		for i, edu := range draft.Education {
			if strings.TrimSpace(edu.Degree) == "" {
				errs = append(errs, FieldError{Path: fmt.Sprintf("education[%d].degree", i), Message: fmt.Sprintf("Education %d: Degree is required", i+1)})
			}
			if strings.TrimSpace(edu.School) == "" {
				errs = append(errs, FieldError{Path: fmt.Sprintf("education[%d].school", i), Message: fmt.Sprintf("Education %d: School is required", i+1)})
			}
			if strings.TrimSpace(edu.Year) == "" {
				errs = append(errs, FieldError{Path: fmt.Sprintf("education[%d].year", i), Message: fmt.Sprintf("Education %d: Year is required", i+1)})
			}
		}

	case StepContact:
		if strings.TrimSpace(draft.Contact.Email) == "" {
			errs = append(errs, FieldError{Path: "contact.email", Message: "Email is required"})
		} else if !ValidEmail(draft.Contact.Email) {
			errs = append(errs, FieldError{Path: "contact.email", Message: "Valid email is required"})
		}
		if strings.TrimSpace(draft.Contact.Location) == "" {
			errs = append(errs, FieldError{Path: "contact.location", Message: "Contact location is required"})
		}

	case StepSocialLinks, StepPreview:
		// no fields of their own
	}

	return StepResult{Valid: len(errs) == 0, Errors: errs}
}

// ValidateAll runs every step against the same snapshot, so the step
// navigation can show status for non-current steps too.
func ValidateAll(draft *portfolio.Draft) map[StepID]StepResult {
	results := make(map[StepID]StepResult, StepCount)
	for _, step := range steps {
		results[step.ID] = ValidateStep(step.ID, draft)
	}
	return results
}

// ValidateDraft is the server-side acceptance check for POST /api/data:
// every required step must pass and every list entry present must satisfy
// its own rules. Optional steps with no entries contribute nothing.
func ValidateDraft(draft *portfolio.Draft) []FieldError {
	var errs []FieldError
	for _, step := range steps {
		result := ValidateStep(step.ID, draft)
		if !result.Valid {
			errs = append(errs, result.Errors...)
		}
	}
	return errs
}
