package wizard

import (
	"strings"
	"unicode/utf8"

	"github.com/minhle/folioforge/internal/domain/portfolio"
	"github.com/minhle/folioforge/internal/validation"
)

// DraftUpdate is a partial merge against the draft: only non-nil fields
// replace their top-level key. Nested objects (social, contact) are
// replaced wholesale, so the step sending them must carry the sibling
// fields it is not editing.
type DraftUpdate struct {
	Name        *string                 `json:"name,omitempty"`
	Slug        *string                 `json:"slug,omitempty"`
	TagLine     *string                 `json:"tagLine,omitempty"`
	Description *string                 `json:"description,omitempty"`
	Location    *string                 `json:"location,omitempty"`
	Social      *portfolio.Social       `json:"social,omitempty"`
	About       *string                 `json:"about,omitempty"`
	Skills      *[]portfolio.Skill      `json:"skills,omitempty"`
	Stats       *[]portfolio.Stat       `json:"stats,omitempty"`
	Projects    *[]portfolio.Project    `json:"projects,omitempty"`
	Experience  *[]portfolio.Experience `json:"experience,omitempty"`
	Education   *[]portfolio.Education  `json:"education,omitempty"`
	Contact     *portfolio.Contact      `json:"contact,omitempty"`
}

// FormState owns the draft plus a derived {valid, errors} pair for every
// step, recomputed on each merge. It never touches the network.
type FormState struct {
	draft   portfolio.Draft
	results map[validation.StepID]validation.StepResult
}

func NewFormState() *FormState {
	s := &FormState{}
	s.recompute()
	return s
}

// NewFormStateFrom resumes a state from a stored draft.
func NewFormStateFrom(draft portfolio.Draft) *FormState {
	s := &FormState{draft: draft}
	s.recompute()
	return s
}

// Apply merges the update into the draft and revalidates all steps. The
// about field is truncated at the input bound rather than rejected.
func (s *FormState) Apply(update DraftUpdate) {
	if update.Name != nil {
		s.draft.Name = *update.Name
	}
	if update.Slug != nil {
		s.draft.Slug = strings.TrimSpace(*update.Slug)
	}
	if update.TagLine != nil {
		s.draft.TagLine = *update.TagLine
	}
	if update.Description != nil {
		s.draft.Description = *update.Description
	}
	if update.Location != nil {
		s.draft.Location = *update.Location
	}
	if update.Social != nil {
		s.draft.Social = *update.Social
	}
	if update.About != nil {
		s.draft.About = truncateRunes(*update.About, validation.AboutMaxLength)
	}
	if update.Skills != nil {
		s.draft.Skills = *update.Skills
	}
	if update.Stats != nil {
		s.draft.Stats = *update.Stats
	}
	if update.Projects != nil {
		s.draft.Projects = *update.Projects
	}
	if update.Experience != nil {
		s.draft.Experience = *update.Experience
	}
	if update.Education != nil {
		s.draft.Education = *update.Education
	}
	if update.Contact != nil {
		s.draft.Contact = *update.Contact
	}
	s.recompute()
}

// Draft returns a snapshot copy of the current draft.
func (s *FormState) Draft() portfolio.Draft {
	return s.draft
}

// Result returns the validation outcome for one step against the last
// applied draft.
func (s *FormState) Result(id validation.StepID) validation.StepResult {
	return s.results[id]
}

func (s *FormState) Results() map[validation.StepID]validation.StepResult {
	out := make(map[validation.StepID]validation.StepResult, len(s.results))
	for k, v := range s.results {
		out[k] = v
	}
	return out
}

// Passable reports whether the wizard may advance past the step: a failing
// optional step does not block navigation.
func (s *FormState) Passable(id validation.StepID) bool {
	cfg, ok := validation.ConfigFor(id)
	if !ok {
		return false
	}
	return s.results[id].Valid || !cfg.Required
}

func (s *FormState) recompute() {
	s.results = validation.ValidateAll(&s.draft)
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
