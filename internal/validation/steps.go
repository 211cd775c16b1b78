package validation

// StepID numbers the wizard screens, 1-based.
type StepID int

const (
	StepBasicInfo StepID = iota + 1
	StepSocialLinks
	StepAbout
	StepSkills
	StepStats
	StepProjects
	StepExperience
	StepEducation
	StepContact
	StepPreview
)

const StepCount = 10

type StepConfig struct {
	ID          StepID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

var steps = [StepCount]StepConfig{
	{ID: StepBasicInfo, Name: "Basic Info", Description: "Personal details", Required: true},
	{ID: StepSocialLinks, Name: "Social Links", Description: "Social profiles", Required: false},
	{ID: StepAbout, Name: "About", Description: "Your story", Required: true},
	{ID: StepSkills, Name: "Skills", Description: "Technical skills", Required: false},
	{ID: StepStats, Name: "Stats", Description: "Achievements", Required: false},
	{ID: StepProjects, Name: "Projects", Description: "Your work", Required: false},
	{ID: StepExperience, Name: "Experience", Description: "Work history", Required: false},
	{ID: StepEducation, Name: "Education", Description: "Academic background", Required: false},
	{ID: StepContact, Name: "Contact", Description: "Contact details", Required: true},
	{ID: StepPreview, Name: "Preview", Description: "Final review", Required: false},
}

// Steps returns the wizard step configurations in order.
func Steps() []StepConfig {
	out := make([]StepConfig, StepCount)
	copy(out[:], steps[:])
	return out
}

// ConfigFor returns the configuration for a step. ok is false for ids
// outside [1..StepCount].
func ConfigFor(id StepID) (StepConfig, bool) {
	if id < StepBasicInfo || id > StepPreview {
		return StepConfig{}, false
	}
	return steps[id-1], true
}
