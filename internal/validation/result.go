package validation

// FieldError pins a message to the field it belongs to. Path uses the
// draft's wire names with 0-based list indexes, e.g. "projects[2].title",
// so the UI can route errors without parsing prose.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type StepResult struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors"`
}

// Messages flattens the result into display strings.
func (r StepResult) Messages() []string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return msgs
}
