package theme

// Theme identifies a public renderer. Rendering itself lives in the
// frontend; the API only reports which theme a portfolio should use.
type Theme struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

var (
	Standard = Theme{Key: "standard", Name: "Standard"}
	Aurora   = Theme{Key: "aurora", Name: "Aurora"}
)

var byCategory = map[string]Theme{
	"1": Standard,
	"2": Aurora,
}

// ForCategory maps an account's portfolio category to a theme. Unknown
// categories fall back to the standard theme.
func ForCategory(category string) Theme {
	if t, ok := byCategory[category]; ok {
		return t
	}
	return Standard
}
