package doctor

// Fixer is implemented by checks that can repair what they find. CanFix
// and Fix refer to the most recent Run.
type Fixer interface {
	CanFix() bool
	Fix() []FixResult
}

// FixResult is one attempted repair.
type FixResult struct {
	// Path is the file or directory the repair touched.
	Path        string `json:"path"`
	Fixed       bool   `json:"fixed"`
	// Description says what was done, or why it failed.
	Description string `json:"description"`
	Error       error  `json:"-"`
}
