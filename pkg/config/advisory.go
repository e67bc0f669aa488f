package config

import "fmt"

// Hint is a non-blocking note about a record. Hints never prevent a compile.
type Hint struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// HintPasswordLength is reported for short, non-empty passwords.
const HintPasswordLength = "password-length"

// Advisories returns the inline hints for r. The policy engine reports a
// superset of these; this function exists for callers that need the hint
// on every keystroke without evaluating rego.
func Advisories(r Record) []Hint {
	var hints []Hint
	if PasswordTooShort(r.Password) {
		hints = append(hints, Hint{
			Code:    HintPasswordLength,
			Field:   "password",
			Message: fmt.Sprintf("Password must be at least %d characters", MinPasswordLength),
		})
	}
	return hints
}
