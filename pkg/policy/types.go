package policy

import "github.com/vidinfra/tenbyte-userdata/pkg/config"

// Severity represents the severity level of an advisory.
type Severity string

const (
	// SeverityInfo is for informational notes.
	SeverityInfo Severity = "info"

	// SeverityWarning is for findings the operator should review.
	SeverityWarning Severity = "warning"
)

// Policy represents an advisory rule with its Rego code.
type Policy struct {
	// Name is the unique name of the policy.
	Name string `json:"name"`

	// Description provides a human-readable description.
	Description string `json:"description"`

	// Rego contains the Rego policy code. The package must define a
	// "warn" set.
	Rego string `json:"rego"`

	// Severity is the default severity for advisories.
	Severity Severity `json:"severity"`

	// Enabled indicates if the policy is active.
	Enabled bool `json:"enabled"`

	// Builtin marks policies shipped with the binary.
	Builtin bool `json:"builtin"`
}

// Advisory is a single non-blocking finding.
type Advisory struct {
	// Policy is the name of the policy that produced the advisory.
	Policy string `json:"policy"`

	// Field is the record field involved, if any.
	Field string `json:"field,omitempty"`

	// Message is a human-readable message.
	Message string `json:"message"`

	// Severity is the advisory severity.
	Severity Severity `json:"severity"`
}

// Result is the outcome of evaluating all enabled policies.
type Result struct {
	// Advisories are sorted by policy name, then message.
	Advisories []Advisory `json:"advisories"`

	// Errors lists policies that failed to evaluate.
	Errors []string `json:"errors,omitempty"`
}

// HasWarnings reports whether any advisory is a warning.
func (r *Result) HasWarnings() bool {
	for _, a := range r.Advisories {
		if a.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// Filter returns the advisories at or above min.
func (r *Result) Filter(min Severity) []Advisory {
	out := make([]Advisory, 0, len(r.Advisories))
	for _, a := range r.Advisories {
		if rank(a.Severity) >= rank(min) {
			out = append(out, a)
		}
	}
	return out
}

func rank(s Severity) int {
	switch s {
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Input is the document policies are evaluated against.
type Input struct {
	Config config.Record `json:"config"`
	Limits Limits        `json:"limits"`
}

// Limits carries thresholds shared with the Go side of validation.
type Limits struct {
	MinPasswordLength int `json:"min_password_length"`
}

// NewInput builds the policy input for r.
func NewInput(r config.Record) *Input {
	return &Input{
		Config: r,
		Limits: Limits{MinPasswordLength: config.MinPasswordLength},
	}
}
