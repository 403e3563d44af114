package domain

type Outcome string

const (
	OutcomeAllow    Outcome = "allow"
	OutcomeRedirect Outcome = "redirect"
)

// Decision is the result of gating one request against a role-scoped resource.
// Location is set for redirects; Role is the resolved role when one exists.
type Decision struct {
	Outcome  Outcome
	Location string
	Role     Role
	Reason   Kind
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}
