// Package workflow holds the declarative stage tables behind the approval
// chains. Each workflow is an ordered list of stages; a stage names the role
// allowed to respond, the statuses the record may be in beforehand, and the
// statuses the stage is permitted to write. Services consult the table instead
// of hardcoding role and status literals per endpoint, which also closes the
// respond-out-of-order hole: a stage whose prior status has not been reached
// is rejected.
package workflow

import "errors"

// Role names as stored on the roles table. Authorization is exact string
// comparison against these.
const (
	RoleAdmin = "admin"
	RoleHR    = "hr"
	RoleHOS   = "hos"
	RoleStaff = "staff"
)

var (
	ErrUnknownStage   = errors.New("unknown workflow stage")
	ErrRoleNotAllowed = errors.New("role not allowed for this stage")
	ErrOutOfOrder     = errors.New("stage responded out of order")
	ErrInvalidStatus  = errors.New("status not permitted for this stage")
)

// Stage is one role-gated transition in an approval chain.
type Stage struct {
	Name         string
	RequiredRole string
	// AllowedPrior lists the statuses the record must currently hold.
	AllowedPrior []string
	// Results lists the statuses this stage may write. Chain stages have a
	// single result; decision stages offer the caller a closed choice.
	Results []string
}

// Definition is an ordered approval chain.
type Definition struct {
	Name   string
	Stages []Stage
}

func (d Definition) Stage(name string) (Stage, error) {
	for _, s := range d.Stages {
		if s.Name == name {
			return s, nil
		}
	}
	return Stage{}, ErrUnknownStage
}

// Check validates a stage response attempt: the caller's role, the record's
// current status, and the status the caller wants to write. It mutates
// nothing; callers only proceed on a nil return.
func (s Stage) Check(role, current, requested string) error {
	if role != s.RequiredRole {
		return ErrRoleNotAllowed
	}
	if !contains(s.AllowedPrior, current) {
		return ErrOutOfOrder
	}
	if !contains(s.Results, requested) {
		return ErrInvalidStatus
	}
	return nil
}

// Result returns the single resulting status of a chain stage.
func (s Stage) Result() string {
	if len(s.Results) == 0 {
		return ""
	}
	return s.Results[0]
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
