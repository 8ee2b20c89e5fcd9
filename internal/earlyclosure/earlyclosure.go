package earlyclosure

import (
	"time"

	"github.com/itcentralng/dhf-hrapp-backend/internal/workflow"
)

// Overall statuses: the chain position of the record. Per-stage decisions live
// in the stage columns.
const (
	StatusPending           = "pending"
	StatusHOSResponded      = "hos_responded"
	StatusHRResponded       = "hr_responded"
	StatusDirectorResponded = "director_responded"
)

const (
	StageHOS      = "hos"
	StageHR       = "hr"
	StageDirector = "director"
)

const (
	DecisionApprove    = "approve"
	DecisionDisapprove = "disapprove"
)

// Approval is the early-closure chain: hos, then hr, then the director (who
// holds the admin role).
var Approval = workflow.Definition{
	Name: "early_closure",
	Stages: []workflow.Stage{
		{
			Name:         StageHOS,
			RequiredRole: workflow.RoleHOS,
			AllowedPrior: []string{StatusPending},
			Results:      []string{StatusHOSResponded},
		},
		{
			Name:         StageHR,
			RequiredRole: workflow.RoleHR,
			AllowedPrior: []string{StatusHOSResponded},
			Results:      []string{StatusHRResponded},
		},
		{
			Name:         StageDirector,
			RequiredRole: workflow.RoleAdmin,
			AllowedPrior: []string{StatusHRResponded},
			Results:      []string{StatusDirectorResponded},
		},
	},
}

type EarlyClosure struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	StaffID     int64     `json:"staff_id" gorm:"not null;index"`
	Reason      string    `json:"reason" gorm:"not null"`
	ClosureDate time.Time `json:"closure_date" gorm:"type:date;not null"`
	ClosureTime string    `json:"closure_time" gorm:"not null"`
	Status      string    `json:"status" gorm:"not null;default:pending"`

	HOSStatus      *string    `json:"hos_status,omitempty" gorm:"column:hos_status"`
	HOSComment     *string    `json:"hos_comment,omitempty" gorm:"column:hos_comment"`
	HOSRespondedBy *int64     `json:"hos_responded_by,omitempty" gorm:"column:hos_responded_by"`
	HOSRespondedAt *time.Time `json:"hos_responded_at,omitempty" gorm:"column:hos_responded_at"`

	HRStatus      *string    `json:"hr_status,omitempty" gorm:"column:hr_status"`
	HRComment     *string    `json:"hr_comment,omitempty" gorm:"column:hr_comment"`
	HRRespondedBy *int64     `json:"hr_responded_by,omitempty" gorm:"column:hr_responded_by"`
	HRRespondedAt *time.Time `json:"hr_responded_at,omitempty" gorm:"column:hr_responded_at"`

	DirectorStatus      *string    `json:"director_status,omitempty" gorm:"column:director_status"`
	DirectorComment     *string    `json:"director_comment,omitempty" gorm:"column:director_comment"`
	DirectorRespondedBy *int64     `json:"director_responded_by,omitempty" gorm:"column:director_responded_by"`
	DirectorRespondedAt *time.Time `json:"director_responded_at,omitempty" gorm:"column:director_responded_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (EarlyClosure) TableName() string {
	return "early_closures"
}

func (e *EarlyClosure) IsFullyResponded() bool {
	return e.Status == StatusDirectorResponded
}
