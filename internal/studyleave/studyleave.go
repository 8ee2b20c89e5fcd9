package studyleave

import (
	"time"

	"github.com/itcentralng/dhf-hrapp-backend/internal/workflow"
)

const (
	StatusPending             = "pending"
	StatusHOSResponded        = "hos_responded"
	StatusAccountantResponded = "accountant_responded"
	StatusHRResponded         = "hr_responded"
	StatusDirectorResponded   = "director_responded"
)

const (
	StageHOS        = "hos"
	StageAccountant = "accountant"
	StageHR         = "hr"
	StageDirector   = "director"
)

const (
	DecisionApprove    = "approve"
	DecisionDisapprove = "disapprove"
)

// Approval is the study-leave chain. The accountant and director stages are
// both held by the admin role; the stage name, not the role, distinguishes
// them.
var Approval = workflow.Definition{
	Name: "study_leave",
	Stages: []workflow.Stage{
		{
			Name:         StageHOS,
			RequiredRole: workflow.RoleHOS,
			AllowedPrior: []string{StatusPending},
			Results:      []string{StatusHOSResponded},
		},
		{
			Name:         StageAccountant,
			RequiredRole: workflow.RoleAdmin,
			AllowedPrior: []string{StatusHOSResponded},
			Results:      []string{StatusAccountantResponded},
		},
		{
			Name:         StageHR,
			RequiredRole: workflow.RoleHR,
			AllowedPrior: []string{StatusAccountantResponded},
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

type StudyLeave struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	StaffID     int64     `json:"staff_id" gorm:"not null;index"`
	Institution string    `json:"institution" gorm:"not null"`
	Course      string    `json:"course" gorm:"not null"`
	Reason      *string   `json:"reason,omitempty"`
	StartDate   time.Time `json:"start_date" gorm:"type:date;not null"`
	EndDate     time.Time `json:"end_date" gorm:"type:date;not null"`
	Status      string    `json:"status" gorm:"not null;default:pending"`

	HOSStatus      *string    `json:"hos_status,omitempty" gorm:"column:hos_status"`
	HOSComment     *string    `json:"hos_comment,omitempty" gorm:"column:hos_comment"`
	HOSRespondedBy *int64     `json:"hos_responded_by,omitempty" gorm:"column:hos_responded_by"`
	HOSRespondedAt *time.Time `json:"hos_responded_at,omitempty" gorm:"column:hos_responded_at"`

	AccountantStatus      *string    `json:"accountant_status,omitempty" gorm:"column:accountant_status"`
	AccountantComment     *string    `json:"accountant_comment,omitempty" gorm:"column:accountant_comment"`
	AccountantRespondedBy *int64     `json:"accountant_responded_by,omitempty" gorm:"column:accountant_responded_by"`
	AccountantRespondedAt *time.Time `json:"accountant_responded_at,omitempty" gorm:"column:accountant_responded_at"`

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

func (StudyLeave) TableName() string {
	return "study_leaves"
}

func (s *StudyLeave) IsFullyResponded() bool {
	return s.Status == StatusDirectorResponded
}
