package evaluation

import "time"

// Grade is the score sub-record attached to a single evaluation.
type Grade struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	EvaluationID  int64     `json:"evaluation_id" gorm:"not null;index"`
	Punctuality   int       `json:"punctuality" gorm:"not null"`
	Diligence     int       `json:"diligence" gorm:"not null"`
	Teamwork      int       `json:"teamwork" gorm:"not null"`
	Communication int       `json:"communication" gorm:"not null"`
	Remark        *string   `json:"remark,omitempty"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

func (Grade) TableName() string {
	return "grades"
}

type Evaluation struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	StaffID     int64     `json:"staff_id" gorm:"not null;index"`
	EvaluatorID int64     `json:"evaluator_id" gorm:"not null;index"`
	Period      string    `json:"period" gorm:"not null"`
	Grade       *Grade    `json:"grade,omitempty" gorm:"foreignKey:EvaluationID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}
