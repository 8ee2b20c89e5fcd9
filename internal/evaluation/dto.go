package evaluation

import "fmt"

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type GradeDTO struct {
	Punctuality   int     `json:"punctuality"`
	Diligence     int     `json:"diligence"`
	Teamwork      int     `json:"teamwork"`
	Communication int     `json:"communication"`
	Remark        *string `json:"remark,omitempty"`
}

type CreateEvaluationDTO struct {
	StaffID int64    `json:"staff_id"`
	Period  string   `json:"period"`
	Grade   GradeDTO `json:"grade"`
}

func (d CreateEvaluationDTO) Validate() error {
	if d.StaffID == 0 {
		return ValidationError{Msg: "staff_id is required"}
	}
	if d.Period == "" {
		return ValidationError{Msg: "period is required"}
	}
	for field, score := range map[string]int{
		"punctuality":   d.Grade.Punctuality,
		"diligence":     d.Grade.Diligence,
		"teamwork":      d.Grade.Teamwork,
		"communication": d.Grade.Communication,
	} {
		if score < 0 || score > 10 {
			return ValidationError{Msg: fmt.Sprintf("%s score must be between 0 and 10", field)}
		}
	}
	return nil
}
