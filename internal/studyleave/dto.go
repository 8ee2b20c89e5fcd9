package studyleave

import (
	"fmt"
	"time"
)

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type SubmitDTO struct {
	Institution string  `json:"institution"`
	Course      string  `json:"course"`
	Reason      *string `json:"reason,omitempty"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
}

func (d SubmitDTO) Validate() error {
	if d.Institution == "" {
		return ValidationError{Msg: "institution is required"}
	}
	if d.Course == "" {
		return ValidationError{Msg: "course is required"}
	}
	start, err := time.Parse("2006-01-02", d.StartDate)
	if err != nil {
		return ValidationError{Msg: fmt.Sprintf("invalid start_date: %s", d.StartDate)}
	}
	end, err := time.Parse("2006-01-02", d.EndDate)
	if err != nil {
		return ValidationError{Msg: fmt.Sprintf("invalid end_date: %s", d.EndDate)}
	}
	if end.Before(start) {
		return ValidationError{Msg: "end_date must not be before start_date"}
	}
	return nil
}

func (d SubmitDTO) ParsedDates() (time.Time, time.Time) {
	start, _ := time.Parse("2006-01-02", d.StartDate)
	end, _ := time.Parse("2006-01-02", d.EndDate)
	return start, end
}

type StageResponseDTO struct {
	Decision string  `json:"decision"`
	Comment  *string `json:"comment,omitempty"`
}

func (d StageResponseDTO) Validate() error {
	switch d.Decision {
	case DecisionApprove, DecisionDisapprove:
		return nil
	default:
		return ValidationError{Msg: fmt.Sprintf("invalid decision: %s", d.Decision)}
	}
}
