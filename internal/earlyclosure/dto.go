package earlyclosure

import (
	"errors"
	"fmt"
	"time"
)

// SubmitDTO represents a staff member's early-closure request.
type SubmitDTO struct {
	Reason      string `json:"reason"`
	ClosureDate string `json:"closure_date"`
	ClosureTime string `json:"closure_time"`
}

func (dto SubmitDTO) Validate() error {
	if dto.Reason == "" {
		return errors.New("reason is required")
	}
	if _, err := time.Parse("2006-01-02", dto.ClosureDate); err != nil {
		return fmt.Errorf("invalid closure_date: %s", dto.ClosureDate)
	}
	if dto.ClosureTime == "" {
		return errors.New("closure_time is required")
	}
	return nil
}

func (dto SubmitDTO) ParsedDate() time.Time {
	d, _ := time.Parse("2006-01-02", dto.ClosureDate)
	return d
}

// StageResponseDTO carries one approver's decision on a stage.
type StageResponseDTO struct {
	Decision string  `json:"decision"`
	Comment  *string `json:"comment,omitempty"`
}

func (dto StageResponseDTO) Validate() error {
	if dto.Decision != DecisionApprove && dto.Decision != DecisionDisapprove {
		return errors.New("decision must be approve or disapprove")
	}
	return nil
}
