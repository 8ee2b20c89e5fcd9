package studyleave

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/itcentralng/dhf-hrapp-backend/internal"
	"github.com/itcentralng/dhf-hrapp-backend/internal/core/events"
	"github.com/itcentralng/dhf-hrapp-backend/internal/workflow"
)

// StageResponse is the column set a stage writes.
type StageResponse struct {
	Decision    string
	Comment     *string
	ResponderID int64
	RespondedAt time.Time
}

// Repository defines the data access methods for study leaves.
type Repository interface {
	Create(sl *StudyLeave) error
	GetByID(id int64) (*StudyLeave, error)
	GetByStaffID(staffID int64) ([]*StudyLeave, error)
	GetAll() ([]*StudyLeave, error)
	// UpdateStageResponse writes one stage's response and advances the overall
	// status, guarded on the expected prior status.
	UpdateStageResponse(id int64, stage, expected, resulting string, resp StageResponse) error
}

type Service struct {
	repo   Repository
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// Submit creates a pending study-leave request; staff only.
func (s *Service) Submit(callerID int64, callerRole string, dto SubmitDTO) (*StudyLeave, error) {
	if callerRole != workflow.RoleStaff {
		return nil, internal.MustBeRole(workflow.RoleStaff)
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	start, end := dto.ParsedDates()
	sl := &StudyLeave{
		StaffID:     callerID,
		Institution: dto.Institution,
		Course:      dto.Course,
		Reason:      dto.Reason,
		StartDate:   start,
		EndDate:     end,
		Status:      StatusPending,
	}

	if err := s.repo.Create(sl); err != nil {
		s.logger.Error("failed to create study leave", "error", err, "staff_id", callerID)
		return nil, err
	}

	s.bus.Publish(context.Background(), events.NewStageEvent(events.StudyLeaveSubmitted, sl.ID, callerID, "", StatusPending))

	s.logger.Info("study leave submitted", "study_leave_id", sl.ID, "staff_id", callerID)
	return sl, nil
}

// Respond applies one approver's decision to the named stage. The four-stage
// chain runs hos, accountant, hr, director; the workflow table rejects any
// stage attempted ahead of its turn.
func (s *Service) Respond(stageName string, callerID int64, callerRole string, id int64, dto StageResponseDTO) (*StudyLeave, error) {
	stage, err := Approval.Stage(stageName)
	if err != nil {
		return nil, internal.NewValidationError("unknown study-leave stage "+stageName, internal.ErrCodeValidationFailed)
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	sl, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := stage.Check(callerRole, sl.Status, stage.Result()); err != nil {
		return nil, s.mapStageError(err, stage)
	}

	resp := StageResponse{
		Decision:    dto.Decision,
		Comment:     dto.Comment,
		ResponderID: callerID,
		RespondedAt: time.Now(),
	}

	if err := s.repo.UpdateStageResponse(id, stageName, sl.Status, stage.Result(), resp); err != nil {
		return nil, err
	}

	s.bus.Publish(context.Background(), events.NewStageEvent(events.StudyLeaveResponded, id, callerID, stageName, dto.Decision))

	s.logger.Info("study leave stage responded",
		"study_leave_id", id,
		"stage", stageName,
		"decision", dto.Decision,
		"responder_id", callerID)

	return s.repo.GetByID(id)
}

func (s *Service) GetByID(callerID int64, callerRole string, id int64) (*StudyLeave, error) {
	sl, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if callerRole == workflow.RoleStaff && sl.StaffID != callerID {
		return nil, internal.ErrNotRecipient
	}

	return sl, nil
}

// List returns the caller's own requests for staff, everything for approvers.
func (s *Service) List(callerID int64, callerRole string) ([]*StudyLeave, error) {
	if callerRole == workflow.RoleStaff {
		return s.repo.GetByStaffID(callerID)
	}
	return s.repo.GetAll()
}

func (s *Service) mapStageError(err error, stage workflow.Stage) error {
	switch {
	case errors.Is(err, workflow.ErrRoleNotAllowed):
		return internal.MustBeRole(stage.RequiredRole)
	case errors.Is(err, workflow.ErrOutOfOrder):
		return internal.ErrStageOutOfOrder
	default:
		return internal.NewInternalError("stage check failed", err)
	}
}
