package earlyclosure

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

// Repository defines the data access methods for early closures.
type Repository interface {
	Create(ec *EarlyClosure) error
	GetByID(id int64) (*EarlyClosure, error)
	GetByStaffID(staffID int64) ([]*EarlyClosure, error)
	GetAll() ([]*EarlyClosure, error)
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

// Submit creates a pending early-closure request; staff only.
func (s *Service) Submit(callerID int64, callerRole string, dto SubmitDTO) (*EarlyClosure, error) {
	if callerRole != workflow.RoleStaff {
		return nil, internal.MustBeRole(workflow.RoleStaff)
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	ec := &EarlyClosure{
		StaffID:     callerID,
		Reason:      dto.Reason,
		ClosureDate: dto.ParsedDate(),
		ClosureTime: dto.ClosureTime,
		Status:      StatusPending,
	}

	if err := s.repo.Create(ec); err != nil {
		s.logger.Error("failed to create early closure", "error", err, "staff_id", callerID)
		return nil, err
	}

	s.bus.Publish(context.Background(), events.NewStageEvent(events.EarlyClosureSubmitted, ec.ID, callerID, "", StatusPending))

	s.logger.Info("early closure submitted", "early_closure_id", ec.ID, "staff_id", callerID)
	return ec, nil
}

// Respond applies one approver's decision to the named stage. The workflow
// table decides who may respond and in what order; a stage attempted out of
// order fails without mutating the record.
func (s *Service) Respond(stageName string, callerID int64, callerRole string, id int64, dto StageResponseDTO) (*EarlyClosure, error) {
	stage, err := Approval.Stage(stageName)
	if err != nil {
		return nil, internal.NewValidationError("unknown early-closure stage "+stageName, internal.ErrCodeValidationFailed)
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	ec, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := stage.Check(callerRole, ec.Status, stage.Result()); err != nil {
		return nil, s.mapStageError(err, stage)
	}

	resp := StageResponse{
		Decision:    dto.Decision,
		Comment:     dto.Comment,
		ResponderID: callerID,
		RespondedAt: time.Now(),
	}

	if err := s.repo.UpdateStageResponse(id, stageName, ec.Status, stage.Result(), resp); err != nil {
		return nil, err
	}

	s.bus.Publish(context.Background(), events.NewStageEvent(events.EarlyClosureResponded, id, callerID, stageName, dto.Decision))

	s.logger.Info("early closure stage responded",
		"early_closure_id", id,
		"stage", stageName,
		"decision", dto.Decision,
		"responder_id", callerID)

	return s.repo.GetByID(id)
}

func (s *Service) GetByID(callerID int64, callerRole string, id int64) (*EarlyClosure, error) {
	ec, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if callerRole == workflow.RoleStaff && ec.StaffID != callerID {
		return nil, internal.ErrNotRecipient
	}

	return ec, nil
}

// List returns the caller's own requests for staff, everything for approvers.
func (s *Service) List(callerID int64, callerRole string) ([]*EarlyClosure, error) {
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
