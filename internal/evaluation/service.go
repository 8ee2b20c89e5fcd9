package evaluation

import (
	"context"
	"log/slog"

	"github.com/itcentralng/dhf-hrapp-backend/internal"
	"github.com/itcentralng/dhf-hrapp-backend/internal/auth"
	"github.com/itcentralng/dhf-hrapp-backend/internal/core/events"
	"github.com/itcentralng/dhf-hrapp-backend/internal/workflow"
)

// UserDirectory resolves staff ids so an evaluation cannot target a
// nonexistent user.
type UserDirectory interface {
	Exists(userID int64) (bool, error)
}

// Repository defines the data access methods for evaluations.
type Repository interface {
	Create(ev *Evaluation) error
	GetAll() ([]*Evaluation, error)
}

type Service struct {
	repo   Repository
	users  UserDirectory
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, users UserDirectory, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		bus:    bus,
		logger: logger,
	}
}

// Create records an evaluation with its grade; heads of section only.
func (s *Service) Create(callerID int64, callerRole string, dto CreateEvaluationDTO) (*Evaluation, error) {
	if callerRole != workflow.RoleHOS {
		return nil, internal.MustBeRole(workflow.RoleHOS)
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	exists, err := s.users.Exists(dto.StaffID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, internal.ErrUserNotFound
	}

	ev := &Evaluation{
		StaffID:     dto.StaffID,
		EvaluatorID: callerID,
		Period:      dto.Period,
		Grade: &Grade{
			Punctuality:   dto.Grade.Punctuality,
			Diligence:     dto.Grade.Diligence,
			Teamwork:      dto.Grade.Teamwork,
			Communication: dto.Grade.Communication,
			Remark:        dto.Grade.Remark,
		},
	}

	if err := s.repo.Create(ev); err != nil {
		s.logger.Error("failed to create evaluation", "error", err, "staff_id", dto.StaffID, "evaluator_id", callerID)
		return nil, err
	}

	s.bus.Publish(context.Background(), events.NewEvaluationSubmitted(ev.ID, dto.StaffID, callerID))

	s.logger.Info("evaluation submitted", "evaluation_id", ev.ID, "staff_id", dto.StaffID, "evaluator_id", callerID)
	return ev, nil
}

// List returns every evaluation with its grade; hr and admin only.
func (s *Service) List(caller *auth.User) ([]*Evaluation, error) {
	if !caller.HasAnyRole(workflow.RoleHR, workflow.RoleAdmin) {
		return nil, internal.MustBeRole(workflow.RoleHR)
	}
	return s.repo.GetAll()
}
