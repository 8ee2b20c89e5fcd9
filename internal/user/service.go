package user

import (
	"log/slog"

	"github.com/itcentralng/dhf-hrapp-backend/internal"
	"github.com/itcentralng/dhf-hrapp-backend/internal/auth"
	"github.com/itcentralng/dhf-hrapp-backend/internal/workflow"
)

// Repository defines the data access methods for users and roles.
type Repository interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	GetRoleByName(name string) (*Role, error)
	UpdatePassword(id int64, passwordHash string) error
}

type Service struct {
	repo           Repository
	hashIterations int
	logger         *slog.Logger
}

func NewService(repo Repository, hashIterations int, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		hashIterations: hashIterations,
		logger:         logger,
	}
}

// Register creates a user with a hashed credential. Only admins may register
// staff.
func (s *Service) Register(callerRole string, dto CreateUserDTO) (*User, error) {
	if callerRole != workflow.RoleAdmin {
		return nil, internal.MustBeRole(workflow.RoleAdmin)
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	role, err := s.repo.GetRoleByName(dto.Role)
	if err != nil {
		s.logger.Warn("register: unknown role", "role", dto.Role)
		return nil, internal.NewValidationError("unknown role "+dto.Role, internal.ErrCodeValidationFailed)
	}

	hash, err := auth.HashPassword(dto.Password, s.hashIterations)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &User{
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Email:        dto.Email,
		Phone:        dto.Phone,
		PasswordHash: hash,
		RoleID:       role.ID,
		Role:         *role,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID, "role", role.Name)
	return u, nil
}

func (s *Service) GetByID(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword verifies the caller's current credential before writing the
// new hash.
func (s *Service) ChangePassword(callerID int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	u, err := s.repo.GetByID(callerID)
	if err != nil {
		return err
	}

	if err := auth.VerifyPassword(dto.OldPassword, u.PasswordHash); err != nil {
		s.logger.Warn("change password: old password mismatch", "user_id", callerID)
		return internal.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(dto.NewPassword, s.hashIterations)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	if err := s.repo.UpdatePassword(callerID, hash); err != nil {
		s.logger.Error("failed to update password", "error", err, "user_id", callerID)
		return err
	}

	s.logger.Info("password changed", "user_id", callerID)
	return nil
}
