package user

import (
	"errors"
	"strings"
)

// CreateUserDTO represents the request payload for registering a user.
type CreateUserDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

func (dto CreateUserDTO) Validate() error {
	if dto.FirstName == "" {
		return errors.New("first_name is required")
	}
	if dto.LastName == "" {
		return errors.New("last_name is required")
	}
	if dto.Email == "" || !strings.Contains(dto.Email, "@") {
		return errors.New("a valid email is required")
	}
	if dto.Phone == "" {
		return errors.New("phone is required")
	}
	if len(dto.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if dto.Role == "" {
		return errors.New("role is required")
	}
	return nil
}

// ChangePasswordDTO carries a password change for the current user.
type ChangePasswordDTO struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (dto ChangePasswordDTO) Validate() error {
	if dto.OldPassword == "" {
		return errors.New("old_password is required")
	}
	if len(dto.NewPassword) < 8 {
		return errors.New("new_password must be at least 8 characters")
	}
	return nil
}
