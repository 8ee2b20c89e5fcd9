package auth

import (
	"log/slog"

	"github.com/itcentralng/dhf-hrapp-backend/internal"
)

// Directory is the slice of the identity store the token service needs.
type Directory interface {
	GetCredentials(email string) (userID int64, passwordHash string, err error)
	GetAuthUser(userID int64) (*User, error)
}

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (TokenResponse, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ResolveUser(tokenString string) (*User, error)
}

type Service struct {
	directory Directory
	tokens    TokenGeneratorAPI
	logger    *slog.Logger
}

func NewService(directory Directory, tokens TokenGeneratorAPI, logger *slog.Logger) *Service {
	return &Service{
		directory: directory,
		tokens:    tokens,
		logger:    logger,
	}
}

// Authenticate validates credentials and issues an access token. Lookup
// failures and hash mismatches collapse into the same credentials error so the
// response does not reveal which emails exist.
func (s *Service) Authenticate(dto LoginDTO) (TokenResponse, error) {
	if err := dto.Validate(); err != nil {
		return TokenResponse{}, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	userID, storedHash, err := s.directory.GetCredentials(dto.Email)
	if err != nil {
		s.logger.Warn("login failed: unknown email", "email", dto.Email)
		return TokenResponse{}, internal.ErrInvalidCredentials
	}

	if err := VerifyPassword(dto.Password, storedHash); err != nil {
		s.logger.Warn("login failed: password mismatch", "user_id", userID)
		return TokenResponse{}, internal.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.GenerateAccessToken(userID)
	if err != nil {
		return TokenResponse{}, internal.NewInternalError("failed to issue token", err)
	}

	return TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TokenTTL().Seconds()),
	}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, internal.ErrInvalidToken.WithCause(err)
	}
	return claims, nil
}

// ResolveUser turns a bearer token into the caller's identity and role.
func (s *Service) ResolveUser(tokenString string) (*User, error) {
	claims, err := s.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.directory.GetAuthUser(claims.UserID)
	if err != nil {
		s.logger.Error("token subject no longer resolves to a user", "user_id", claims.UserID, "error", err)
		return nil, internal.ErrInvalidToken
	}

	return user, nil
}
