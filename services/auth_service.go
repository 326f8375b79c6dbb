//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"fmt"
	"time"

	"babblebridge/auth"
	"babblebridge/domain"
	"babblebridge/errors"
	"babblebridge/repositories"
)

type IAuthService interface {
	Register(email, password, username, nativeLanguage string) (Token, error)
	Login(email, password string) (Token, error)
	IdentityFromToken(token string) (domain.Identity, error)
}

type Token string

type AuthService struct {
	userRepository repositories.IUserRepository
	tokenDuration  time.Duration
}

func NewAuthService(repo repositories.IUserRepository, tokenDuration time.Duration) *AuthService {
	return &AuthService{userRepository: repo, tokenDuration: tokenDuration}
}

func (s *AuthService) Register(email, password, username, nativeLanguage string) (Token, error) {
	valReq := auth.RegisterRequest{
		Email:          email,
		Password:       password,
		Username:       username,
		NativeLanguage: nativeLanguage,
	}

	// Validate business rules before any expensive cryptographic work.
	// The validator tags its own failures, so they pass through as is.
	if err := auth.ValidateRegister(valReq); err != nil {
		return "", err
	}

	// Hashing happens in the service layer to keep the repository
	// unaware of plain passwords.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	userID, err := s.userRepository.CreateAccount(email, username, nativeLanguage, hashedPassword)
	if err != nil {
		return "", err // Propagates ErrUserAlreadyExists if the email is taken
	}

	token, err := auth.GenerateToken(userID, email, s.tokenDuration)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}

func (s *AuthService) Login(email, password string) (Token, error) {
	// Generic error on every failure path to prevent user enumeration.
	account, err := s.userRepository.GetByEmail(email)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, account.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(account.ID, account.Email, s.tokenDuration)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}

// IdentityFromToken resolves a bearer token into the explicit identity
// that core operations require. The message sender display is the
// account email, matching how messages are attributed.
func (s *AuthService) IdentityFromToken(token string) (domain.Identity, error) {
	claims, err := auth.ValidateToken(token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", errors.ErrUnauthenticated, err)
	}
	return domain.Identity{ID: claims.UserID, Display: claims.Display}, nil
}

// ParticipantFromAccount shapes a stored account into the participant
// record attached to rooms.
func ParticipantFromAccount(account repositories.Account) domain.Participant {
	return domain.Participant{
		ID:             account.ID,
		Email:          account.Email,
		Username:       account.Username,
		NativeLanguage: account.NativeLanguage,
	}
}
