package auth

import (
	"fmt"
	"unicode"

	"babblebridge/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RegisterRequest struct {
	Email          string `validate:"required,email"`
	Password       string `validate:"required,min=12,max=72"`
	Username       string `validate:"required,min=2,max=64"`
	NativeLanguage string `validate:"required"`
}

// ValidateRegister separates the two failure modes: a malformed field
// surfaces as ErrInvalidRegistration, only a weak password as
// ErrInvalidPassword.
func ValidateRegister(req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRegistration, err)
	}

	if !isPasswordComplex(req.Password) {
		return errors.ErrInvalidPassword
	}
	return nil
}

// SendMessageRequest is checked before any I/O: empty text or a
// malformed room code never reaches the store.
type SendMessageRequest struct {
	RoomCode string `validate:"required,len=6,numeric"`
	Text     string `validate:"required,max=4096"`
}

func ValidateSendMessage(req SendMessageRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	return nil
}

func isPasswordComplex(s string) bool {
	var (
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)
	for _, char := range s {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasNumber && hasSpecial
}
