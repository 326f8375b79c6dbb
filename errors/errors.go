package errors

import "fmt"

var (
	ErrRoomNotFound        = fmt.Errorf("room not found")
	ErrRoomAlreadyExists   = fmt.Errorf("room code already taken")
	ErrUserNotFound        = fmt.Errorf("user not found")
	ErrUserAlreadyExists   = fmt.Errorf("user already exists")
	ErrUnauthenticated     = fmt.Errorf("authenticated identity required")
	ErrInvalidCredentials  = fmt.Errorf("invalid credentials")
	ErrInvalidRegistration = fmt.Errorf("registration fields are invalid")
	ErrInvalidPassword     = fmt.Errorf("password does not meet complexity rules")
	ErrTokenGeneration     = fmt.Errorf("token generation failed")
	ErrEmptyMessage        = fmt.Errorf("message text is empty")
	ErrInvalidRoomCode     = fmt.Errorf("room code must be a 6-digit number")
	ErrInvalidRoomLink     = fmt.Errorf("room link is malformed")
	ErrTooMuchContention   = fmt.Errorf("room update retries exhausted")
	ErrTranslationFailed   = fmt.Errorf("translation failed")
	ErrEmptyWords          = fmt.Errorf("no words have been found")
)
