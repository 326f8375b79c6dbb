package domain

import (
	"fmt"
	"math/rand/v2"
	"net/url"

	"babblebridge/errors"
)

// LinkScheme is the URI scheme used when a room code is shared as a
// QR payload: babblebridge://room?code=483920
const LinkScheme = "babblebridge"

// NewRoomCode returns a random 6-digit numeric room code.
// Uniqueness is the caller's concern: room creation retries on
// collision against the store.
func NewRoomCode() string {
	return fmt.Sprintf("%06d", 100000+rand.IntN(900000))
}

// ValidRoomCode reports whether a code is exactly six ASCII digits.
func ValidRoomCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// FormatRoomLink encodes a room code as a shareable link.
func FormatRoomLink(code string) string {
	return fmt.Sprintf("%s://room?code=%s", LinkScheme, code)
}

// ParseRoomLink decodes a shared link (typically scanned from a QR
// code) back into a room code.
func ParseRoomLink(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidRoomLink, err)
	}
	if u.Scheme != LinkScheme || u.Host != "room" {
		return "", errors.ErrInvalidRoomLink
	}
	code := u.Query().Get("code")
	if !ValidRoomCode(code) {
		return "", errors.ErrInvalidRoomCode
	}
	return code, nil
}
