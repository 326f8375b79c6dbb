package repositories

import (
	"testing"

	"babblebridge/errors"

	"github.com/stretchr/testify/require"
)

func Test_CreateAccount_And_Lookups(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	id, err := repository.CreateAccount("alice@test.com", "Alice", "English", "hash")
	req.NoError(err)
	req.NotEmpty(id)

	byEmail, err := repository.GetByEmail("alice@test.com")
	req.NoError(err)
	req.Equal(id, byEmail.ID)
	req.Equal("Alice", byEmail.Username)
	req.Equal("English", byEmail.NativeLanguage)

	byID, err := repository.GetByID(id)
	req.NoError(err)
	req.Equal(byEmail, byID)
}

func Test_CreateAccount_Duplicate_Email(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.CreateAccount("alice@test.com", "Alice", "English", "hash")
	req.NoError(err)

	_, err = repository.CreateAccount("alice@test.com", "Imposter", "French", "hash2")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func Test_Get_Unknown_Account(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.GetByEmail("nobody@test.com")
	req.ErrorIs(err, errors.ErrUserNotFound)

	_, err = repository.GetByID("missing-id")
	req.ErrorIs(err, errors.ErrUserNotFound)
}
