//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"babblebridge/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateAccount(email, username, nativeLanguage, hashedPassword string) (string, error)
	GetByEmail(email string) (Account, error)
	GetByID(id string) (Account, error)
}

// Account is the stored user record. NativeLanguage is kept as the
// user typed it; canonicalization happens at fan-out time.
type Account struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	NativeLanguage string    `json:"nativeLanguage"`
	PasswordHash   string    `json:"passwordHash"`
	CreatedAt      time.Time `json:"createdAt"`
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Accounts are written under two keys: "user:{email}" holds the record,
// "uid:{id}" points back to the email for id lookups.
func (u *UserRepository) CreateAccount(email, username, nativeLanguage, hashedPassword string) (string, error) {
	account := Account{
		ID:             uuid.New().String(),
		Email:          email,
		Username:       username,
		NativeLanguage: nativeLanguage,
		PasswordHash:   hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}
	data, err := json.Marshal(account)
	if err != nil {
		return "", fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		key := []byte("user:" + email)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set([]byte("uid:"+account.ID), []byte(email))
	})
	if err != nil {
		return "", err
	}
	return account.ID, nil
}

func (u *UserRepository) GetByEmail(email string) (Account, error) {
	var account Account
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("user:" + email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &account)
		})
	})
	if err == badger.ErrKeyNotFound {
		return Account{}, errors.ErrUserNotFound
	}
	if err != nil {
		return Account{}, err
	}
	return account, nil
}

func (u *UserRepository) GetByID(id string) (Account, error) {
	var email string
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("uid:" + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			email = string(val)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return Account{}, errors.ErrUserNotFound
	}
	if err != nil {
		return Account{}, err
	}
	return u.GetByEmail(email)
}
