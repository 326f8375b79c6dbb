//go:generate go run go.uber.org/mock/mockgen -source=directory.go -destination=../mocks/mock_directory_repository.go -package=mocks
package repositories

import (
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// IDirectoryRepository is the read side of the user-to-rooms index.
// The index keys are written and deleted by the room repository in the
// same transaction as the participant change, so a committed
// membership is always listed and a failed one never is.
type IDirectoryRepository interface {
	RoomsFor(userID string) ([]string, error)
}

type DirectoryRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewDirectoryRepository(db *badger.DB, log *slog.Logger) *DirectoryRepository {
	return &DirectoryRepository{db: db, log: log}
}

// Keys are "dir:{userID}:{roomCode}" with empty values; membership is
// the key's existence and listing is a prefix scan.
func directoryKey(userID, roomCode string) []byte {
	return []byte("dir:" + userID + ":" + roomCode)
}

func directoryPrefix(userID string) []byte {
	return []byte("dir:" + userID + ":")
}

func (d *DirectoryRepository) RoomsFor(userID string) ([]string, error) {
	var codes []string
	err := d.db.View(func(txn *badger.Txn) error {
		prefix := directoryPrefix(userID)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			codes = append(codes, string(key[len(prefix):]))
		}
		return nil
	})
	return codes, err
}
