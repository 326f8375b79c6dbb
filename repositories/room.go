//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"babblebridge/domain"
	"babblebridge/errors"

	"github.com/dgraph-io/badger/v4"
)

type IRoomRepository interface {
	CreateRoom(room domain.Room) error
	GetRoom(code string) (domain.Room, error)
	MergeRoom(code string, delta RoomDelta) (domain.Room, error)
}

// RoomDelta is an additive change set applied to a stored room.
//
// A single logical send writes one append per represented language, so
// the whole delta commits in one transaction: concurrent deltas against
// the same room never clobber each other's buckets, they either both
// apply or the loser retries.
type RoomDelta struct {
	AppendMessages       map[string][]domain.Message
	AddParticipants      []domain.Participant
	RemoveParticipantIDs []string
	EnsureBuckets        []string
}

// IsZero reports whether the delta carries no change.
func (d RoomDelta) IsZero() bool {
	return len(d.AppendMessages) == 0 &&
		len(d.AddParticipants) == 0 &&
		len(d.RemoveParticipantIDs) == 0 &&
		len(d.EnsureBuckets) == 0
}

func (d RoomDelta) apply(room *domain.Room, now time.Time) {
	for _, language := range d.EnsureBuckets {
		room.EnsureBucket(language)
	}
	for _, p := range d.AddParticipants {
		room.AddParticipant(p)
	}
	for _, id := range d.RemoveParticipantIDs {
		room.RemoveParticipant(id)
	}
	for language, messages := range d.AppendMessages {
		for _, msg := range messages {
			room.AppendMessage(language, msg)
		}
	}
	room.LastUpdated = now
}

// maxMergeRetries bounds the optimistic-concurrency loop before the
// conflict is surfaced as transient contention.
const maxMergeRetries = 5

type RoomRepository struct {
	db    *badger.DB
	log   *slog.Logger
	clock func() time.Time
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) *RoomRepository {
	return &RoomRepository{db: db, log: log, clock: func() time.Time { return time.Now().UTC() }}
}

// WithClock substitutes the timestamp source. Used by tests.
func (r *RoomRepository) WithClock(clock func() time.Time) *RoomRepository {
	r.clock = clock
	return r
}

func roomKey(code string) []byte {
	return []byte("room:" + code)
}

// CreateRoom persists a new room document keyed by its code, plus one
// directory entry per participant in the same transaction: a committed
// room is always visible in its members' listings, and a failed create
// leaves no index entry behind.
// Returns ErrRoomAlreadyExists on a code collision so the caller can
// roll a new code.
func (r *RoomRepository) CreateRoom(room domain.Room) error {
	data, err := json.Marshal(toStoredRoom(room))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		key := roomKey(room.RoomCode)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrRoomAlreadyExists
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		for _, p := range room.Participants {
			if err := txn.Set(directoryKey(p.ID, room.RoomCode), nil); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RoomRepository) GetRoom(code string) (domain.Room, error) {
	var stored storedRoom
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(roomKey(code))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Room{}, errors.ErrRoomNotFound
	}
	if err != nil {
		return domain.Room{}, err
	}
	return toRoom(stored), nil
}

// MergeRoom applies a delta to the stored room inside one transaction.
// Participant changes update the directory index in the same
// transaction, so membership and listing never diverge.
//
// Badger detects write-write conflicts on the room key at commit time;
// on ErrConflict the read-apply-write cycle restarts from a fresh
// snapshot, so two concurrent sends against the same room both land.
// LastUpdated is refreshed on every merge.
func (r *RoomRepository) MergeRoom(code string, delta RoomDelta) (domain.Room, error) {
	var merged domain.Room
	for attempt := 1; attempt <= maxMergeRetries; attempt++ {
		err := r.db.Update(func(txn *badger.Txn) error {
			key := roomKey(code)
			item, err := txn.Get(key)
			if err == badger.ErrKeyNotFound {
				return errors.ErrRoomNotFound
			}
			if err != nil {
				return err
			}

			var stored storedRoom
			if err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &stored)
			}); err != nil {
				return err
			}

			room := toRoom(stored)
			delta.apply(&room, r.clock())

			data, err := json.Marshal(toStoredRoom(room))
			if err != nil {
				return err
			}
			if err = txn.Set(key, data); err != nil {
				return err
			}
			for _, p := range delta.AddParticipants {
				if err = txn.Set(directoryKey(p.ID, code), nil); err != nil {
					return err
				}
			}
			for _, id := range delta.RemoveParticipantIDs {
				if err = txn.Delete(directoryKey(id, code)); err != nil {
					return err
				}
			}
			merged = room
			return nil
		})
		if err == badger.ErrConflict {
			r.log.Debug("Merge conflict, retrying", "room", code, "attempt", attempt)
			continue
		}
		return merged, err
	}
	return domain.Room{}, errors.ErrTooMuchContention
}
