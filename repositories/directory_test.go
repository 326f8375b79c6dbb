package repositories

import (
	"log/slog"
	"testing"
	"time"

	"babblebridge/domain"
	"babblebridge/errors"

	"github.com/stretchr/testify/require"
)

func Test_Directory_Lists_Rooms_Per_User(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	rooms := NewRoomRepository(db, slog.Default())
	directory := NewDirectoryRepository(db, slog.Default())

	req.NoError(rooms.CreateRoom(testRoom("111111")))
	req.NoError(rooms.CreateRoom(testRoom("222222")))
	req.NoError(rooms.CreateRoom(domain.NewRoom("333333", []domain.Participant{
		{ID: "c", Username: "Clara", NativeLanguage: "Spanish"},
	}, time.Now().UTC())))

	codes, err := directory.RoomsFor("a")
	req.NoError(err)
	req.ElementsMatch([]string{"111111", "222222"}, codes)

	codes, err = directory.RoomsFor("nobody")
	req.NoError(err)
	req.Empty(codes)
}

// The room document and its index entries share one transaction: a
// rejected creation must leave no entry behind, and a committed one
// must be listed immediately.
func Test_Directory_Entry_Commits_With_The_Room(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	rooms := NewRoomRepository(db, slog.Default())
	directory := NewDirectoryRepository(db, slog.Default())

	req.NoError(rooms.CreateRoom(testRoom("111111")))
	codes, err := directory.RoomsFor("a")
	req.NoError(err)
	req.Equal([]string{"111111"}, codes)

	colliding := domain.NewRoom("111111", []domain.Participant{
		{ID: "c", Username: "Clara", NativeLanguage: "Spanish"},
	}, time.Now().UTC())
	req.ErrorIs(rooms.CreateRoom(colliding), errors.ErrRoomAlreadyExists)

	codes, err = directory.RoomsFor("c")
	req.NoError(err)
	req.Empty(codes)
}

func Test_Directory_Follows_Join_And_Leave(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	rooms := NewRoomRepository(db, slog.Default())
	directory := NewDirectoryRepository(db, slog.Default())

	req.NoError(rooms.CreateRoom(testRoom("111111")))

	clara := domain.Participant{ID: "c", Username: "Clara", NativeLanguage: "Spanish"}
	_, err := rooms.MergeRoom("111111", RoomDelta{AddParticipants: []domain.Participant{clara}})
	req.NoError(err)

	codes, err := directory.RoomsFor("c")
	req.NoError(err)
	req.Equal([]string{"111111"}, codes)

	_, err = rooms.MergeRoom("111111", RoomDelta{RemoveParticipantIDs: []string{"c"}})
	req.NoError(err)

	codes, err = directory.RoomsFor("c")
	req.NoError(err)
	req.Empty(codes)

	// Removing an absent participant is a no-op for the index too.
	_, err = rooms.MergeRoom("111111", RoomDelta{RemoveParticipantIDs: []string{"c"}})
	req.NoError(err)
}
