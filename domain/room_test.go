package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_NewRoom_Seeds_Buckets_From_Participants(t *testing.T) {
	req := require.New(t)
	now := time.Now().UTC()
	room := NewRoom("123456", []Participant{
		{ID: "a", Username: "Alice", NativeLanguage: "English"},
		{ID: "b", Username: "Bob", NativeLanguage: "French"},
		{ID: "c", Username: "Clara", NativeLanguage: "en"},
	}, now)

	req.Equal("123456", room.RoomCode)
	req.Len(room.Participants, 3)
	// "English" and "en" share the canonical en-US bucket.
	req.ElementsMatch([]string{"en-US", "fr"}, room.Languages)
	req.Len(room.MessagesByLanguage, 2)
	req.Empty(room.MessagesByLanguage["en-US"])
	req.Empty(room.MessagesByLanguage["fr"])
}

func Test_AddParticipant_Is_Idempotent_By_ID(t *testing.T) {
	req := require.New(t)
	room := NewRoom("123456", nil, time.Now().UTC())

	req.True(room.AddParticipant(Participant{ID: "a", NativeLanguage: "Spanish"}))
	req.False(room.AddParticipant(Participant{ID: "a", NativeLanguage: "German"}))

	req.Len(room.Participants, 1)
	req.Equal([]string{"es"}, room.Languages)
	req.Len(room.MessagesByLanguage, 1)
}

func Test_RemoveParticipant_Retains_History(t *testing.T) {
	req := require.New(t)
	room := NewRoom("123456", []Participant{
		{ID: "a", NativeLanguage: "English"},
		{ID: "b", NativeLanguage: "French"},
	}, time.Now().UTC())
	room.AppendMessage("fr", Message{Text: "Bonjour", SenderID: "a"})

	req.True(room.RemoveParticipant("b"))
	req.False(room.RemoveParticipant("b"))

	req.Len(room.Participants, 1)
	req.Contains(room.Languages, "fr")
	req.Len(room.MessagesByLanguage["fr"], 1)
}

func Test_AppendMessage_Creates_Missing_Bucket(t *testing.T) {
	req := require.New(t)
	room := NewRoom("123456", []Participant{{ID: "a", NativeLanguage: "English"}}, time.Now().UTC())

	room.AppendMessage("ja", Message{Text: "こんにちは", SenderID: "a"})

	req.Contains(room.Languages, "ja")
	req.Len(room.MessagesByLanguage["ja"], 1)
}

func Test_ParticipantLanguages_Deduplicates_Spellings(t *testing.T) {
	room := NewRoom("123456", []Participant{
		{ID: "a", NativeLanguage: "English"},
		{ID: "b", NativeLanguage: "en"},
		{ID: "c", NativeLanguage: "Portuguese"},
	}, time.Now().UTC())

	require.Len(t, room.ParticipantLanguages(), 2)
}
