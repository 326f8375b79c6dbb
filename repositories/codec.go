package repositories

import (
	"time"

	"babblebridge/domain"

	"github.com/samber/lo"
)

// Stored shapes mirror the original document layout of the room
// collection: camelCase fields, ISO-8601 timestamps.

type storedRoom struct {
	RoomCode           string                     `json:"roomCode"`
	Participants       []storedParticipant        `json:"participants"`
	Languages          []string                   `json:"languages"`
	MessagesByLanguage map[string][]storedMessage `json:"messagesByLanguage"`
	CreatedAt          time.Time                  `json:"createdAt"`
	LastUpdated        time.Time                  `json:"lastUpdated"`
}

type storedParticipant struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	NativeLanguage string `json:"nativeLanguage"`
}

type storedMessage struct {
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	SenderID  string    `json:"senderId"`
	Timestamp time.Time `json:"timestamp"`
}

func toStoredRoom(room domain.Room) storedRoom {
	buckets := make(map[string][]storedMessage, len(room.MessagesByLanguage))
	for language, messages := range room.MessagesByLanguage {
		buckets[language] = lo.Map(messages, func(m domain.Message, _ int) storedMessage {
			return storedMessage(m)
		})
	}
	return storedRoom{
		RoomCode: room.RoomCode,
		Participants: lo.Map(room.Participants, func(p domain.Participant, _ int) storedParticipant {
			return storedParticipant(p)
		}),
		Languages:          room.Languages,
		MessagesByLanguage: buckets,
		CreatedAt:          room.CreatedAt,
		LastUpdated:        room.LastUpdated,
	}
}

func toRoom(stored storedRoom) domain.Room {
	buckets := make(map[string][]domain.Message, len(stored.MessagesByLanguage))
	for language, messages := range stored.MessagesByLanguage {
		buckets[language] = lo.Map(messages, func(m storedMessage, _ int) domain.Message {
			return domain.Message(m)
		})
	}
	return domain.Room{
		RoomCode: stored.RoomCode,
		Participants: lo.Map(stored.Participants, func(p storedParticipant, _ int) domain.Participant {
			return domain.Participant(p)
		}),
		Languages:          stored.Languages,
		MessagesByLanguage: buckets,
		CreatedAt:          stored.CreatedAt,
		LastUpdated:        stored.LastUpdated,
	}
}
