// Package domain contains core concepts of the multilingual room system.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"time"

	"babblebridge/lang"

	"github.com/samber/lo"
)

// Room is a multilingual conversation addressed by a short numeric code.
//
// MessagesByLanguage holds one append-only history per canonical
// language: every logical send lands exactly once in every bucket,
// either as the original text or as a translated copy. Buckets are
// keyed by canonical codes so differently-spelled identifiers of the
// same language share one history.
type Room struct {
	RoomCode           string
	Participants       []Participant
	Languages          []string
	MessagesByLanguage map[string][]Message
	CreatedAt          time.Time
	LastUpdated        time.Time
}

// RoomSummary is the directory listing shape: enough to render a room
// row without loading its full history.
type RoomSummary struct {
	RoomCode     string
	LastUpdated  time.Time
	Participants []Participant
}

// NewRoom seeds Languages and MessagesByLanguage from the participants'
// native languages. Every represented language starts with an empty
// bucket.
func NewRoom(code string, participants []Participant, now time.Time) Room {
	room := Room{
		RoomCode:           code,
		MessagesByLanguage: map[string][]Message{},
		CreatedAt:          now,
		LastUpdated:        now,
	}
	for _, p := range participants {
		room.AddParticipant(p)
	}
	return room
}

// HasParticipant reports whether a participant id is present.
func (r *Room) HasParticipant(id string) bool {
	return lo.ContainsBy(r.Participants, func(p Participant) bool {
		return p.ID == id
	})
}

// AddParticipant appends a participant and makes sure their language
// bucket exists. Idempotent by participant id: adding twice reports
// false and changes nothing.
func (r *Room) AddParticipant(p Participant) bool {
	if r.HasParticipant(p.ID) {
		return false
	}
	r.Participants = append(r.Participants, p)
	r.EnsureBucket(string(lang.Normalize(p.NativeLanguage)))
	return true
}

// RemoveParticipant removes a participant by id. The language bucket
// and the Languages entry are retained so history stays readable after
// departure.
func (r *Room) RemoveParticipant(id string) bool {
	before := len(r.Participants)
	r.Participants = lo.Reject(r.Participants, func(p Participant, _ int) bool {
		return p.ID == id
	})
	return len(r.Participants) != before
}

// EnsureBucket creates an empty history for a language and records it
// in Languages. Existing buckets are untouched.
func (r *Room) EnsureBucket(language string) {
	if r.MessagesByLanguage == nil {
		r.MessagesByLanguage = map[string][]Message{}
	}
	if _, ok := r.MessagesByLanguage[language]; !ok {
		r.MessagesByLanguage[language] = []Message{}
	}
	if !lo.Contains(r.Languages, language) {
		r.Languages = append(r.Languages, language)
	}
}

// AppendMessage appends to one language bucket, creating it on the fly
// for languages that joined after room creation.
func (r *Room) AppendMessage(language string, msg Message) {
	r.EnsureBucket(language)
	r.MessagesByLanguage[language] = append(r.MessagesByLanguage[language], msg)
}

// ParticipantLanguages returns the distinct canonical native languages
// of the current participants, in first-seen order.
func (r *Room) ParticipantLanguages() []lang.Code {
	codes := lo.Map(r.Participants, func(p Participant, _ int) lang.Code {
		return lang.Normalize(p.NativeLanguage)
	})
	return lo.Uniq(codes)
}

// Summary projects the room into its directory listing shape.
func (r *Room) Summary() RoomSummary {
	return RoomSummary{
		RoomCode:     r.RoomCode,
		LastUpdated:  r.LastUpdated,
		Participants: r.Participants,
	}
}
