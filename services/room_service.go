//go:generate go run go.uber.org/mock/mockgen -source=room_service.go -destination=../mocks/mock_room_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"babblebridge/auth"
	"babblebridge/domain"
	"babblebridge/errors"
	"babblebridge/lang"
	"babblebridge/moderation"
	"babblebridge/repositories"
	"babblebridge/translate"
)

type IRoomService interface {
	CreateRoom(ctx context.Context, identity domain.Identity, participants []domain.Participant) (domain.Room, error)
	GetRoom(ctx context.Context, code string) (domain.Room, error)
	GetMessages(ctx context.Context, code, language string) ([]domain.Message, error)
	SendMessage(ctx context.Context, identity domain.Identity, code, text, authorLanguage string) error
	AddParticipant(ctx context.Context, code string, participant domain.Participant) error
	RemoveParticipant(ctx context.Context, identity domain.Identity, code, userID string) error
	ListRoomsFor(ctx context.Context, identity domain.Identity) ([]domain.RoomSummary, error)
}

// maxCodeRetries bounds how many fresh room codes are rolled when
// creation hits a collision.
const maxCodeRetries = 5

type RoomService struct {
	rooms            repositories.IRoomRepository
	directory        repositories.IDirectoryRepository
	translator       translate.ITranslator
	moderator        *moderation.Moderator
	log              *slog.Logger
	translateTimeout time.Duration
	clock            func() time.Time
}

func NewRoomService(
	rooms repositories.IRoomRepository,
	directory repositories.IDirectoryRepository,
	translator translate.ITranslator,
	log *slog.Logger,
	translateTimeout time.Duration,
) *RoomService {
	return &RoomService{
		rooms:            rooms,
		directory:        directory,
		translator:       translator,
		log:              log,
		translateTimeout: translateTimeout,
		clock:            func() time.Time { return time.Now().UTC() },
	}
}

// WithModerator enables censoring of message text before fan-out.
func (s *RoomService) WithModerator(m *moderation.Moderator) *RoomService {
	s.moderator = m
	return s
}

// WithClock substitutes the timestamp source. Used by tests.
func (s *RoomService) WithClock(clock func() time.Time) *RoomService {
	s.clock = clock
	return s
}

// CreateRoom generates a unique room code and seeds the language
// buckets from the participants' native languages.
func (s *RoomService) CreateRoom(ctx context.Context, identity domain.Identity, participants []domain.Participant) (domain.Room, error) {
	if identity.IsZero() {
		return domain.Room{}, errors.ErrUnauthenticated
	}

	var room domain.Room
	for attempt := 0; ; attempt++ {
		room = domain.NewRoom(domain.NewRoomCode(), participants, s.clock())
		err := s.rooms.CreateRoom(room)
		if err == nil {
			break
		}
		if err == errors.ErrRoomAlreadyExists && attempt < maxCodeRetries {
			s.log.Debug("Room code collision, rolling a new one", "code", room.RoomCode)
			continue
		}
		return domain.Room{}, err
	}

	s.log.Info("Room created", "code", room.RoomCode, "languages", room.Languages)
	return room, nil
}

func (s *RoomService) GetRoom(_ context.Context, code string) (domain.Room, error) {
	if !domain.ValidRoomCode(code) {
		return domain.Room{}, errors.ErrInvalidRoomCode
	}
	return s.rooms.GetRoom(code)
}

// GetMessages returns one language bucket in delivery order. The
// language identifier may be any spelling; it is canonicalized before
// the lookup.
func (s *RoomService) GetMessages(ctx context.Context, code, language string) ([]domain.Message, error) {
	room, err := s.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	return room.MessagesByLanguage[string(lang.Normalize(language))], nil
}

// SendMessage fans one authored message out to every language
// represented in the room.
//
// The original text goes to the author's canonical bucket untouched.
// Each other participant language is translated independently and
// concurrently under a bounded per-call timeout; a failed or timed-out
// translation falls back to the original text so no bucket ever misses
// a message. All buckets commit atomically in one merge.
func (s *RoomService) SendMessage(ctx context.Context, identity domain.Identity, code, text, authorLanguage string) error {
	if identity.IsZero() {
		return errors.ErrUnauthenticated
	}
	if !domain.ValidRoomCode(code) {
		return errors.ErrInvalidRoomCode
	}
	if err := auth.ValidateSendMessage(auth.SendMessageRequest{RoomCode: code, Text: text}); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrEmptyMessage, err)
	}

	room, err := s.rooms.GetRoom(code)
	if err != nil {
		return err
	}

	if s.moderator != nil {
		censored, found := s.moderator.Censor(text)
		if len(found) > 0 {
			s.log.Warn("Message censored", "room", code, "author", identity.ID, "words", len(found))
		}
		text = censored
	}

	source := lang.Normalize(authorLanguage)
	original := domain.Message{
		Text:      text,
		Sender:    identity.Display,
		SenderID:  identity.ID,
		Timestamp: s.clock(),
	}

	appends := map[string][]domain.Message{
		string(source): {original},
	}

	var targets []lang.Code
	for _, target := range room.ParticipantLanguages() {
		if target != source {
			targets = append(targets, target)
		}
	}

	// One goroutine per target language; results are collected by
	// index so a slow provider call only delays its own bucket up to
	// the per-call timeout.
	translated := make([]domain.Message, len(targets))
	done := make(chan int, len(targets))
	for i, target := range targets {
		go func(i int, target lang.Code) {
			translated[i] = s.translateTo(ctx, original, source, target)
			done <- i
		}(i, target)
	}
	for range targets {
		<-done
	}
	for i, target := range targets {
		appends[string(target)] = []domain.Message{translated[i]}
	}

	if _, err = s.rooms.MergeRoom(code, repositories.RoomDelta{AppendMessages: appends}); err != nil {
		return err
	}

	s.log.Debug("Message fanned out",
		"room", code,
		"author", identity.ID,
		"source", source,
		"buckets", len(appends))
	return nil
}

// translateTo produces the message copy for one target language.
// Failure is absorbed here: the original text is substituted and the
// send as a whole still succeeds.
func (s *RoomService) translateTo(ctx context.Context, original domain.Message, source, target lang.Code) domain.Message {
	tctx, cancel := context.WithTimeout(ctx, s.translateTimeout)
	defer cancel()

	text, err := s.translator.Translate(tctx, original.Text, source, target)
	if err != nil {
		s.log.Warn("Translation fallback to original text",
			"source", source,
			"target", target,
			"error", err.Error())
		return original
	}

	translated := original
	translated.Text = text
	return translated
}

// AddParticipant joins a user to a room. Idempotent by participant id;
// the merge creates the language bucket when the language is new to
// the room, and prior messages are not retroactively translated.
func (s *RoomService) AddParticipant(ctx context.Context, code string, participant domain.Participant) error {
	if !domain.ValidRoomCode(code) {
		return errors.ErrInvalidRoomCode
	}

	delta := repositories.RoomDelta{
		AddParticipants: []domain.Participant{participant},
		EnsureBuckets:   []string{string(lang.Normalize(participant.NativeLanguage))},
	}
	_, err := s.rooms.MergeRoom(code, delta)
	return err
}

// RemoveParticipant drops a user from the participant list only.
// History, including their language bucket, is retained; removing an
// absent participant is a no-op.
func (s *RoomService) RemoveParticipant(ctx context.Context, identity domain.Identity, code, userID string) error {
	if identity.IsZero() {
		return errors.ErrUnauthenticated
	}
	if !domain.ValidRoomCode(code) {
		return errors.ErrInvalidRoomCode
	}

	delta := repositories.RoomDelta{RemoveParticipantIDs: []string{userID}}
	_, err := s.rooms.MergeRoom(code, delta)
	return err
}

// ListRoomsFor returns the caller's rooms, most recently active first,
// via the per-user directory index.
func (s *RoomService) ListRoomsFor(ctx context.Context, identity domain.Identity) ([]domain.RoomSummary, error) {
	if identity.IsZero() {
		return nil, errors.ErrUnauthenticated
	}

	codes, err := s.directory.RoomsFor(identity.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.RoomSummary, 0, len(codes))
	for _, code := range codes {
		room, err := s.rooms.GetRoom(code)
		if err == errors.ErrRoomNotFound {
			// Stale index entry; the room document is the source of truth.
			s.log.Warn("Directory points at a missing room", "code", code, "user", identity.ID)
			continue
		}
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, room.Summary())
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastUpdated.After(summaries[j].LastUpdated)
	})
	return summaries, nil
}
