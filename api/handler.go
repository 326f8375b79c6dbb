package api

import (
	"errors"
	"log/slog"

	"babblebridge/domain"
	apperr "babblebridge/errors"
	"babblebridge/lang"
	"babblebridge/services"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	authSvc services.IAuthService
	roomSvc services.IRoomService
	log     *slog.Logger
}

func NewHandlers(authSvc services.IAuthService, roomSvc services.IRoomService, log *slog.Logger) *Handlers {
	return &Handlers{authSvc: authSvc, roomSvc: roomSvc, log: log}
}

func identityOf(c *fiber.Ctx) domain.Identity {
	if identity, ok := c.Locals("identity").(domain.Identity); ok {
		return identity
	}
	return domain.Identity{}
}

// status maps the error taxonomy onto HTTP codes. Anything without a
// well-known cause is a 500.
func status(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, apperr.ErrRoomNotFound), errors.Is(err, apperr.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrRoomAlreadyExists), errors.Is(err, apperr.ErrUserAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, apperr.ErrUnauthenticated), errors.Is(err, apperr.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperr.ErrEmptyMessage),
		errors.Is(err, apperr.ErrInvalidRoomCode),
		errors.Is(err, apperr.ErrInvalidRoomLink),
		errors.Is(err, apperr.ErrInvalidRegistration),
		errors.Is(err, apperr.ErrInvalidPassword):
		return fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrTooMuchContention):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(status(err)).JSON(fiber.Map{"error": err.Error()})
}

func (h *Handlers) register(c *fiber.Ctx) error {
	var req struct {
		Email          string `json:"email"`
		Password       string `json:"password"`
		Username       string `json:"username"`
		NativeLanguage string `json:"native_language"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	token, err := h.authSvc.Register(req.Email, req.Password, req.Username, req.NativeLanguage)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token})
}

func (h *Handlers) login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	token, err := h.authSvc.Login(req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

func (h *Handlers) createRoom(c *fiber.Ctx) error {
	var req struct {
		Participants []struct {
			ID             string `json:"id"`
			Email          string `json:"email"`
			Username       string `json:"username"`
			NativeLanguage string `json:"native_language"`
		} `json:"participants"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	participants := make([]domain.Participant, 0, len(req.Participants))
	for _, p := range req.Participants {
		participants = append(participants, domain.Participant{
			ID:             p.ID,
			Email:          p.Email,
			Username:       p.Username,
			NativeLanguage: p.NativeLanguage,
		})
	}

	room, err := h.roomSvc.CreateRoom(c.Context(), identityOf(c), participants)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"room": room,
		"link": domain.FormatRoomLink(room.RoomCode),
	})
}

func (h *Handlers) getRoom(c *fiber.Ctx) error {
	room, err := h.roomSvc.GetRoom(c.Context(), c.Params("code"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"room": room})
}

func (h *Handlers) getMessages(c *fiber.Ctx) error {
	messages, err := h.roomSvc.GetMessages(c.Context(), c.Params("code"), c.Query("language"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

func (h *Handlers) sendMessage(c *fiber.Ctx) error {
	var req struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	// Clients that don't declare the language get an offline guess.
	if req.Language == "" {
		req.Language = string(lang.Detect(req.Text))
	}
	err := h.roomSvc.SendMessage(c.Context(), identityOf(c), c.Params("code"), req.Text, req.Language)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "ok"})
}

func (h *Handlers) addParticipant(c *fiber.Ctx) error {
	var req struct {
		ID             string `json:"id"`
		Email          string `json:"email"`
		Username       string `json:"username"`
		NativeLanguage string `json:"native_language"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	err := h.roomSvc.AddParticipant(c.Context(), c.Params("code"), domain.Participant{
		ID:             req.ID,
		Email:          req.Email,
		Username:       req.Username,
		NativeLanguage: req.NativeLanguage,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handlers) removeParticipant(c *fiber.Ctx) error {
	err := h.roomSvc.RemoveParticipant(c.Context(), identityOf(c), c.Params("code"), c.Params("user_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handlers) listRooms(c *fiber.Ctx) error {
	summaries, err := h.roomSvc.ListRoomsFor(c.Context(), identityOf(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"rooms": summaries})
}

// joinByLink decodes a scanned room link and joins the caller as a
// participant in one step.
func (h *Handlers) joinByLink(c *fiber.Ctx) error {
	var req struct {
		Link           string `json:"link"`
		Username       string `json:"username"`
		NativeLanguage string `json:"native_language"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	code, err := domain.ParseRoomLink(req.Link)
	if err != nil {
		return fail(c, err)
	}
	identity := identityOf(c)
	err = h.roomSvc.AddParticipant(c.Context(), code, domain.Participant{
		ID:             identity.ID,
		Email:          identity.Display,
		Username:       req.Username,
		NativeLanguage: req.NativeLanguage,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "room_code": code})
}
