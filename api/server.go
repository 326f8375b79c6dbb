// Package api exposes the room operations over HTTP.
// Transport only: every handler resolves the caller's identity from
// the bearer token and hands it explicitly to the service layer.
package api

import (
	"log/slog"
	"strings"

	"babblebridge/services"

	"github.com/gofiber/fiber/v2"
)

func NewServer(authSvc services.IAuthService, roomSvc services.IRoomService, log *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	h := NewHandlers(authSvc, roomSvc, log)

	app.Post("/v1/auth/register", h.register)
	app.Post("/v1/auth/login", h.login)

	rooms := app.Group("/v1")
	rooms.Use(func(c *fiber.Ctx) error {
		hdr := c.Get("Authorization")
		const pref = "Bearer "
		if !strings.HasPrefix(hdr, pref) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}
		identity, err := authSvc.IdentityFromToken(hdr[len(pref):])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		c.Locals("identity", identity)
		return c.Next()
	})

	rooms.Post("/rooms", h.createRoom)
	rooms.Get("/rooms", h.listRooms)
	rooms.Get("/rooms/:code", h.getRoom)
	rooms.Get("/rooms/:code/messages", h.getMessages)
	rooms.Post("/rooms/:code/messages", h.sendMessage)
	rooms.Post("/rooms/:code/participants", h.addParticipant)
	rooms.Delete("/rooms/:code/participants/:user_id", h.removeParticipant)
	rooms.Post("/rooms/join", h.joinByLink)

	return app
}
