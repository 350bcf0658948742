package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	config "github.com/prasadk19/postdeck/configs"
	"github.com/prasadk19/postdeck/internal/service"
)

const oauthStateCookie = "linkedin_oauth_state"

// ConnectionHandler runs the LinkedIn OAuth dance and manages the
// resulting connection record.
type ConnectionHandler struct {
	s   service.LinkedInService
	cfg config.Config
}

func NewConnectionHandler(cfg config.Config, service service.LinkedInService) *ConnectionHandler {
	return &ConnectionHandler{s: service, cfg: cfg}
}

func (h *ConnectionHandler) Connect(c *fiber.Ctx) error {
	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		HTTPOnly: true,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
	})

	return c.Redirect(h.s.AuthURL(state))
}

func (h *ConnectionHandler) Callback(c *fiber.Ctx) error {
	userID := GetUserID(c)

	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "OAuth state mismatch",
		})
	}
	c.Cookie(&fiber.Cookie{
		Name:    oauthStateCookie,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	})

	if err := h.s.Callback(c.Context(), userID, c.Query("code")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to connect LinkedIn account",
		})
	}

	return c.Redirect(h.cfg.FrontendURL, fiber.StatusTemporaryRedirect)
}

func (h *ConnectionHandler) Disconnect(c *fiber.Ctx) error {
	userID := GetUserID(c)

	if err := h.s.Disconnect(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to disconnect LinkedIn account",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
