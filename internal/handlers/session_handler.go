package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"talentbridge/job-intake/internal/intake"
	"talentbridge/job-intake/internal/models"
)

// SessionHandler serves the polling endpoint for session state.
type SessionHandler struct {
	sessions *intake.Store
}

func NewSessionHandler(sessions *intake.Store) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// HandleGetSession handles GET /intake/sessions/:id. While an import is
// running the state stays "importing"; the caller polls until the
// session lands in "review" or falls back to "selection" with an error.
func (h *SessionHandler) HandleGetSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID format",
		})
	}

	session, ok := h.sessions.Get(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	return c.JSON(models.NewSessionResponse(session.View()))
}
