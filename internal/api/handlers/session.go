package handlers

import (
	"context"
	"strings"

	"github.com/amaumene/cinelist/internal/controllers"
	"github.com/amaumene/cinelist/internal/models"
	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

// UserHeader carries the identity of the signed-in user
const UserHeader = "X-User-ID"

const sessionKey = "session"

// Sessions is what the API needs from the session manager
type Sessions interface {
	Get(ctx context.Context, userID string) (*controllers.Session, error)
	End(userID string) bool
	Count() int
}

// SessionHandler resolves the caller's session and handles sign-out
type SessionHandler struct {
	sessions Sessions
	logger   *logrus.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions Sessions, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

func userID(c *fiber.Ctx) string {
	return fiberutils.CopyString(strings.TrimSpace(c.Get(UserHeader)))
}

// Require loads the caller's session into the request locals
func (h *SessionHandler) Require(c *fiber.Ctx) error {
	id := userID(c)
	if id == "" {
		return respond(c, fiber.StatusUnauthorized, nil, models.ErrorNotice("Sign in to use watchlists."))
	}

	sess, err := h.sessions.Get(c.UserContext(), id)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", id).Error("Failed to load session")
		return fail(c, err, models.ErrorNotice("Could not load your data."))
	}

	c.Locals(sessionKey, sess)
	return c.Next()
}

// SignOut tears the caller's session down
func (h *SessionHandler) SignOut(c *fiber.Ctx) error {
	id := userID(c)
	if id == "" {
		return respond(c, fiber.StatusUnauthorized, nil, models.ErrorNotice("Not signed in."))
	}
	ended := h.sessions.End(id)
	return ok(c, fiber.Map{"ended": ended}, nil)
}

func session(c *fiber.Ctx) *controllers.Session {
	sess, _ := c.Locals(sessionKey).(*controllers.Session)
	return sess
}
