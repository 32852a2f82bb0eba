package middleware

import (
	"github.com/gofiber/fiber/v2"

	"galleryapi/internal/model"
)

const (
	// ActorIDHeader carries the acting user's id. Authentication itself is an
	// upstream concern; this service trusts the header.
	ActorIDHeader = "X-User-ID"
	// ActorEmailHeader optionally carries the acting user's email for audit rows.
	ActorEmailHeader = "X-User-Email"
)

// Actor resolves the acting user from request headers and stores it in the
// request's user context, where services and the audit log pick it up.
// Requests without the header pass through anonymous; handlers that need an
// actor reject those themselves.
func Actor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(ActorIDHeader)
		if id != "" {
			actor := model.Actor{ID: id, Email: c.Get(ActorEmailHeader)}
			c.SetUserContext(model.WithActor(c.UserContext(), actor))
		}
		return c.Next()
	}
}
