package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/matricula-admin/internal/service"
)

const (
	sessionCookie = "matricula_session"
	sessionHeader = "X-Session-ID"
)

// listingSession returns the caller's listing session id, issuing a new
// session cookie when none was sent. API clients without cookies may pass
// the id in the X-Session-ID header instead.
func listingSession(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(sessionHeader)); id != "" {
		return id
	}
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		return id
	}
	id := service.NewSessionID()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	c.Header(sessionHeader, id)
	return id
}
