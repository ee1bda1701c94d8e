package presentation

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const flashCookie = "matricula_flash"

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a transient message shown once on the next rendered page and
// dismissed automatically after DismissMs.
type Flash struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	DismissMs int    `json:"dismiss_ms"`
}

// ShowTransientMessage queues msg for the next page render.
func ShowTransientMessage(c *gin.Context, kind, msg string, dismissAfter time.Duration) {
	payload, err := json.Marshal(Flash{Kind: kind, Message: msg, DismissMs: int(dismissAfter / time.Millisecond)})
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(payload), 60, "/", "", false, true)
}

// PopFlash returns the queued message, if any, and clears it.
func PopFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	payload, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(payload, &f); err != nil || f.Message == "" {
		return nil
	}
	return &f
}
