package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/bot"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/common"
)

const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"status": "ok"})
}

// Webhook receives one Bot API update. The platform retries on non-2xx, so
// once the secret checks out the handler always acknowledges: update-level
// failures are the controller's problem and are already delivered or logged.
func (h *Handler) Webhook(c *gin.Context) {
	if h.Cfg.WebhookSecret != "" {
		got := c.GetHeader(secretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.Cfg.WebhookSecret)) != 1 {
			common.Fail(c, http.StatusUnauthorized, 40102, "bad secret token")
			return
		}
	}

	var upd bot.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	h.Controller.HandleUpdate(c.Request.Context(), upd)
	common.OK(c, gin.H{"update_id": upd.UpdateID})
}
