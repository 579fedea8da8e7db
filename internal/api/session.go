package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/spracknow-droid/PO-Progress-Status/internal/logger"
)

// SessionCookie 会话 cookie 名称
const SessionCookie = "postatus_sid"

const sessionKey = "sessionID"

// session 读取或创建会话 ID，同时刷新 SQLite 中的会话时间
func (h *Handler) session(c *gin.Context) string {
	if v, ok := c.Get(sessionKey); ok {
		return v.(string)
	}

	id := ""
	if raw, err := c.Cookie(SessionCookie); err == nil {
		if parsed, err := uuid.Parse(raw); err == nil {
			id = parsed.String()
		}
	}
	if id == "" {
		id = uuid.New().String()
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, int(h.cfg.Session.TTL.Std()/time.Second), "/", "", false, true)
	c.Set(sessionKey, id)

	if err := h.store.TouchSession(id, time.Now()); err != nil {
		logger.Warnf("touch session %s: %v", id, err)
	}
	return id
}
