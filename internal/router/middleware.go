package router

import (
	"clinscore/internal/handlers"
	"clinscore/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ActiveSessionLoader checks for an assessment session id in the cookie.
// If the session is still live it is put in the context for the handlers;
// an evicted one is dropped from the cookie so the caller starts fresh.
func ActiveSessionLoader(log *zap.Logger, store *services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := session.Get(handlers.ActiveSessionKey).(string)
		if !ok || id == "" {
			c.Next()
			return
		}

		if err := store.Update(id, func(*services.Entry) error { return nil }); err != nil {
			log.Debug("Dropping stale assessment session", zap.String("session_id", id))
			session.Delete(handlers.ActiveSessionKey)
			if err := session.Save(); err != nil {
				log.Warn("Failed to clear stale session cookie", zap.Error(err))
			}
			c.Next()
			return
		}

		c.Set(handlers.ActiveSessionKey, id)
		c.Next()
	}
}
