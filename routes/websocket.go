package routes

import (
	"rewards/response"
	"rewards/services/logger"
	"rewards/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

type tokenParser interface {
	ParseToken(token string) (uint, error)
}

// InitWebSocket mounts /ws. Browsers cannot set headers on the upgrade, so the
// bearer token travels in the query string.
func InitWebSocket(router *gin.Engine, m *melody.Melody, tokens tokenParser, log logger.Logger) {
	m.HandleConnect(func(s *melody.Session) {
		if id, ok := s.Get(notification.SessionUserKey); ok {
			log.Debug("websocket connected for user %v", id)
		}
	})
	m.HandleError(func(s *melody.Session, err error) {
		log.Error("❌ websocket error: %v", err)
	})

	router.GET("/ws", func(c *gin.Context) {
		userID, err := tokens.ParseToken(c.Query("token"))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		keys := map[string]interface{}{notification.SessionUserKey: userID}
		if err := m.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
			log.Error("❌ websocket upgrade failed: %v", err)
		}
	})
	log.Info("✅ WebSocket initialized")
}
