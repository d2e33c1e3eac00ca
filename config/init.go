package config

import (
	"net/http"

	"attendance/constants"
	"attendance/middleware"
	"attendance/response"
	"attendance/services/logger"
	"attendance/services/notification"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/robfig/cron/v3"
)

func InitApp(cfg Config, log logger.Logger) (*gin.Engine, *melody.Melody, *cron.Cron) {
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.MetricsMiddleware())

	configCors := cors.DefaultConfig()
	configCors.AddAllowHeaders("Authorization", middleware.RequestIDHeader)
	configCors.AddExposeHeaders(middleware.RequestIDHeader)
	configCors.AllowCredentials = true
	configCors.AllowAllOrigins = false
	configCors.AllowOriginFunc = func(origin string) bool {
		return true
	}
	router.Use(cors.New(configCors))

	_ = router.SetTrustedProxies(nil)

	m := melody.New()

	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)))

	return router, m, c
}

// InitWebSocket serves the dashboard feed at /ws?token=. Only employer tokens are
// accepted and each session is bound to its employer.
func InitWebSocket(router *gin.Engine, m *melody.Melody, auth middleware.Authenticator, log logger.Logger) {
	router.GET("/ws", func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = c.GetHeader("Authorization")
		}
		info, err := auth.Authenticate(token)
		if err != nil {
			response.FromError(c, err)
			return
		}
		if info.Role != constants.RoleEmployer {
			response.Forbidden(c)
			return
		}
		if err := m.HandleRequestWithKeys(c.Writer, c.Request, notification.Keys(info.EmployerID)); err != nil {
			log.Warn("websocket upgrade failed for employer %s: %v", info.EmployerID, err)
			if !c.Writer.Written() {
				c.Status(http.StatusBadRequest)
			}
		}
	})

	m.HandleConnect(func(s *melody.Session) {
		v, _ := s.Get(notification.SessionEmployerKey)
		log.Debug("dashboard connected for employer %v", v)
	})
	m.HandleDisconnect(func(s *melody.Session) {
		v, _ := s.Get(notification.SessionEmployerKey)
		log.Debug("dashboard disconnected for employer %v", v)
	})
}
