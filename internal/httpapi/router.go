package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/analysis"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/bot"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/common"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/config"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/httpapi/handlers"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/httpapi/middleware"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/logging"
)

func NewRouter(db *gorm.DB, cfg config.Config, controller *bot.Controller, analyzer *analysis.Service, log *logging.Logger) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	h := handlers.NewHandler(db, cfg, controller, analyzer, log)

	r.GET("/ping", h.Ping)
	r.POST("/webhook", h.Webhook)

	// operator API
	r.POST("/login", h.Login)
	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthRequired(cfg.JWTSecret))
	authGroup.GET("/analyses/:identifier", h.GetAnalysis)

	return r
}
