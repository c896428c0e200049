package handlers

import (
	"gorm.io/gorm"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/analysis"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/bot"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/config"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/logging"
)

type Handler struct {
	DB         *gorm.DB
	Cfg        config.Config
	Controller *bot.Controller
	Analyzer   *analysis.Service
	Log        *logging.Logger
}

func NewHandler(db *gorm.DB, cfg config.Config, controller *bot.Controller, analyzer *analysis.Service, log *logging.Logger) *Handler {
	return &Handler{
		DB:         db,
		Cfg:        cfg,
		Controller: controller,
		Analyzer:   analyzer,
		Log:        log,
	}
}
