package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/analysis"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/common"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/prefs"
)

// GetAnalysis runs the pipeline for one identifier on behalf of an operator,
// bypassing the chat flow. An optional ?mode=LOCAL|REMOTE overrides the
// default backend choice.
func (h *Handler) GetAnalysis(c *gin.Context) {
	identifier := strings.TrimSpace(c.Param("identifier"))
	if identifier == "" {
		common.Fail(c, http.StatusBadRequest, 10005, "identifier required")
		return
	}

	pref := prefs.CallerPreference{}
	switch strings.ToUpper(c.Query("mode")) {
	case prefs.ModeLocal:
		pref.Mode = prefs.ModeLocal
	case prefs.ModeRemote, "":
		pref.Mode = prefs.ModeRemote
	default:
		common.Fail(c, http.StatusBadRequest, 10006, "mode must be LOCAL or REMOTE")
		return
	}

	summary, err := h.Analyzer.Analyze(c.Request.Context(), 0, identifier, pref)
	if err != nil {
		var nf *analysis.NotFoundError
		if errors.As(err, &nf) {
			common.Fail(c, http.StatusNotFound, 40402, "project not found")
			return
		}
		h.Log.Error("operator analysis failed", "identifier", identifier, "error", err)
		common.Fail(c, http.StatusInternalServerError, 50001, "analysis failed")
		return
	}

	common.OK(c, summary)
}
