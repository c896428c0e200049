package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/analysis"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/i18n"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/logging"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/prefs"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/report"
)

// Callback codes for the two onboarding keyboards.
const (
	cbLangPrefix = "lang_"
	cbModeLocal  = "mode_local"
	cbModeRemote = "mode_remote"
)

// Controller is the single boundary between the chat platform and the
// pipeline: it routes onboarding transitions, treats any other text from an
// onboarded caller as a project-identifier query, and converts every internal
// error into localized text. The caller's position in the onboarding flow is
// derived from the persisted preference row alone.
type Controller struct {
	prefs     *prefs.Store
	analyzer  *analysis.Service
	composer  *report.Composer
	transport Transport
	catalog   *i18n.Catalog
	log       *logging.Logger
	now       func() time.Time
}

func NewController(
	prefStore *prefs.Store,
	analyzer *analysis.Service,
	composer *report.Composer,
	transport Transport,
	catalog *i18n.Catalog,
	log *logging.Logger,
) *Controller {
	return &Controller{
		prefs:     prefStore,
		analyzer:  analyzer,
		composer:  composer,
		transport: transport,
		catalog:   catalog,
		log:       log,
		now:       time.Now,
	}
}

// HandleUpdate processes one inbound event. It never returns an error: by
// this point every failure is either delivered to the caller as text or
// logged for the operator.
func (c *Controller) HandleUpdate(ctx context.Context, upd Update) {
	callerID := upd.CallerID()
	if callerID == 0 {
		return
	}

	pref := c.prefs.Get(ctx, callerID)

	if upd.CallbackQuery != nil {
		c.handleCallback(ctx, callerID, pref, upd.CallbackQuery)
		return
	}
	c.handleMessage(ctx, callerID, pref, strings.TrimSpace(upd.Message.Text))
}

func (c *Controller) handleCallback(ctx context.Context, callerID int64, pref prefs.CallerPreference, cb *CallbackQuery) {
	if err := c.transport.AnswerCallback(ctx, cb.ID); err != nil {
		c.log.Warn("answer callback failed", "caller_id", callerID, "error", err)
	}

	switch {
	case strings.HasPrefix(cb.Data, cbLangPrefix):
		lang := strings.TrimPrefix(cb.Data, cbLangPrefix)
		if err := c.prefs.SetLanguage(ctx, callerID, lang); err != nil {
			c.log.Error("persist language failed", "caller_id", callerID, "error", err)
			c.send(ctx, callerID, c.catalog.T(pref.LanguageOrDefault(), "analysis_failed"))
			return
		}
		c.send(ctx, callerID, c.catalog.T(lang, "language_changed"))
		c.sendModeKeyboard(ctx, callerID, lang)

	case cb.Data == cbModeLocal || cb.Data == cbModeRemote:
		mode := prefs.ModeLocal
		if cb.Data == cbModeRemote {
			mode = prefs.ModeRemote
		}
		if err := c.prefs.SetMode(ctx, callerID, mode); err != nil {
			c.log.Error("persist mode failed", "caller_id", callerID, "error", err)
			c.send(ctx, callerID, c.catalog.T(pref.LanguageOrDefault(), "analysis_failed"))
			return
		}
		lang := pref.LanguageOrDefault()
		c.send(ctx, callerID, c.catalog.T(lang, "setup_complete", "mode", mode))

	default:
		c.log.Warn("unknown callback", "caller_id", callerID, "data", cb.Data)
	}
}

func (c *Controller) handleMessage(ctx context.Context, callerID int64, pref prefs.CallerPreference, text string) {
	if text == "" {
		return
	}
	lang := pref.LanguageOrDefault()

	switch {
	case text == "/start":
		c.sendLanguageKeyboard(ctx, callerID, lang)
		return
	case text == "/settings":
		if pref.State() == prefs.AwaitingLanguage {
			c.sendLanguageKeyboard(ctx, callerID, lang)
			return
		}
		c.sendModeKeyboard(ctx, callerID, lang)
		return
	case text == "/help":
		c.send(ctx, callerID, c.catalog.T(lang, "help"))
		return
	case text == "/about":
		c.send(ctx, callerID, c.catalog.T(lang, "about"))
		return
	case text == "/status":
		c.send(ctx, callerID, c.catalog.T(lang, "status",
			"lang", strings.ToUpper(lang), "mode", pref.ModeOrDefault()))
		return
	}

	switch pref.State() {
	case prefs.AwaitingLanguage:
		c.sendLanguageKeyboard(ctx, callerID, lang)
	case prefs.AwaitingMode:
		c.sendModeKeyboard(ctx, callerID, lang)
	default:
		c.runQuery(ctx, callerID, pref, text)
	}
}

// runQuery executes the full pipeline for one identifier and delivers the
// artifacts in reading order: text, chart, document. An unknown identifier
// answers with exactly one message; the interim status only goes out once
// the identifier resolved and the slow rendering work is about to start.
func (c *Controller) runQuery(ctx context.Context, callerID int64, pref prefs.CallerPreference, identifier string) {
	lang := pref.LanguageOrDefault()

	summary, err := c.analyzer.Analyze(ctx, callerID, identifier, pref)
	if err != nil {
		var nf *analysis.NotFoundError
		if errors.As(err, &nf) {
			c.send(ctx, callerID, c.catalog.T(lang, "not_found", "id", nf.Identifier, "mode", nf.Mode))
			return
		}
		c.log.Error("analysis failed", "caller_id", callerID, "identifier", identifier, "error", err)
		c.send(ctx, callerID, c.catalog.T(lang, "analysis_failed"))
		return
	}

	c.send(ctx, callerID, c.catalog.T(lang, "processing"))

	bundle := c.composer.Compose(summary, lang, c.now())

	if err := c.transport.SendMessage(ctx, callerID, bundle.Text); err != nil {
		c.log.Error("text delivery failed", "caller_id", callerID, "error", err)
		return
	}
	if bundle.Chart != nil {
		if err := c.transport.SendPhoto(ctx, callerID, bundle.Chart, ""); err != nil {
			c.log.Error("chart delivery failed", "caller_id", callerID, "error", err)
		}
	}
	if bundle.Document != nil {
		caption := c.catalog.T(lang, "doc_caption")
		if err := c.transport.SendDocument(ctx, callerID, bundle.Document, bundle.DocumentName, caption); err != nil {
			c.log.Error("document delivery failed", "caller_id", callerID, "error", err)
		}
	}
	if bundle.RenderFailed {
		c.send(ctx, callerID, c.catalog.T(lang, "render_failed"))
	}
}

func (c *Controller) sendLanguageKeyboard(ctx context.Context, callerID int64, lang string) {
	rows := [][]Button{{
		{Text: c.catalog.T(lang, "btn_lang_pt"), Data: cbLangPrefix + "pt"},
		{Text: c.catalog.T(lang, "btn_lang_en"), Data: cbLangPrefix + "en"},
	}}
	if err := c.transport.SendKeyboard(ctx, callerID, c.catalog.T(lang, "welcome"), rows); err != nil {
		c.log.Error("language keyboard delivery failed", "caller_id", callerID, "error", err)
	}
}

func (c *Controller) sendModeKeyboard(ctx context.Context, callerID int64, lang string) {
	rows := [][]Button{{
		{Text: c.catalog.T(lang, "btn_mode_local"), Data: cbModeLocal},
		{Text: c.catalog.T(lang, "btn_mode_remote"), Data: cbModeRemote},
	}}
	if err := c.transport.SendKeyboard(ctx, callerID, c.catalog.T(lang, "infra_select"), rows); err != nil {
		c.log.Error("mode keyboard delivery failed", "caller_id", callerID, "error", err)
	}
}

func (c *Controller) send(ctx context.Context, callerID int64, text string) {
	if err := c.transport.SendMessage(ctx, callerID, text); err != nil {
		c.log.Warn("message delivery failed", "caller_id", callerID, "error", err)
	}
}
