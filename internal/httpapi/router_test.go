package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/analysis"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/auth"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/bot"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/config"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/i18n"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/logging"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/model"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/prefs"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/records"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/report"
)

type nopTransport struct {
	keyboards int
}

func (n *nopTransport) SendMessage(ctx context.Context, chatID int64, text string) error { return nil }
func (n *nopTransport) SendKeyboard(ctx context.Context, chatID int64, text string, rows [][]bot.Button) error {
	n.keyboards++
	return nil
}
func (n *nopTransport) SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string) error {
	return nil
}
func (n *nopTransport) SendDocument(ctx context.Context, chatID int64, doc []byte, filename, caption string) error {
	return nil
}
func (n *nopTransport) AnswerCallback(ctx context.Context, callbackID string) error { return nil }

func testRouter(t *testing.T) (*gin.Engine, *nopTransport, config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(gormsqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	nop := logging.NewNop()
	store := prefs.NewStore(db, nil, nop)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := config.Config{
		WebhookSecret:    "s3cret",
		JWTSecret:        "test-jwt-secret",
		OperatorUser:     "operator",
		OperatorPassword: "hunter2",
	}
	if err := auth.EnsureOperator(db, cfg.OperatorUser, cfg.OperatorPassword); err != nil {
		t.Fatalf("seed operator: %v", err)
	}

	rows := []records.ProjectRecord{
		{Identifier: "ccbjj-100", City: "salvador", Stage: "fundacao", Material: "concreto", RainLevel: 120},
	}
	artifact := &model.Artifact{
		FeatureOrder: []string{"nivel_chuva"},
		Numeric:      map[string]model.ScaleParams{"nivel_chuva": {Mean: 100, Std: 20}},
		Trees:        []*model.TreeNode{{Leaf: true, Value: 4.0}},
	}
	resolver := records.NewResolver(records.NewLocal(rows), nil, nop)
	analyzer := analysis.NewService(resolver, artifact, nil, nop)

	catalog, err := i18n.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	transport := &nopTransport{}
	controller := bot.NewController(store, analyzer, report.NewComposer(catalog, nop), transport, catalog, nop)

	return NewRouter(db, cfg, controller, analyzer, nop), transport, cfg
}

func TestWebhook_RejectsBadSecret(t *testing.T) {
	r, _, _ := testRouter(t)

	body := `{"update_id": 1, "message": {"chat": {"id": 5}, "text": "/start"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(body))
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "wrong")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestWebhook_AcceptsAndDispatches(t *testing.T) {
	r, transport, cfg := testRouter(t)

	body := `{"update_id": 2, "message": {"chat": {"id": 6}, "text": "/start"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(body))
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", cfg.WebhookSecret)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if transport.keyboards != 1 {
		t.Fatalf("expected the language keyboard to go out, got %d keyboards", transport.keyboards)
	}
}

func TestAnalyses_RequiresToken(t *testing.T) {
	r, _, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/analyses/ccbjj-100", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestLoginAndAnalyses_FullFlow(t *testing.T) {
	r, _, _ := testRouter(t)

	login := httptest.NewRequest(http.MethodPost, "/login",
		bytes.NewBufferString(`{"username": "operator", "password": "hunter2"}`))
	login.Header.Set("Content-Type", "application/json")
	lw := httptest.NewRecorder()
	r.ServeHTTP(lw, login)
	if lw.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", lw.Code, lw.Body.String())
	}

	var loginResp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(lw.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if loginResp.Data.Token == "" {
		t.Fatalf("expected a token")
	}

	req := httptest.NewRequest(http.MethodGet, "/analyses/ccbjj-100?mode=LOCAL", nil)
	req.Header.Set("Authorization", "Bearer "+loginResp.Data.Token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Identifier string  `json:"identifier"`
			MeanRisk   float64 `json:"mean_risk_days"`
			Status     string  `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode analysis response: %v", err)
	}
	if resp.Data.Identifier != "ccbjj-100" || resp.Data.MeanRisk != 4.0 || resp.Data.Status != "NORMAL" {
		t.Fatalf("unexpected analysis payload: %+v", resp.Data)
	}
}

func TestAnalyses_NotFound(t *testing.T) {
	r, _, cfg := testRouter(t)

	token, err := auth.SignJWT("operator", cfg.JWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/analyses/nope?mode=LOCAL", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
