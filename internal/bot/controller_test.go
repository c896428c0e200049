package bot

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/analysis"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/i18n"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/logging"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/model"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/prefs"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/records"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/report"
)

type delivery struct {
	kind     string // "message", "keyboard", "photo", "document", "answer"
	text     string
	filename string
	payload  []byte
}

type recordingTransport struct {
	deliveries []delivery
}

func (r *recordingTransport) SendMessage(ctx context.Context, chatID int64, text string) error {
	_ = ctx
	_ = chatID
	r.deliveries = append(r.deliveries, delivery{kind: "message", text: text})
	return nil
}

func (r *recordingTransport) SendKeyboard(ctx context.Context, chatID int64, text string, rows [][]Button) error {
	_ = ctx
	_ = chatID
	_ = rows
	r.deliveries = append(r.deliveries, delivery{kind: "keyboard", text: text})
	return nil
}

func (r *recordingTransport) SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string) error {
	_ = ctx
	_ = chatID
	_ = caption
	r.deliveries = append(r.deliveries, delivery{kind: "photo", payload: photo})
	return nil
}

func (r *recordingTransport) SendDocument(ctx context.Context, chatID int64, doc []byte, filename, caption string) error {
	_ = ctx
	_ = chatID
	_ = caption
	r.deliveries = append(r.deliveries, delivery{kind: "document", filename: filename, payload: doc})
	return nil
}

func (r *recordingTransport) AnswerCallback(ctx context.Context, callbackID string) error {
	_ = ctx
	_ = callbackID
	r.deliveries = append(r.deliveries, delivery{kind: "answer"})
	return nil
}

func (r *recordingTransport) kinds() []string {
	out := make([]string, 0, len(r.deliveries))
	for _, d := range r.deliveries {
		out = append(out, d.kind)
	}
	return out
}

type failingRemote struct{}

func (failingRemote) Find(ctx context.Context, identifier string) ([]records.ProjectRecord, error) {
	_ = ctx
	_ = identifier
	return nil, errors.New("connection refused")
}

type recordingAuditor struct {
	last analysis.Summary
}

func (a *recordingAuditor) RecordAnalysis(ctx context.Context, callerID int64, s analysis.Summary) {
	_ = ctx
	_ = callerID
	a.last = s
}

func fixtureRows() []records.ProjectRecord {
	return []records.ProjectRecord{
		{Identifier: "ccbjj-100", City: "salvador", SoilType: "argiloso", RainLevel: 120, Budget: 1500000, Stage: "fundacao", Material: "concreto"},
		{Identifier: "ccbjj-100", City: "salvador", SoilType: "argiloso", RainLevel: 120, Budget: 1500000, Stage: "alvenaria", Material: "tijolo"},
		{Identifier: "ccbjj-100", City: "salvador", SoilType: "argiloso", RainLevel: 120, Budget: 1500000, Stage: "acabamento", Material: "gesso"},
	}
}

func fixtureArtifact() *model.Artifact {
	return &model.Artifact{
		FeatureOrder: []string{"nivel_chuva", "etapa"},
		Categorical:  map[string][]string{"etapa": {"fundacao", "alvenaria", "acabamento"}},
		Numeric:      map[string]model.ScaleParams{"nivel_chuva": {Mean: 100, Std: 20}},
		Trees: []*model.TreeNode{{
			Feature:   1,
			Threshold: 0.5,
			Left:      &model.TreeNode{Leaf: true, Value: 3.0},
			Right: &model.TreeNode{
				Feature:   1,
				Threshold: 1.5,
				Left:      &model.TreeNode{Leaf: true, Value: 8.5},
				Right:     &model.TreeNode{Leaf: true, Value: 1.0},
			},
		}},
	}
}

type harness struct {
	controller *Controller
	transport  *recordingTransport
	store      *prefs.Store
	auditor    *recordingAuditor
}

func newHarness(t *testing.T, remoteFails bool) *harness {
	t.Helper()

	db, err := gorm.Open(gormsqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	nop := logging.NewNop()
	store := prefs.NewStore(db, nil, nop)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	local := records.NewLocal(fixtureRows())
	var resolver *records.Resolver
	if remoteFails {
		resolver = records.NewResolver(local, failingRemote{}, nop)
	} else {
		resolver = records.NewResolver(local, nil, nop)
	}

	auditor := &recordingAuditor{}
	analyzer := analysis.NewService(resolver, fixtureArtifact(), auditor, nop)

	catalog, err := i18n.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	transport := &recordingTransport{}
	controller := NewController(store, analyzer, report.NewComposer(catalog, nop), transport, catalog, nop)

	return &harness{controller: controller, transport: transport, store: store, auditor: auditor}
}

func messageUpdate(callerID int64, text string) Update {
	return Update{Message: &Message{Chat: Chat{ID: callerID}, Text: text}}
}

func callbackUpdate(callerID int64, data string) Update {
	return Update{CallbackQuery: &CallbackQuery{ID: "cb", From: User{ID: callerID}, Data: data}}
}

func TestFullOnboardingAndReport(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()
	const caller = int64(1001)

	h.controller.HandleUpdate(ctx, messageUpdate(caller, "/start"))
	h.controller.HandleUpdate(ctx, callbackUpdate(caller, "lang_pt"))
	h.controller.HandleUpdate(ctx, callbackUpdate(caller, "mode_local"))
	h.controller.HandleUpdate(ctx, messageUpdate(caller, "CCBJJ-100"))

	want := []string{
		"keyboard", // language choice
		"answer", "message", "keyboard", // language confirmed, mode choice
		"answer", "message", // setup complete
		"message", "message", "photo", "document", // processing, report, chart, pdf
	}
	got := h.transport.kinds()
	if len(got) != len(want) {
		t.Fatalf("expected %d deliveries %v, got %d %v", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("delivery %d: got %q, want %q (all: %v)", i, got[i], want[i], got)
		}
	}

	p := h.store.Get(ctx, caller)
	if p.State() != prefs.Ready || p.Language != "pt" || p.Mode != prefs.ModeLocal {
		t.Fatalf("unexpected persisted preference: %+v", p)
	}

	summary := h.transport.deliveries[7]
	if !strings.Contains(summary.text, "CCBJJ-100") || !strings.Contains(summary.text, "4.2") {
		t.Fatalf("unexpected report text:\n%s", summary.text)
	}
	photo := h.transport.deliveries[8]
	if !bytes.HasPrefix(photo.payload, []byte{0x89, 'P', 'N', 'G'}) {
		t.Fatalf("photo is not a PNG")
	}
	doc := h.transport.deliveries[9]
	if doc.filename != "Risco_CCBJJ-100.pdf" {
		t.Fatalf("unexpected document name %q", doc.filename)
	}
	if !bytes.HasPrefix(doc.payload, []byte("%PDF")) {
		t.Fatalf("document is not a PDF")
	}
}

func TestQuery_NotFoundSendsSingleMessage(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()
	const caller = int64(1002)

	if err := h.store.SetLanguage(ctx, caller, "en"); err != nil {
		t.Fatalf("set language: %v", err)
	}
	if err := h.store.SetMode(ctx, caller, prefs.ModeLocal); err != nil {
		t.Fatalf("set mode: %v", err)
	}

	h.controller.HandleUpdate(ctx, messageUpdate(caller, "does-not-exist"))

	got := h.transport.kinds()
	if len(got) != 1 || got[0] != "message" {
		t.Fatalf("expected exactly one not-found message, got %v", got)
	}
	reply := h.transport.deliveries[0].text
	if !strings.Contains(reply, "does-not-exist") {
		t.Fatalf("not-found text missing identifier: %q", reply)
	}
	if strings.Contains(reply, "Processing") || strings.Contains(reply, "Processando") {
		t.Fatalf("interim status must not go out for an unknown identifier: %q", reply)
	}
}

// A dead remote backend must still produce the full report from the snapshot.
func TestQuery_RemoteFailureFallsBackWithFullReport(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	const caller = int64(1003)

	if err := h.store.SetLanguage(ctx, caller, "pt"); err != nil {
		t.Fatalf("set language: %v", err)
	}
	if err := h.store.SetMode(ctx, caller, prefs.ModeRemote); err != nil {
		t.Fatalf("set mode: %v", err)
	}

	h.controller.HandleUpdate(ctx, messageUpdate(caller, "ccbjj-100"))

	got := h.transport.kinds()
	want := []string{"message", "message", "photo", "document"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if h.auditor.last.Mode != records.ModeRemoteFallback {
		t.Fatalf("expected effective mode %q, got %q", records.ModeRemoteFallback, h.auditor.last.Mode)
	}
}

func TestCommands_BeforeOnboarding(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()
	const caller = int64(1004)

	// a bare query before onboarding re-prompts for language
	h.controller.HandleUpdate(ctx, messageUpdate(caller, "ccbjj-100"))
	// /settings before a language is chosen also goes back to language
	h.controller.HandleUpdate(ctx, messageUpdate(caller, "/settings"))

	got := h.transport.kinds()
	if len(got) != 2 || got[0] != "keyboard" || got[1] != "keyboard" {
		t.Fatalf("expected two keyboards, got %v", got)
	}
}

func TestAboutAndStatus(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()
	const caller = int64(1006)

	if err := h.store.SetLanguage(ctx, caller, "en"); err != nil {
		t.Fatalf("set language: %v", err)
	}
	if err := h.store.SetMode(ctx, caller, prefs.ModeRemote); err != nil {
		t.Fatalf("set mode: %v", err)
	}

	h.controller.HandleUpdate(ctx, messageUpdate(caller, "/about"))
	h.controller.HandleUpdate(ctx, messageUpdate(caller, "/status"))

	got := h.transport.kinds()
	if len(got) != 2 || got[0] != "message" || got[1] != "message" {
		t.Fatalf("expected two messages, got %v", got)
	}
	if !strings.Contains(h.transport.deliveries[0].text, "CCBJJ") {
		t.Fatalf("unexpected about text: %q", h.transport.deliveries[0].text)
	}
	status := h.transport.deliveries[1].text
	if !strings.Contains(status, "EN") || !strings.Contains(status, prefs.ModeRemote) {
		t.Fatalf("status missing language or mode: %q", status)
	}
}

func TestHelp_UsesCallerLanguage(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()
	const caller = int64(1005)

	if err := h.store.SetLanguage(ctx, caller, "en"); err != nil {
		t.Fatalf("set language: %v", err)
	}
	if err := h.store.SetMode(ctx, caller, prefs.ModeLocal); err != nil {
		t.Fatalf("set mode: %v", err)
	}

	h.controller.HandleUpdate(ctx, messageUpdate(caller, "/help"))

	if len(h.transport.deliveries) != 1 {
		t.Fatalf("expected one message, got %v", h.transport.kinds())
	}
	if !strings.Contains(h.transport.deliveries[0].text, "/settings") {
		t.Fatalf("help text missing command reference: %q", h.transport.deliveries[0].text)
	}
}
