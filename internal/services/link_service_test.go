package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jlonij/dac/internal/clients"
	"github.com/jlonij/dac/internal/domain"
	"github.com/jlonij/dac/internal/linking"
)

// ---------- test helpers ----------

func newLinkDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:linksvc_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.LinkRun{}, &domain.MentionResult{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// stubClassifier always predicts a fixed probability for every candidate.
type stubClassifier struct {
	prob float64
}

func (c stubClassifier) Predict(_ map[string]float64) (float64, error) { return c.prob, nil }
func (c stubClassifier) FeatureNames() []string                        { return nil }

const ocrBody = `<ocr>Jan Jansen woonde in Rotterdam.</ocr>`

func newOCRServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(ocrBody))
	}))
}

func newNERServer(t *testing.T, entitiesXML string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(entitiesXML))
	}))
}

func newSearchServer(t *testing.T, docs []clients.Document) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := struct {
			Response struct {
				Docs []clients.Document `json:"docs"`
			} `json:"response"`
		}{}
		resp.Response.Docs = docs
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newLinker(searchURL string, prob float64, rowBudget int, minProb float64) *linking.EntityLinker {
	return &linking.EntityLinker{
		Search:     clients.NewSearchClient(http.DefaultClient, searchURL),
		Classifier: stubClassifier{prob: prob},
		RowBudget:  rowBudget,
		MinProb:    minProb,
	}
}

// ---------- Run ----------

func TestRun_Success_PersistsResultsAndMarksOK(t *testing.T) {
	ocrSrv := newOCRServer(t)
	defer ocrSrv.Close()
	nerSrv := newNERServer(t, `<entities><person>Jan Jansen</person></entities>`)
	defer nerSrv.Close()
	searchSrv := newSearchServer(t, []clients.Document{
		{ID: "kb:1", PrefLabel: "Jan Jansen", Label: "Jan Jansen", Lang: "nl", Score: 1.0, SchemaType: []string{"Person"}},
	})
	defer searchSrv.Close()

	db := newLinkDB(t)
	run := &domain.LinkRun{ID: uuid.NewString(), UserID: "u1", ArticleURL: ocrSrv.URL, Status: domain.RunStatusPending}
	if err := db.Create(run).Error; err != nil {
		t.Fatalf("seed run: %v", err)
	}

	svc := &LinkService{
		DB:     db,
		OCR:    clients.NewOCRClient(http.DefaultClient),
		NER:    clients.NewNERClient(http.DefaultClient, nerSrv.URL),
		Linker: newLinker(searchSrv.URL, 0.9, 10, 0.5),
	}

	results, err := svc.Run(context.Background(), run)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 mention result, got %d", len(results))
	}
	if results[0].Reason != linking.ReasonPredictedLink {
		t.Fatalf("expected predicted link, got reason %q", results[0].Reason)
	}
	if results[0].Link != "kb:1" {
		t.Fatalf("expected link kb:1, got %q", results[0].Link)
	}

	var got domain.LinkRun
	if err := db.First(&got, "id = ?", run.ID).Error; err != nil {
		t.Fatalf("reload run: %v", err)
	}
	if got.Status != domain.RunStatusOK {
		t.Fatalf("expected run status ok, got %q", got.Status)
	}

	var count int64
	db.Model(&domain.MentionResult{}).Where("run_id = ?", run.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 persisted mention result row, got %d", count)
	}
}

func TestRun_LowProbability_PersistsProbabilityTooLowReason(t *testing.T) {
	ocrSrv := newOCRServer(t)
	defer ocrSrv.Close()
	nerSrv := newNERServer(t, `<entities><person>Jan Jansen</person></entities>`)
	defer nerSrv.Close()
	searchSrv := newSearchServer(t, []clients.Document{
		{ID: "kb:1", PrefLabel: "Jan Jansen", Label: "Jan Jansen", Lang: "nl", Score: 1.0},
	})
	defer searchSrv.Close()

	db := newLinkDB(t)
	run := &domain.LinkRun{ID: uuid.NewString(), UserID: "u1", ArticleURL: ocrSrv.URL, Status: domain.RunStatusPending}
	if err := db.Create(run).Error; err != nil {
		t.Fatalf("seed run: %v", err)
	}

	svc := &LinkService{
		DB:     db,
		OCR:    clients.NewOCRClient(http.DefaultClient),
		NER:    clients.NewNERClient(http.DefaultClient, nerSrv.URL),
		Linker: newLinker(searchSrv.URL, 0.1, 10, 0.5),
	}

	results, err := svc.Run(context.Background(), run)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 mention result, got %d", len(results))
	}
	if results[0].Link != "" {
		t.Fatalf("expected no link when below threshold, got %q", results[0].Link)
	}

	var got domain.LinkRun
	if err := db.First(&got, "id = ?", run.ID).Error; err != nil {
		t.Fatalf("reload run: %v", err)
	}
	if got.Status != domain.RunStatusOK {
		t.Fatalf("expected run status ok even with below-threshold results, got %q", got.Status)
	}
}

func TestRun_NoCandidates_NothingFoundAndOK(t *testing.T) {
	ocrSrv := newOCRServer(t)
	defer ocrSrv.Close()
	nerSrv := newNERServer(t, `<entities><person>Jan Jansen</person></entities>`)
	defer nerSrv.Close()
	searchSrv := newSearchServer(t, nil)
	defer searchSrv.Close()

	db := newLinkDB(t)
	run := &domain.LinkRun{ID: uuid.NewString(), UserID: "u1", ArticleURL: ocrSrv.URL, Status: domain.RunStatusPending}
	if err := db.Create(run).Error; err != nil {
		t.Fatalf("seed run: %v", err)
	}

	svc := &LinkService{
		DB:     db,
		OCR:    clients.NewOCRClient(http.DefaultClient),
		NER:    clients.NewNERClient(http.DefaultClient, nerSrv.URL),
		Linker: newLinker(searchSrv.URL, 0.9, 10, 0.5),
	}

	results, err := svc.Run(context.Background(), run)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(results) != 1 || results[0].Reason != linking.ReasonNothingFound {
		t.Fatalf("expected 1 nothing-found result, got %+v", results)
	}
}

func TestRun_OCRFailure_MarksRunError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	db := newLinkDB(t)
	run := &domain.LinkRun{ID: uuid.NewString(), UserID: "u1", ArticleURL: srv.URL, Status: domain.RunStatusPending}
	if err := db.Create(run).Error; err != nil {
		t.Fatalf("seed run: %v", err)
	}

	svc := &LinkService{
		DB:     db,
		OCR:    clients.NewOCRClient(http.DefaultClient),
		NER:    clients.NewNERClient(http.DefaultClient, "http://unused.invalid"),
		Linker: newLinker("http://unused.invalid", 0.9, 10, 0.5),
	}

	if _, err := svc.Run(context.Background(), run); err == nil {
		t.Fatalf("expected error from failing OCR fetch")
	}

	var got domain.LinkRun
	if err := db.First(&got, "id = ?", run.ID).Error; err != nil {
		t.Fatalf("reload run: %v", err)
	}
	if got.Status != domain.RunStatusError {
		t.Fatalf("expected run status error, got %q", got.Status)
	}
	if got.ErrorMessage == "" {
		t.Fatalf("expected a non-empty error message recorded on the run")
	}
}

// ---------- ListResults / ListResultsPage ----------

func TestListResults_ReturnsPersistedRows(t *testing.T) {
	db := newLinkDB(t)
	runID := uuid.NewString()
	if err := db.Create(&domain.LinkRun{ID: runID, UserID: "u1", ArticleURL: "https://example.org/a", Status: domain.RunStatusOK}).Error; err != nil {
		t.Fatalf("seed run: %v", err)
	}
	for _, text := range []string{"Jan Jansen", "Rotterdam"} {
		if err := db.Create(&domain.MentionResult{ID: uuid.NewString(), RunID: runID, Text: text, Reason: linking.ReasonNothingFound}).Error; err != nil {
			t.Fatalf("seed result: %v", err)
		}
	}

	svc := &LinkService{DB: db}
	results, err := svc.ListResults(context.Background(), runID)
	if err != nil {
		t.Fatalf("ListResults error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestListResultsPage_DefaultsAndEmpty(t *testing.T) {
	db := newLinkDB(t)
	svc := &LinkService{DB: db}

	items, total, err := svc.ListResultsPage(context.Background(), "missing-run", 0, 0)
	if err != nil {
		t.Fatalf("ListResultsPage error: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Fatalf("expected empty results for a run with no rows, got total=%d len=%d", total, len(items))
	}
}

func TestListResultsPage_Success(t *testing.T) {
	db := newLinkDB(t)
	runID := uuid.NewString()
	if err := db.Create(&domain.LinkRun{ID: runID, UserID: "u1", ArticleURL: "https://example.org/a", Status: domain.RunStatusOK}).Error; err != nil {
		t.Fatalf("seed run: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := db.Create(&domain.MentionResult{ID: uuid.NewString(), RunID: runID, Text: fmt.Sprintf("m%d", i), Reason: linking.ReasonNothingFound}).Error; err != nil {
			t.Fatalf("seed result %d: %v", i, err)
		}
	}

	svc := &LinkService{DB: db}
	items, total, err := svc.ListResultsPage(context.Background(), runID, 1, 2)
	if err != nil {
		t.Fatalf("ListResultsPage error: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total=3, got %d", total)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items on page 1, got %d", len(items))
	}
}
