package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smartdwell/dwellsearch/internal/config"
	"github.com/smartdwell/dwellsearch/internal/conversation"
	"github.com/smartdwell/dwellsearch/internal/ingest"
	"github.com/smartdwell/dwellsearch/internal/models"
	"github.com/smartdwell/dwellsearch/internal/search"
	"github.com/smartdwell/dwellsearch/internal/store"
	"go.uber.org/zap"
)

type fakeStore struct {
	hits      []store.Hit
	count     int64
	docs      map[string]json.RawMessage
	indexed   map[string]any
	searchErr error
	indexErr  error
}

func (f *fakeStore) Exists(ctx context.Context, index string) (bool, error) { return true, nil }

func (f *fakeStore) CreateIndex(ctx context.Context, index string, mapping []byte) error {
	return nil
}

func (f *fakeStore) IndexDocument(ctx context.Context, index, id string, body any, refresh bool) error {
	if f.indexErr != nil {
		return f.indexErr
	}
	if f.indexed == nil {
		f.indexed = make(map[string]any)
	}
	f.indexed[index+"/"+id] = body
	return nil
}

func (f *fakeStore) BulkIndex(ctx context.Context, index string, items []store.BulkItem) (*store.BulkResult, error) {
	return &store.BulkResult{Indexed: len(items)}, nil
}

func (f *fakeStore) Get(ctx context.Context, index, id string) (json.RawMessage, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return doc, nil
}

func (f *fakeStore) Search(ctx context.Context, index string, body map[string]any, size int) ([]store.Hit, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.hits, nil
}

func (f *fakeStore) Count(ctx context.Context, index string) (int64, error) { return f.count, nil }

func testServer(fs *fakeStore, aiAvailable bool) *Server {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	storeCfg := config.StoreConfig{IndexPrefix: "test"}
	indices := storeCfg.Indices()
	logger := zap.NewNop()
	engine := search.NewEngine(fs, search.NewCompiler(aiAvailable), indices, &cfg.Search, logger)
	convlog := conversation.NewLog(fs, indices.Conversations, logger)
	loader := ingest.NewLoader(fs, indices.Properties, logger)
	return NewServer(engine, convlog, loader, fs, indices, &cfg.Server, aiAvailable, logger)
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func propertyDoc(t *testing.T, p *models.Property) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestHandleSearch(t *testing.T) {
	doc := &models.Property{PropertyID: "p1", Name: "Lakeside Apartment", City: "Pune"}
	fs := &fakeStore{hits: []store.Hit{{ID: "p1", Score: 3.1, Source: propertyDoc(t, doc)}}}
	s := testServer(fs, true)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/search", models.SearchRequest{
		Query: "apartment in pune",
		Mode:  models.ModeHybrid,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Results[0].ID != "p1" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Mode != models.ModeHybrid {
		t.Errorf("mode = %q, want hybrid", resp.Mode)
	}
}

func TestHandleSearch_degradedMode(t *testing.T) {
	s := testServer(&fakeStore{}, false)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/search", models.SearchRequest{
		Query: "villa",
		Mode:  models.ModeSemantic,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.RequestedMode != models.ModeSemantic || resp.Mode != models.ModeKeyword {
		t.Errorf("requested = %q served = %q, want semantic/keyword", resp.RequestedMode, resp.Mode)
	}
}

func TestHandleSearch_invalidBody(t *testing.T) {
	s := testServer(&fakeStore{}, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSearch_emptyQuery(t *testing.T) {
	s := testServer(&fakeStore{}, true)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/search", models.SearchRequest{Query: "  "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSearch_storeUnavailable(t *testing.T) {
	s := testServer(&fakeStore{searchErr: store.ErrUnavailable}, true)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/search", models.SearchRequest{Query: "flat"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandleGetProperty(t *testing.T) {
	doc := &models.Property{PropertyID: "p7", Name: "Hillcrest Villa"}
	fs := &fakeStore{docs: map[string]json.RawMessage{"p7": propertyDoc(t, doc)}}
	s := testServer(fs, true)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/properties/p7", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got models.Property
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "Hillcrest Villa" {
		t.Errorf("name = %q", got.Name)
	}
}

func TestHandleGetProperty_notFound(t *testing.T) {
	s := testServer(&fakeStore{}, true)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/properties/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleRecommendations_sourceMissing(t *testing.T) {
	s := testServer(&fakeStore{}, true)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/properties/ghost/recommendations", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 0 {
		t.Errorf("total = %d, want 0", resp.Total)
	}
}

func TestHandleIndexProperty(t *testing.T) {
	fs := &fakeStore{}
	s := testServer(fs, true)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/properties", &models.Property{
		PropertyID: "p9",
		Name:       "Garden Row House",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if _, ok := fs.indexed["test_properties/p9"]; !ok {
		t.Error("property was not indexed")
	}
}

func TestHandleIndexProperty_invalid(t *testing.T) {
	s := testServer(&fakeStore{}, true)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/properties", &models.Property{Name: "no id"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleBulkProperties(t *testing.T) {
	s := testServer(&fakeStore{}, true)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/properties/bulk", []*models.Property{
		{PropertyID: "b1", Name: "One"},
		{PropertyID: "b2", Name: "Two"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var result store.BulkResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Indexed != 2 {
		t.Errorf("indexed = %d, want 2", result.Indexed)
	}
}

func TestHandleCreateInquiry(t *testing.T) {
	fs := &fakeStore{}
	s := testServer(fs, true)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/inquiries", &models.Inquiry{
		PropertyID: "p1",
		UserName:   "Asha",
		Message:    "Is this still available?",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["inquiry_id"] == "" || resp["status"] != "new" {
		t.Errorf("unexpected response: %v", resp)
	}
}

func TestHandleCreateInquiry_missingFields(t *testing.T) {
	s := testServer(&fakeStore{}, true)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/inquiries", &models.Inquiry{Message: "hello"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleScheduleVisit(t *testing.T) {
	s := testServer(&fakeStore{}, true)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/site-visits", &models.SiteVisit{
		PropertyID: "p1",
		UserName:   "Ravi",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["visit_id"] == "" || resp["status"] != "requested" {
		t.Errorf("unexpected response: %v", resp)
	}
}

func TestHandleChat(t *testing.T) {
	fs := &fakeStore{}
	s := testServer(fs, true)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/chat/sess-1/messages", &models.ConversationMessage{
		Message: "show me flats in indiranagar",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/chat/sess-1/history", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.SessionID != "sess-1" {
		t.Errorf("session_id = %q", resp.SessionID)
	}
}

func TestHandleStats(t *testing.T) {
	doc := &models.Property{PropertyID: "p1", PropertyType: "apartment", City: "Mumbai", PlatformName: "rentomatic"}
	fs := &fakeStore{
		count: 4200,
		hits:  []store.Hit{{ID: "p1", Source: propertyDoc(t, doc)}},
	}
	s := testServer(fs, true)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats models.StatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalProperties != 4200 {
		t.Errorf("total = %d, want 4200", stats.TotalProperties)
	}
	if len(stats.Cities) != 1 || stats.Cities[0] != "Mumbai" {
		t.Errorf("cities = %v", stats.Cities)
	}
}

func TestHandleHealth(t *testing.T) {
	s := testServer(&fakeStore{}, false)

	rec := doRequest(t, s, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Status   string            `json:"status"`
		Services map[string]string `json:"services"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q", resp.Status)
	}
	if resp.Services["ai_platform"] != "disconnected" {
		t.Errorf("ai_platform = %q", resp.Services["ai_platform"])
	}
}
