package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yuitake/tana/internal/config"
	"github.com/yuitake/tana/internal/domain"
	"github.com/yuitake/tana/internal/usecase"
)

// --- mocks ---

type mockSpotlightRepo struct {
	mu      sync.Mutex
	records []domain.SpotlightRecord
}

func (m *mockSpotlightRepo) Create(ctx context.Context, record domain.SpotlightRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *mockSpotlightRepo) FindActive(ctx context.Context, category string, now time.Time) (domain.SpotlightRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if r.Category == category && r.EndDate.After(now) {
			return r, nil
		}
	}
	return domain.SpotlightRecord{}, domain.NotFoundError{Resource: "active spotlight"}
}

func (m *mockSpotlightRepo) History(ctx context.Context, category string) ([]domain.SpotlightRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.SpotlightRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].Category == category {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

func (m *mockSpotlightRepo) RecentItemIDs(ctx context.Context, category string, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for i := len(m.records) - 1; i >= 0 && len(ids) < limit; i-- {
		if m.records[i].Category == category {
			ids = append(ids, m.records[i].ItemID)
		}
	}
	return ids, nil
}

type mockProvider struct {
	items []string
}

func (m *mockProvider) RandomUnseenID(ctx context.Context, exclude []string) (string, error) {
	excluded := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}
	for _, id := range m.items {
		if !excluded[id] {
			return id, nil
		}
	}
	return "", domain.NotFoundError{Resource: "candidate"}
}

func (m *mockProvider) Detail(ctx context.Context, itemID string) (any, error) {
	return map[string]string{"id": itemID, "title": "Title " + itemID}, nil
}

func (m *mockProvider) TitlesAndImages(ctx context.Context, itemIDs []string) (map[string]domain.MediaSummary, error) {
	out := make(map[string]domain.MediaSummary, len(itemIDs))
	for _, id := range itemIDs {
		out[id] = domain.MediaSummary{Title: "Title " + id}
	}
	return out, nil
}

type mockDirectory struct {
	providers map[string]usecase.ContentProvider
}

func (m *mockDirectory) Resolve(category string) (usecase.ContentProvider, error) {
	p, ok := m.providers[category]
	if !ok {
		return nil, domain.ProviderNotFoundError{Category: category}
	}
	return p, nil
}

type nopCache struct{}

func (nopCache) Get(ctx context.Context, category string) (domain.Spotlight, bool) {
	return domain.Spotlight{}, false
}
func (nopCache) Set(ctx context.Context, category string, value domain.Spotlight, ttl time.Duration) {}
func (nopCache) Remove(ctx context.Context, category string)                                        {}

type mockBookStore struct {
	mu      sync.Mutex
	created []string
}

type bookPayload struct {
	ID    string `json:"id"`
	Title string `json:"title" validate:"required"`
}

func (m *mockBookStore) NewItem() any { return &bookPayload{} }

func (m *mockBookStore) List(ctx context.Context) (any, error) {
	return []bookPayload{{ID: "b1", Title: "First"}}, nil
}

func (m *mockBookStore) Get(ctx context.Context, id string) (any, error) {
	if id != "b1" {
		return nil, domain.NotFoundError{Resource: "book"}
	}
	return bookPayload{ID: "b1", Title: "First"}, nil
}

func (m *mockBookStore) Create(ctx context.Context, item any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, item.(*bookPayload).Title)
	return "new-id", nil
}

func (m *mockBookStore) Update(ctx context.Context, id string, item any) error { return nil }
func (m *mockBookStore) Delete(ctx context.Context, id string) error           { return nil }

// --- helpers ---

const testAdminToken = "test-token"

func newTestServer(t *testing.T, repo *mockSpotlightRepo, bookStore *mockBookStore) *echo.Echo {
	t.Helper()

	dir := &mockDirectory{providers: map[string]usecase.ContentProvider{
		"Book": &mockProvider{items: []string{"b1"}},
	}}
	spotlightUC := usecase.NewSpotlightUsecase(repo, dir, nopCache{}, nil, nil)
	archiveUC := usecase.NewArchiveUsecase(map[string]usecase.ArchiveStore{
		"Book": bookStore,
	})

	h := NewHandler(config.Server{AdminToken: testAdminToken}, spotlightUC, archiveUC, nil)

	e := echo.New()
	e.Validator = NewValidator()
	h.RegisterRoutes(e)
	return e
}

func doRequest(e *echo.Echo, method, path string, body []byte, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)
	return res
}

// --- tests ---

func TestGetCurrentSpotlight(t *testing.T) {
	e := newTestServer(t, &mockSpotlightRepo{}, &mockBookStore{})

	res := doRequest(e, http.MethodGet, "/api/v1/spotlight/Book", nil, "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", res.Code, res.Body.String())
	}

	var sp domain.Spotlight
	if err := json.Unmarshal(res.Body.Bytes(), &sp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if sp.ItemID != "b1" || sp.Category != "Book" {
		t.Fatalf("unexpected spotlight %+v", sp)
	}
}

func TestGetCurrentSpotlightUnknownCategory(t *testing.T) {
	e := newTestServer(t, &mockSpotlightRepo{}, &mockBookStore{})

	// A category with no registered provider is a configuration error,
	// not missing content.
	res := doRequest(e, http.MethodGet, "/api/v1/spotlight/Vinyl", nil, "")
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", res.Code)
	}
}

func TestSpotlightHistory(t *testing.T) {
	repo := &mockSpotlightRepo{}
	now := time.Now()
	repo.records = append(repo.records, domain.SpotlightRecord{
		ID: "r1", Category: "Book", ItemID: "b1",
		StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour), CreatedDate: now,
	})
	e := newTestServer(t, repo, &mockBookStore{})

	res := doRequest(e, http.MethodGet, "/api/v1/spotlight/Book/history", nil, "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", res.Code, res.Body.String())
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal(res.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Title b1" || !entries[0].IsActive {
		t.Fatalf("unexpected history %+v", entries)
	}
}

func TestManualSpotlightRequiresToken(t *testing.T) {
	e := newTestServer(t, &mockSpotlightRepo{}, &mockBookStore{})

	body, _ := json.Marshal(map[string]any{
		"itemId":  "b1",
		"endDate": time.Now().Add(time.Hour),
	})

	res := doRequest(e, http.MethodPost, "/api/v1/spotlight/Book", body, "")
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.Code)
	}

	res = doRequest(e, http.MethodPost, "/api/v1/spotlight/Book", body, "wrong")
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", res.Code)
	}
}

func TestManualSpotlight(t *testing.T) {
	repo := &mockSpotlightRepo{}
	e := newTestServer(t, repo, &mockBookStore{})

	body, _ := json.Marshal(map[string]any{
		"itemId":  "b1",
		"endDate": time.Now().Add(time.Hour),
	})

	res := doRequest(e, http.MethodPost, "/api/v1/spotlight/Book", body, testAdminToken)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", res.Code, res.Body.String())
	}
	if len(repo.records) != 1 || !repo.records[0].IsManualSelection {
		t.Fatalf("expected one manual record, got %+v", repo.records)
	}
}

func TestManualSpotlightValidation(t *testing.T) {
	e := newTestServer(t, &mockSpotlightRepo{}, &mockBookStore{})

	body, _ := json.Marshal(map[string]any{"itemId": ""})
	res := doRequest(e, http.MethodPost, "/api/v1/spotlight/Book", body, testAdminToken)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", res.Code)
	}
}

func TestArchiveList(t *testing.T) {
	e := newTestServer(t, &mockSpotlightRepo{}, &mockBookStore{})

	res := doRequest(e, http.MethodGet, "/api/v1/archive/Book", nil, "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}

	res = doRequest(e, http.MethodGet, "/api/v1/archive/Vinyl", nil, "")
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown category, got %d", res.Code)
	}
}

func TestArchiveGet(t *testing.T) {
	e := newTestServer(t, &mockSpotlightRepo{}, &mockBookStore{})

	res := doRequest(e, http.MethodGet, "/api/v1/archive/Book/b1", nil, "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}

	res = doRequest(e, http.MethodGet, "/api/v1/archive/Book/missing", nil, "")
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing item, got %d", res.Code)
	}
}

func TestArchiveCreate(t *testing.T) {
	store := &mockBookStore{}
	e := newTestServer(t, &mockSpotlightRepo{}, store)

	body, _ := json.Marshal(map[string]string{"title": "New Book"})

	res := doRequest(e, http.MethodPost, "/api/v1/archive/Book", body, "")
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.Code)
	}

	res = doRequest(e, http.MethodPost, "/api/v1/archive/Book", body, testAdminToken)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", res.Code, res.Body.String())
	}
	if len(store.created) != 1 || store.created[0] != "New Book" {
		t.Fatalf("expected create to be invoked, got %+v", store.created)
	}

	invalid, _ := json.Marshal(map[string]string{"title": ""})
	res = doRequest(e, http.MethodPost, "/api/v1/archive/Book", invalid, testAdminToken)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload, got %d", res.Code)
	}
}
