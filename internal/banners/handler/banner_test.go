package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"storefront/internal/banners/state"
	apperrors "storefront/pkg/errors"
	"storefront/pkg/logger"
	"storefront/pkg/middleware"
	"storefront/pkg/model"
)

type mockBannerService struct {
	listFunc    func(ctx context.Context) ([]*model.Banner, error)
	getByIDFunc func(ctx context.Context, id string) (*model.Banner, error)
}

func (m *mockBannerService) List(ctx context.Context) ([]*model.Banner, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []*model.Banner{}, nil
}

func (m *mockBannerService) GetByID(ctx context.Context, id string) (*model.Banner, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, apperrors.NotFoundWithID("Banner", id)
}

func (m *mockBannerService) Ingest(ctx context.Context, raw *model.RawBanner) (*model.Banner, error) {
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Output:  io.Discard,
		Service: "test",
	})
}

type snapshotResponse struct {
	Data state.Snapshot `json:"data"`
}

func newTestRouter(h *BannerHandler) *httprouter.Router {
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func TestList_LoadingBeforeFirstRefresh(t *testing.T) {
	log := testLogger()
	svc := &mockBannerService{}
	h := NewBannerHandler(svc, state.NewStore(svc, 0, log), nil, log)

	rr := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/banners", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp snapshotResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Data.Loading || len(resp.Data.Banners) != 0 {
		t.Errorf("snapshot = %+v, want loading with no banners", resp.Data)
	}
}

func TestRefresh_ThenList(t *testing.T) {
	log := testLogger()
	svc := &mockBannerService{
		listFunc: func(ctx context.Context) ([]*model.Banner, error) {
			return []*model.Banner{{
				ID:        "b1",
				Title:     "Summer",
				ImageURLs: []string{"https://cdn.example.com/1.jpg"},
				UpdatedAt: time.Now(),
			}}, nil
		},
	}
	h := NewBannerHandler(svc, state.NewStore(svc, 0, log), nil, log)
	router := newTestRouter(h)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/banners/refresh", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, want 200", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/banners", nil))

	var resp snapshotResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Loading {
		t.Error("snapshot still loading after refresh")
	}
	if len(resp.Data.Banners) != 1 || resp.Data.Banners[0].ImageURLs[0] != "https://cdn.example.com/1.jpg" {
		t.Errorf("banners = %+v", resp.Data.Banners)
	}
	if resp.Data.UpdatedAt == nil {
		t.Error("updatedAt missing after refresh")
	}
}

func TestRefresh_RateLimited(t *testing.T) {
	log := testLogger()
	svc := &mockBannerService{}
	limiter := middleware.NewClientRateLimiter(1, time.Minute, nil, log)
	defer limiter.Stop()

	router := newTestRouter(NewBannerHandler(svc, state.NewStore(svc, 0, log), limiter, log))

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/banners/refresh", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 429]", codes)
	}
}

func TestGetByID(t *testing.T) {
	log := testLogger()
	svc := &mockBannerService{
		getByIDFunc: func(ctx context.Context, id string) (*model.Banner, error) {
			switch id {
			case "b1":
				return &model.Banner{ID: "b1", Title: "Summer"}, nil
			case "bad":
				return nil, apperrors.InvalidInput("Invalid banner ID format")
			case "down":
				return nil, apperrors.Unavailable("Banner source", errors.New("down"))
			}
			return nil, apperrors.NotFoundWithID("Banner", id)
		},
	}
	router := newTestRouter(NewBannerHandler(svc, state.NewStore(svc, 0, log), nil, log))

	tests := []struct {
		id         string
		wantStatus int
		wantCode   string
	}{
		{id: "b1", wantStatus: http.StatusOK},
		{id: "nope", wantStatus: http.StatusNotFound, wantCode: apperrors.CodeNotFound},
		{id: "bad", wantStatus: http.StatusBadRequest, wantCode: apperrors.CodeInvalidInput},
		{id: "down", wantStatus: http.StatusServiceUnavailable, wantCode: apperrors.CodeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/banners/"+tt.id, nil))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantCode == "" {
				return
			}
			var body map[string]any
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["code"] != tt.wantCode {
				t.Errorf("code = %v, want %s", body["code"], tt.wantCode)
			}
		})
	}
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context, rp *readpref.ReadPref) error {
	return m.err
}

type mockReadiness bool

func (m mockReadiness) Ready() bool { return bool(m) }

func TestHealth_Ready(t *testing.T) {
	tests := []struct {
		name       string
		db         Pinger
		banners    ReadinessChecker
		wantStatus int
		wantBody   HealthResponse
	}{
		{
			name:       "ready without database",
			banners:    mockReadiness(true),
			wantStatus: http.StatusOK,
			wantBody:   HealthResponse{Status: "ready", Banners: "ok"},
		},
		{
			name:       "ready with database",
			db:         &mockPinger{},
			banners:    mockReadiness(true),
			wantStatus: http.StatusOK,
			wantBody:   HealthResponse{Status: "ready", Database: "ok", Banners: "ok"},
		},
		{
			name:       "database down",
			db:         &mockPinger{err: errors.New("no reachable servers")},
			banners:    mockReadiness(true),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   HealthResponse{Status: "unavailable", Database: "error", Banners: "ok"},
		},
		{
			name:       "banners still loading",
			banners:    mockReadiness(false),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   HealthResponse{Status: "unavailable", Banners: "loading"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := httprouter.New()
			NewHealthHandler(tt.db, tt.banners, testLogger()).RegisterRoutes(router)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			var got HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.wantBody {
				t.Errorf("body = %+v, want %+v", got, tt.wantBody)
			}
		})
	}
}

func TestHealth_Health(t *testing.T) {
	router := httprouter.New()
	NewHealthHandler(nil, nil, testLogger()).RegisterRoutes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}
