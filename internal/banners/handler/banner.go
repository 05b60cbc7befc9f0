package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"storefront/internal/banners/service"
	"storefront/internal/banners/state"
	httputil "storefront/pkg/http"
	"storefront/pkg/logger"
	"storefront/pkg/middleware"
)

type BannerHandler struct {
	service service.BannerService
	store   *state.Store
	limiter *middleware.ClientRateLimiter
	log     *logger.Logger
}

// NewBannerHandler serves the banner snapshot from store. limiter guards the manual
// refresh endpoint and may be nil.
func NewBannerHandler(svc service.BannerService, store *state.Store, limiter *middleware.ClientRateLimiter, log *logger.Logger) *BannerHandler {
	return &BannerHandler{
		service: svc,
		store:   store,
		limiter: limiter,
		log:     log,
	}
}

func (h *BannerHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.store.Snapshot()); err != nil {
		h.log.Error("failed to write JSON response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BannerHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	banner, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, banner); err != nil {
		h.log.Error("failed to write JSON response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BannerHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.log.Info("Banner refresh requested",
		"request_id", middleware.RequestIDFrom(r.Context()),
		"client", middleware.ClientIP(r),
	)

	if err := httputil.WriteSuccess(w, h.store.Refresh(r.Context())); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Refresh", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BannerHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/banners", h.List)
	router.GET("/api/v1/banners/:id", h.GetByID)

	var refresh http.Handler = http.HandlerFunc(h.Refresh)
	if h.limiter != nil {
		refresh = middleware.RateLimit(h.limiter)(refresh)
	}
	router.Handler(http.MethodPost, "/api/v1/banners/refresh", refresh)
}
