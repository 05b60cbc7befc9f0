package navigation

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	httputil "storefront/pkg/http"
	"storefront/pkg/logger"
)

type Handler struct {
	tabs *Tabs
	log  *logger.Logger
}

func NewHandler(tabs *Tabs, log *logger.Logger) *Handler {
	return &Handler{
		tabs: tabs,
		log:  log,
	}
}

func (h *Handler) ListTabs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.tabs.List()); err != nil {
		h.log.Error("failed to write JSON response", "handler", "ListTabs", "operation", "WriteSuccess", "error", err)
	}
}

func (h *Handler) ListIcons(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, Icons()); err != nil {
		h.log.Error("failed to write JSON response", "handler", "ListIcons", "operation", "WriteSuccess", "error", err)
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/tabs", h.ListTabs)
	router.GET("/api/v1/icons", h.ListIcons)
}
