package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tabsplit/tabsplit/internal/api/handler"
	"github.com/tabsplit/tabsplit/internal/api/middleware"
	"github.com/tabsplit/tabsplit/internal/dependencies/clock"
	"github.com/tabsplit/tabsplit/internal/files"
	"github.com/tabsplit/tabsplit/internal/ocr"
	"github.com/tabsplit/tabsplit/internal/services/bill"
	"github.com/tabsplit/tabsplit/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	SessionController *session.Controller
	BillController    *bill.Controller
	FileStore         files.Store
	Recognizer        ocr.Recognizer
	Clock             clock.Clock

	// MetricsRegistry enables Prometheus collection and the /metrics
	// endpoint when set
	MetricsRegistry *prometheus.Registry

	// UploadLimiter rate-limits receipt uploads per client; nil disables
	// limiting
	UploadLimiter *middleware.RateLimiter
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(cfg.SessionController)
	billHandler := handler.NewBillHandler(cfg.BillController)
	receiptHandler := handler.NewReceiptHandler(cfg.SessionController, cfg.FileStore, cfg.Recognizer, cfg.Clock)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	if cfg.MetricsRegistry != nil {
		metrics := middleware.NewMetrics(cfg.MetricsRegistry)
		api.Use(metrics.Middleware(routeTemplate))
		r.Handle("/metrics", promhttp.HandlerFor(cfg.MetricsRegistry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	// Session lifecycle
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/items", sessionHandler.SetItems).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/participants", sessionHandler.SetParticipants).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/participants/{participant_id}", sessionHandler.RemoveParticipant).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/calculate", sessionHandler.Calculate).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/extract", sessionHandler.ExtractText).Methods(http.MethodPost)

	// Finalized bills
	api.HandleFunc("/sessions/{id}/finalize", billHandler.Finalize).Methods(http.MethodPost)
	api.HandleFunc("/bills", billHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/bills/{id}", billHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/bills/{id}", billHandler.Delete).Methods(http.MethodDelete)

	// Receipt images; uploads trigger OCR so they get their own limiter
	upload := http.Handler(http.HandlerFunc(receiptHandler.Upload))
	if cfg.UploadLimiter != nil {
		upload = cfg.UploadLimiter.Middleware(upload)
	}
	api.Handle("/sessions/{id}/receipt", upload).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/receipt", receiptHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/receipt", receiptHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/admin/cleanup", receiptHandler.Cleanup).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

// routeTemplate returns the mux path template for metrics labels,
// falling back to the raw path for unmatched requests
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if template, err := route.GetPathTemplate(); err == nil {
			return template
		}
	}
	return r.URL.Path
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
