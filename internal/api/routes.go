package api

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aria/video-analyzer/internal/logging"
	"github.com/aria/video-analyzer/internal/web"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(CORS(cfg.CORSOrigins))

	r.Get("/health", healthHandler(cfg))

	r.Get("/api/cases", listCasesHandler(cfg))
	r.Get("/api/cases/{id}", getCaseHandler(cfg))

	r.Handle("/*", http.FileServer(http.FS(staticFS(cfg))))

	return r
}

func staticFS(cfg ServerConfig) fs.FS {
	if cfg.StaticDir != "" {
		return os.DirFS(cfg.StaticDir)
	}
	return web.FS()
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: uptime,
		})
	}
}

func listCasesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := cfg.Cases.ListSummaries(r.Context())
		if err != nil {
			requestLogger(cfg, r).Error("failed to list cases", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to list cases", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, SummariesToResponse(list))
	}
}

func getCaseHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "case id required", "BAD_REQUEST")
			return
		}

		c, err := cfg.Cases.GetCase(r.Context(), id)
		if err != nil {
			logging.WithCaseID(requestLogger(cfg, r), id).Error("failed to get case", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to get case", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, c)
	}
}

func requestLogger(cfg ServerConfig, r *http.Request) *slog.Logger {
	requestID, _ := r.Context().Value(RequestIDKey).(string)
	return logging.WithRequestID(cfg.Logger, requestID)
}
