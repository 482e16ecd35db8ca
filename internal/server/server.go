// Package server wires the engine services behind a chi router with
// auth, rate limiting, metrics and request-scoped logging.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/safequest/engine/internal/attendance"
	"github.com/safequest/engine/internal/calibration"
	"github.com/safequest/engine/internal/catalog"
	"github.com/safequest/engine/internal/handler"
	"github.com/safequest/engine/internal/inventory"
	"github.com/safequest/engine/internal/logger"
	"github.com/safequest/engine/internal/metrics"
	"github.com/safequest/engine/internal/progression"
	"github.com/safequest/engine/internal/quest"
)

// Services bundles everything the router needs.
type Services struct {
	Catalog     *catalog.Catalog
	Calibration calibration.Service
	Inventory   inventory.Service
	Progression progression.Service
	Quest       quest.Service
	Attendance  attendance.Service
}

type Server struct {
	httpServer *http.Server
	pinger     handler.Pinger
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, pinger handler.Pinger, svcs Services) *Server {
	r := chi.NewRouter()

	// Middleware executes in order defined, outermost first.
	guard := NewAbuseGuard()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, guard))
	r.Use(RateLimitMiddleware(trustedProxies, guard))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(pinger))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		catalogHandler := handler.NewCatalogHandler(svcs.Catalog)
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/items", catalogHandler.HandleGetItems)
			r.Get("/sets", catalogHandler.HandleGetSets)
			r.Get("/quests", catalogHandler.HandleGetQuests)
			r.Get("/attendance-ladder", catalogHandler.HandleGetLadder)
		})

		invHandler := handler.NewInventoryHandler(svcs.Inventory)
		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", invHandler.HandleGetInventory)
			r.Get("/loadout", invHandler.HandleGetLoadout)
			r.Post("/acquire", invHandler.HandleAcquire)
			r.Post("/remove", invHandler.HandleRemove)
			r.Post("/equip", invHandler.HandleEquip)
			r.Post("/unequip", invHandler.HandleUnequip)
		})

		r.Route("/calibration", func(r chi.Router) {
			r.Post("/attempt", handler.HandleCalibrationAttempt(svcs.Calibration))
			r.Get("/preview", handler.HandleCalibrationPreview(svcs.Calibration))
		})

		progHandler := handler.NewProgressionHandler(svcs.Progression)
		r.Route("/progression", func(r chi.Router) {
			r.Get("/balance", progHandler.HandleGetBalance)
			r.Get("/tier", progHandler.HandleGetTier)
			r.Get("/level", progHandler.HandleGetLevel)
			r.Post("/points", progHandler.HandleGrantPoints)
			r.Post("/exp", progHandler.HandleGrantExp)
		})

		questHandler := handler.NewQuestHandler(svcs.Quest)
		r.Route("/quests", func(r chi.Router) {
			r.Get("/", questHandler.HandleGetProgress)
			r.Post("/progress", questHandler.HandleUpdateProgress)
			r.Post("/action", questHandler.HandleTriggerAction)
		})

		attHandler := handler.NewAttendanceHandler(svcs.Attendance)
		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", attHandler.HandleGetStatus)
			r.Post("/check-in", attHandler.HandleCheckIn)
			r.Post("/claim", attHandler.HandleClaimReward)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		pinger: pinger,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Health and metrics probes would drown the log.
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
