// Package server is the HTTP + WebSocket API surface: scan submission,
// stored-report retrieval, listings, dashboard stats and a progress
// stream for running scans.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/scanforge/scanforge/docs/swagger"
	"github.com/scanforge/scanforge/internal/app"
	"github.com/scanforge/scanforge/internal/interfaces"
	"github.com/scanforge/scanforge/internal/logging"
	"github.com/scanforge/scanforge/internal/model"
	"github.com/scanforge/scanforge/internal/report"
)

// ScanRunner runs one scan synchronously, emitting progress events.
// *app.Orchestrator is the production implementation.
type ScanRunner interface {
	RunScan(ctx context.Context, lead model.LeadData, progress app.ProgressFunc) *model.ScanResult
}

// Server is the HTTP + WebSocket API surface.
type Server struct {
	cfg      Config
	runner   ScanRunner
	store    interfaces.Store
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger
	app      *app.Application
}

// NewServer creates a Server. With cfg.Runner and cfg.Store set (tests),
// it uses those directly; otherwise it builds the full production
// Application from cfg.AppConfig.
func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("server")
	}

	s := &Server{
		cfg:    cfg,
		runner: cfg.Runner,
		store:  cfg.Store,
		router: chi.NewRouter(),
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
	}

	if s.runner == nil || s.store == nil {
		application, err := app.NewApplication(cfg.AppConfig, logger)
		if err != nil {
			return nil, err
		}
		s.app = application
		if s.runner == nil {
			s.runner = application.Orch
		}
		if s.store == nil {
			s.store = application.Store
		}
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	r.Options("/scans", s.optionsHandler("GET, POST"))
	r.Options("/scans/{scanID}", s.optionsHandler("GET"))
	r.Options("/scans/{scanID}/report", s.optionsHandler("GET"))
	r.Options("/scans/{scanID}/diff/{otherID}", s.optionsHandler("GET"))
	r.Options("/stats", s.optionsHandler("GET"))

	r.Post("/scans", s.handleSubmitScan)
	r.Get("/scans", s.handleListScans)
	r.Get("/scans/{scanID}", s.handleGetScan)
	r.Get("/scans/{scanID}/report", s.handleGetReport)
	r.Get("/scans/{scanID}/diff/{otherID}", s.handleDiffScans)
	r.Get("/stats", s.handleStats)

	// WebSocket progress stream for a running scan
	r.Get("/ws/scans", s.handleScanWS)

	// Interactive API docs
	r.Get("/docs/*", httpSwagger.Handler())
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("http_request",
		logging.Field{Key: "method", Value: r.Method},
		logging.Field{Key: "path", Value: r.URL.Path})
	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe. Write
// timeout stays 0 so a long synchronous scan can stream its response.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:        s.cfg.ListenAddr,
		Handler:     s,
		ReadTimeout: 15 * time.Second,
	}
}

// Close releases the underlying application, if this server owns one.
func (s *Server) Close() {
	if s.app != nil {
		_ = s.app.Close()
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func leadFromRequest(r *http.Request, body submitScanRequest) model.LeadData {
	return model.LeadData{
		Name:      body.Name,
		Email:     body.Email,
		Company:   body.Company,
		Phone:     body.Phone,
		Target:    body.Target,
		UserAgent: r.UserAgent(),
		ClientIP:  clientIP(r),
	}
}

// --- HTTP handlers ---

// handleSubmitScan runs a scan synchronously and returns the finished
// result. The caller always gets a ScanResult; recoverable failures are
// recorded on the result itself.
//
// @Summary Submit a scan
// @Accept json
// @Produce json
// @Router /scans [post]
func (s *Server) handleSubmitScan(w http.ResponseWriter, r *http.Request) {
	var body submitScanRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	lead := leadFromRequest(r, body)
	if lead.ResolveTarget() == "" {
		writeError(w, http.StatusBadRequest, "target or email required")
		return
	}

	result := s.runner.RunScan(r.Context(), lead, nil)
	s.logger.Info("scan completed",
		logging.Field{Key: "scan_id", Value: result.ScanID},
		logging.Field{Key: "target", Value: result.Target})
	writeJSON(w, http.StatusCreated, result)
}

// handleListScans lists recent scans, newest first. Filters: ?target=,
// ?limit= (default 20).
//
// @Summary List scans
// @Produce json
// @Router /scans [get]
func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	var (
		sums []model.ScanSummary
		err  error
	)
	if target := r.URL.Query().Get("target"); target != "" {
		sums, err = s.store.ListScansByTarget(r.Context(), target, limit)
	} else {
		sums, err = s.store.ListScans(r.Context(), limit)
	}
	if err != nil {
		s.logger.Warn("listing scans", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sums == nil {
		sums = []model.ScanSummary{}
	}
	writeJSON(w, http.StatusOK, sums)
}

// handleGetScan returns the stored scan after rehydration through the
// report normalizer, since storage flattens records.
//
// @Summary Get a stored scan
// @Produce json
// @Router /scans/{scanID} [get]
func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")

	rec, err := s.store.GetScanResult(r.Context(), scanID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	writeJSON(w, http.StatusOK, report.Normalize(rec))
}

// handleGetReport serves the stored HTML report, re-rendering from the
// normalized record when no pre-rendered report was persisted.
//
// @Summary Get the HTML report for a scan
// @Produce html
// @Router /scans/{scanID}/report [get]
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")

	rec, err := s.store.GetScanResult(r.Context(), scanID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}

	normalized := report.Normalize(rec)
	html, ok := normalized["complete_html_report"].(string)
	if !ok || html == "" {
		html, err = report.RenderHTML(normalized)
		if err != nil {
			s.logger.Warn("rendering stored report",
				logging.Field{Key: "scan_id", Value: scanID},
				logging.Field{Key: "error", Value: err.Error()})
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// handleDiffScans compares two stored scans, oldest first.
//
// @Summary Diff two stored scans
// @Produce json
// @Router /scans/{scanID}/diff/{otherID} [get]
func (s *Server) handleDiffScans(w http.ResponseWriter, r *http.Request) {
	beforeID := chi.URLParam(r, "scanID")
	afterID := chi.URLParam(r, "otherID")

	before, err := s.loadScan(r.Context(), beforeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	after, err := s.loadScan(r.Context(), afterID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if before == nil || after == nil {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}

	writeJSON(w, http.StatusOK, scanDiffResponse{
		Before: beforeID,
		After:  afterID,
		Diff:   report.Compare(before, after),
	})
}

// loadScan rehydrates a stored record into a ScanResult. Returns nil,
// nil when the scan is unknown.
func (s *Server) loadScan(ctx context.Context, scanID string) (*model.ScanResult, error) {
	rec, err := s.store.GetScanResult(ctx, scanID)
	if err != nil || rec == nil {
		return nil, err
	}
	raw, _ := rec["scan_results"].(string)
	var result model.ScanResult
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &result); err == nil {
			return &result, nil
		}
	}
	// No serialized payload; fall back to the flat columns.
	result.ScanID = scanID
	if t, ok := rec["target"].(string); ok {
		result.Target = t
	}
	return &result, nil
}

// handleStats returns dashboard aggregates.
//
// @Summary Dashboard stats
// @Produce json
// @Router /stats [get]
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.logger.Warn("aggregating stats", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// wsResultMessage is the final frame sent after progress events.
type wsResultMessage struct {
	Type   string            `json:"type"`
	Result *model.ScanResult `json:"result"`
}

// handleScanWS reads one submit request off the socket, runs the scan
// inline and streams progress events, then the finished result. The
// pipeline stays sequential; events are emitted from the scanning
// goroutine.
func (s *Server) handleScanWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	var body submitScanRequest
	if err := conn.ReadJSON(&body); err != nil {
		_ = conn.WriteJSON(errorResponse{Error: "invalid submit message"})
		return
	}

	lead := leadFromRequest(r, body)
	if lead.ResolveTarget() == "" {
		_ = conn.WriteJSON(errorResponse{Error: "target or email required"})
		return
	}

	result := s.runner.RunScan(r.Context(), lead, func(ev app.ProgressEvent) {
		_ = conn.WriteJSON(ev)
	})
	_ = conn.WriteJSON(wsResultMessage{Type: "result", Result: result})
}
