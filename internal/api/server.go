// Package api serves the enriched investor dataset and the matcher over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/abduldattijo/investment-data-app/internal/filter"
	"github.com/abduldattijo/investment-data-app/internal/match"
	"github.com/abduldattijo/investment-data-app/internal/model"
)

const maxBodyBytes = 1 << 20

// Server answers read and match requests over a loaded profile set.
type Server struct {
	mu       sync.RWMutex
	profiles []model.VCProfile

	engine         *match.Engine
	metrics        *Metrics
	matchLimit     int
	allowedOrigins []string
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS origins. The default allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}

// WithMatchLimit sets the default number of matches per request.
func WithMatchLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.matchLimit = n
		}
	}
}

// NewServer creates a Server. The engine should be built with
// match.WithObserver(metrics.ObserveMatch) so ranking paths are counted.
func NewServer(profiles []model.VCProfile, engine *match.Engine, metrics *Metrics, opts ...Option) *Server {
	if metrics == nil {
		metrics = NewMetrics()
	}
	s := &Server{
		engine:         engine,
		metrics:        metrics,
		matchLimit:     match.DefaultLimit,
		allowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.SetProfiles(profiles)
	return s
}

// SetProfiles swaps the served profile set.
func (s *Server) SetProfiles(profiles []model.VCProfile) {
	if profiles == nil {
		profiles = []model.VCProfile{}
	}
	s.mu.Lock()
	s.profiles = profiles
	s.mu.Unlock()
	s.metrics.ProfilesLoaded.Set(float64(len(profiles)))
}

func (s *Server) snapshot() []model.VCProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Instrument)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/options", s.handleOptions)
	r.Get("/vcs", s.handleList)
	r.Get("/vcs/{name}", s.handleGet)
	r.Post("/match", s.handleMatch)
	r.Post("/advise", s.handleAdvise)
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		zap.L().Debug("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"profiles": len(s.snapshot()),
		"reasoner": s.engine.HasReasoner(),
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sectors":      filter.SectorOptions,
		"stages":       filter.StageOptions,
		"check_ranges": filter.CheckRangeLabels(),
		"regions":      filter.GeoRegions,
	})
}

type listResponse struct {
	Total    int               `json:"total"`
	Shown    int               `json:"shown"`
	Note     string            `json:"note,omitempty"`
	Profiles []model.VCProfile `json:"profiles"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := filter.Filter{
		Sector:     q.Get("sector"),
		Stage:      q.Get("stage"),
		CheckRange: q.Get("check_range"),
		Geo:        q.Get("geo"),
		Query:      q.Get("q"),
	}
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	page, total := filter.Page(f.Apply(s.snapshot()), limit)
	resp := listResponse{Total: total, Shown: len(page), Profiles: page}
	if total > len(page) {
		resp.Note = fmt.Sprintf("Showing %d of %d results. Use more specific filters to narrow down.", len(page), total)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	for _, p := range s.snapshot() {
		if strings.EqualFold(p.Name, name) {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeError(w, http.StatusNotFound, "investor not found")
}

type matchRequest struct {
	Startup  string          `json:"startup"`
	Limit    int             `json:"limit"`
	Criteria *model.Criteria `json:"criteria,omitempty"`
}

type matchResponse struct {
	Matches    []model.Match            `json:"matches"`
	Attributes *model.StartupAttributes `json:"attributes,omitempty"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Startup) == "" {
		writeError(w, http.StatusBadRequest, "startup description is required")
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = s.matchLimit
	}

	resp := matchResponse{
		Matches: s.engine.Match(r.Context(), req.Startup, s.snapshot(), limit, req.Criteria),
	}
	if s.engine.HasReasoner() {
		attrs := s.engine.ExtractAttributes(r.Context(), req.Startup)
		resp.Attributes = &attrs
	}
	writeJSON(w, http.StatusOK, resp)
}

type adviseRequest struct {
	Startup  string          `json:"startup"`
	Matches  []model.Match   `json:"matches,omitempty"`
	Criteria *model.Criteria `json:"criteria,omitempty"`
}

func (s *Server) handleAdvise(w http.ResponseWriter, r *http.Request) {
	var req adviseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Startup) == "" {
		writeError(w, http.StatusBadRequest, "startup description is required")
		return
	}
	matches := req.Matches
	if matches == nil {
		matches = s.engine.Match(r.Context(), req.Startup, s.snapshot(), s.matchLimit, req.Criteria)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"advice":  s.engine.Advise(r.Context(), req.Startup, matches),
		"matches": matches,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
