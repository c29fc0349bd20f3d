// Package server exposes an interactive heatmap over HTTP.
//
// Every viewer gets a session with its own sort state. Routes:
//
//	POST   /sessions                         create a session
//	GET    /sessions/{id}                    session state
//	DELETE /sessions/{id}                    end a session
//	GET    /sessions/{id}/heatmap.svg        current rendering (interactive SVG)
//	GET    /sessions/{id}/heatmap.json       current geometry
//	POST   /sessions/{id}/sort/{column}      click a column label
//	GET    /sessions/{id}/tooltip?x=&y=      hover text under the pointer
//	GET    /healthz                          liveness
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/funkyheatmap/pkg/buildinfo"
	"github.com/matzehuels/funkyheatmap/pkg/cache"
	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/column"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/interact"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/layout"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/sink"
	"github.com/matzehuels/funkyheatmap/pkg/observability"
	"github.com/matzehuels/funkyheatmap/pkg/session"
)

// Config configures a Server.
type Config struct {
	// Build returns a fresh heatmap. Each session gets its own because
	// columns carry sort state.
	Build func() (*heatmap.Heatmap, error)

	// InputHash identifies the served data and spec in cache keys.
	InputHash string

	Measurer layout.Measurer
	Store    session.Store // default: memory
	Cache    cache.Cache   // default: null
	Keyer    cache.Keyer   // default: scoped "serve:"
	TTL      time.Duration // default: session.DefaultTTL
	Logger   *log.Logger
}

// Server serves interactive heatmap sessions.
type Server struct {
	cfg Config

	mu   sync.Mutex
	live map[string]*interact.Controller
}

// New returns a server for cfg.
func New(cfg Config) *Server {
	if cfg.Store == nil {
		cfg.Store = session.NewMemoryStore()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.Keyer == nil {
		cfg.Keyer = cache.NewScopedKeyer(nil, "serve:")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = session.DefaultTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{cfg: cfg, live: make(map[string]*interact.Controller)}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Post("/sessions", s.handleCreate)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", s.handleGet)
		r.Delete("/", s.handleDelete)
		r.Get("/heatmap.svg", s.handleSVG)
		r.Get("/heatmap.json", s.handleJSON)
		r.Post("/sort/{column}", s.handleSort)
		r.Get("/tooltip", s.handleTooltip)
	})
	return r
}

// Cleanup drops expired sessions from the store and from memory.
func (s *Server) Cleanup(ctx context.Context) error {
	if err := s.cfg.Store.Cleanup(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	ids := make([]string, 0, len(s.live))
	for id := range s.live {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		sess, err := s.cfg.Store.Get(ctx, id)
		if err != nil {
			return err
		}
		if sess == nil {
			s.mu.Lock()
			delete(s.live, id)
			s.mu.Unlock()
		}
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

type sessionView struct {
	ID        string    `json:"id"`
	Column    string    `json:"column,omitempty"`
	State     string    `json:"state,omitempty"`
	Order     []int     `json:"order,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

func view(sess *session.Session) sessionView {
	return sessionView{
		ID:        sess.ID,
		Column:    sess.Column,
		State:     sess.State,
		Order:     sess.Order,
		ExpiresAt: sess.ExpiresAt,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess := session.New(s.cfg.TTL)
	if err := s.cfg.Store.Set(r.Context(), sess); err != nil {
		s.fail(w, r, ferrors.Wrap(ferrors.ErrCodeInternal, err, "store session"))
		return
	}
	s.cfg.Logger.Debug("session created", "id", sess.ID)
	writeJSON(w, http.StatusCreated, view(sess))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view(sess))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.cfg.Store.Delete(r.Context(), id); err != nil {
		s.fail(w, r, ferrors.Wrap(ferrors.ErrCodeInternal, err, "delete session"))
		return
	}
	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, "svg", "image/svg+xml")
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, "json", "application/json")
}

func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, format, contentType string) {
	ctx := r.Context()
	sess, err := s.session(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, h, err := s.controller(sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	order := c.Order()
	key := s.cfg.Keyer.ArtifactKey(cache.HashJSON([]any{s.cfg.InputHash, order}), cache.ArtifactKeyOpts{
		Format:      format,
		Sort:        sortKey(sess),
		Interactive: format == "svg",
	})
	if data, hit, err := s.cfg.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		writeBytes(w, contentType, data)
		return
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	res, err := c.Render(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var data []byte
	if format == "svg" {
		data = sink.RenderSVG(res, sink.WithInteraction())
	} else if data, err = sink.RenderJSON(res, sink.WithJSONHeatmap(h), sink.WithJSONOrder(order)); err != nil {
		s.fail(w, r, ferrors.Wrap(ferrors.ErrCodeInternal, err, "encode geometry"))
		return
	}
	if err := s.cfg.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		s.cfg.Logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	writeBytes(w, contentType, data)
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := s.session(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, _, err := s.controller(sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	state, err := c.Sort(chi.URLParam(r, "column"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sess.Order = c.Order()
	sess.Column = chi.URLParam(r, "column")
	sess.State = string(state)
	sess.Touch(s.cfg.TTL)
	if err := s.cfg.Store.Set(ctx, sess); err != nil {
		s.fail(w, r, ferrors.Wrap(ferrors.ErrCodeInternal, err, "store session"))
		return
	}
	// A newer click replaces this pass; its own request renders.
	if _, err := c.Render(ctx); err != nil && !ferrors.Is(err, ferrors.ErrCodeSuperseded) {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view(sess))
}

func (s *Server) handleTooltip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		s.fail(w, r, ferrors.New(ferrors.ErrCodeInvalidInput, "x and y must be numbers"))
		return
	}
	sess, err := s.session(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, _, err := s.controller(sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if c.Last() == nil {
		if _, err := c.Render(ctx); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	tip, ok := c.Move(x, y)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, tip)
}

// =============================================================================
// Sessions
// =============================================================================

func (s *Server) session(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.cfg.Store.Get(ctx, id)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInternal, err, "load session")
	}
	if sess == nil {
		return nil, ferrors.New(ferrors.ErrCodeNotFound, "session %q not found", id)
	}
	return sess, nil
}

// controller returns the live controller of sess, restoring it from the
// stored state when this process has not seen the session yet.
func (s *Server) controller(sess *session.Session) (*interact.Controller, *heatmap.Heatmap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.live[sess.ID]; ok {
		return c, c.Heatmap(), nil
	}

	h, err := s.cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	c := interact.New(h, s.cfg.Measurer)
	if err := c.Restore(sess.Order, sess.Column, column.SortState(sess.State)); err != nil {
		return nil, nil, err
	}
	s.live[sess.ID] = c
	return c, h, nil
}

func sortKey(sess *session.Session) []string {
	if sess.Column == "" {
		return nil
	}
	return []string{sess.Column + ":" + sess.State}
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code    ferrors.Code `json:"code"`
	Message string       `json:"message"`
}

func status(err error) int {
	switch code := ferrors.GetCode(err); {
	case code == ferrors.ErrCodeNotFound:
		return http.StatusNotFound
	case code == ferrors.ErrCodeSuperseded:
		return http.StatusConflict
	case code == ferrors.ErrCodeInvalidInput, ferrors.IsConfiguration(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := status(err)
	if code >= http.StatusInternalServerError {
		s.cfg.Logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), err)
	body := errorBody{Code: ferrors.GetCode(err), Message: ferrors.UserMessage(err)}
	if body.Code == "" {
		body.Code = ferrors.ErrCodeInternal
	}
	writeJSON(w, code, body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// observe reports requests to the registered HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Header().Set("Server", buildinfo.UserAgent())
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)
		hooks.OnResponse(r.Context(), r.Method, routePattern(r), ww.Status(), time.Since(start))
	})
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
