// Package server exposes diagrams over HTTP.
//
// The server stores serialized diagrams in a pluggable Store (in-memory or
// MongoDB), applies rewriting passes on request, and renders diagrams to SVG
// with an optional render cache.
//
// # Routes
//
//	POST   /v1/diagrams              create a diagram
//	GET    /v1/diagrams              list diagrams
//	GET    /v1/diagrams/{id}         fetch a diagram
//	DELETE /v1/diagrams/{id}         delete a diagram
//	POST   /v1/diagrams/{id}/rewrite apply rewriting passes
//	GET    /v1/diagrams/{id}/render  render to SVG
//	GET    /healthz                  liveness probe
package server

import (
	"context"
	stderrors "errors"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/jhagedorn/wirecat/pkg/cache"
	"github.com/jhagedorn/wirecat/pkg/errors"
	"github.com/jhagedorn/wirecat/pkg/graphio"
	"github.com/jhagedorn/wirecat/pkg/render"
	"github.com/jhagedorn/wirecat/pkg/wiring"
	"github.com/jhagedorn/wirecat/pkg/wiring/rewrite"
)

// renderCacheTTL bounds how long rendered SVGs stay cached.
const renderCacheTTL = 24 * time.Hour

// Config holds the server's collaborators.
type Config struct {
	// Store persists diagrams. Required.
	Store Store

	// Cache holds rendered output keyed by diagram content. Optional;
	// rendering works without one, it just recomputes every time.
	Cache cache.Cache

	// Logger receives request and error logs. Defaults to log.Default().
	Logger *log.Logger
}

// Server handles diagram HTTP requests.
type Server struct {
	store  Store
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
	router chi.Router
}

// New creates a Server and mounts its routes.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	c := cfg.Cache
	if c == nil {
		c = cache.NewNullCache()
	}

	s := &Server{
		store:  cfg.Store,
		cache:  c,
		keyer:  &cache.DefaultKeyer{},
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/diagrams", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/rewrite", s.handleRewrite)
			r.Get("/render", s.handleRender)
		})
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createRequest is the body of POST /v1/diagrams.
type createRequest struct {
	Name    string          `json:"name"`
	Diagram graphio.Diagram `json:"diagram"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	// Validate the payload round-trips into a live diagram before storing.
	if _, err := graphio.ToDiagram(req.Diagram); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidDiagram, err, "invalid diagram"))
		return
	}

	now := time.Now().UTC()
	rec := &Record{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Diagram:   req.Diagram,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "failed to store diagram"))
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "failed to list diagrams"))
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.Delete(r.Context(), id)
	if stderrors.Is(err, ErrNotFound) {
		s.writeError(w, errors.New(errors.ErrCodeDiagramNotFound, "diagram %s not found", id))
		return
	}
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "failed to delete diagram"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// rewriteRequest is the body of POST /v1/diagrams/{id}/rewrite.
type rewriteRequest struct {
	Passes []string `json:"passes"`
}

// rewriteResponse carries the updated record plus pass statistics.
type rewriteResponse struct {
	Record *Record        `json:"record"`
	Result rewrite.Result `json:"result"`
}

func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req rewriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if len(req.Passes) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "no passes requested"))
		return
	}

	d, err := graphio.ToDiagram(rec.Diagram)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "stored diagram is invalid"))
		return
	}

	var total rewrite.Result
	for _, name := range req.Passes {
		res, err := ApplyPass(d, name)
		if err != nil {
			s.writeError(w, err)
			return
		}
		total.Merge(res)
	}

	rec.Diagram = graphio.FromDiagram(d)
	rec.UpdatedAt = time.Now().UTC()
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "failed to store diagram"))
		return
	}
	writeJSON(w, http.StatusOK, rewriteResponse{Record: rec, Result: total})
}

// ApplyPass runs a single named rewriting pass on d in place.
// Pass names match the CLI: add-junctions, remove-junctions, copy, delete,
// cartesian.
func ApplyPass(d *wiring.Diagram, name string) (rewrite.Result, error) {
	switch name {
	case "add-junctions":
		return rewrite.AddJunctions(d), nil
	case "remove-junctions":
		return rewrite.RemoveJunctions(d), nil
	case "copy":
		return rewrite.NormalizeCopy(d), nil
	case "delete":
		return rewrite.NormalizeDelete(d), nil
	case "cartesian":
		res, err := rewrite.NormalizeCartesian(d)
		if err != nil {
			return rewrite.Result{}, errors.Wrap(errors.ErrCodeUnsupportedStructure, err, "cartesian normalization failed")
		}
		return res, nil
	default:
		return rewrite.Result{}, errors.New(errors.ErrCodeInvalidPass, "unknown pass %q", name)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}
	if format != "svg" && format != "dot" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format))
		return
	}
	showValues := r.URL.Query().Get("values") == "true"

	payload, err := json.Marshal(rec.Diagram)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "failed to hash diagram"))
		return
	}
	key := s.keyer.RenderKey(cache.Hash(payload), cache.RenderKeyOpts{
		Format:     format,
		ShowValues: showValues,
	})

	if data, ok, err := s.cache.Get(r.Context(), key); err == nil && ok {
		writeRendered(w, format, data)
		return
	}

	d, err := graphio.ToDiagram(rec.Diagram)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "stored diagram is invalid"))
		return
	}

	g := render.ToDOT(d, render.Options{ShowValues: showValues, Name: rec.Name})
	var data []byte
	switch format {
	case "dot":
		data = []byte(g.String())
	case "svg":
		data, err = render.RenderSVG(g.String())
		if err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "failed to render diagram"))
			return
		}
	}

	if err := s.cache.Set(r.Context(), key, data, renderCacheTTL); err != nil {
		s.logger.Warn("failed to cache render", "error", err)
	}
	writeRendered(w, format, data)
}

// lookup fetches the record addressed by the request's {id} URL parameter.
func (s *Server) lookup(r *http.Request) (*Record, error) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if stderrors.Is(err, ErrNotFound) {
		return nil, errors.New(errors.ErrCodeDiagramNotFound, "diagram %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to read diagram")
	}
	return rec, nil
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDiagram,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPass:
		return http.StatusBadRequest
	case errors.ErrCodeDiagramNotFound, errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupportedStructure, errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRendered(w http.ResponseWriter, format string, data []byte) {
	switch format {
	case "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ListenAndServe runs the server on addr until ctx is canceled.
// Shutdown waits up to 10 seconds for in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
