package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/undokit/internal/logging"
	"github.com/aretw0/undokit/pkg/adapters/redis"
	"github.com/aretw0/undokit/pkg/domain"
	"github.com/aretw0/undokit/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Document is the JSON view of a document and its history.
type Document struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
	Status session.Status `json:"status"`
}

// StepResponse answers undo and redo requests.
type StepResponse struct {
	Changed  bool     `json:"changed"`
	Document Document `json:"document"`
}

// SetResponse answers single-field writes.
type SetResponse struct {
	Merged   bool     `json:"merged"`
	Document Document `json:"document"`
}

type setFieldRequest struct {
	Value any `json:"value"`
}

type patchRequest struct {
	Fields map[string]any `json:"fields"`
}

type limitRequest struct {
	Limit *int `json:"limit"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves the document API over a session manager.
type Server struct {
	Sessions *session.Manager

	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer exposes the gatherer at GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates a new HTTP handler for the session manager.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	server := &Server{
		Sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", server.GetHealth)
	if server.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", server.ListDocuments)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", server.GetDocument)
			r.Patch("/", server.PatchDocument)
			r.Delete("/", server.DeleteDocument)
			r.Put("/fields/{field}", server.SetField)
			r.Post("/undo", server.Undo)
			r.Post("/redo", server.Redo)
			r.Put("/limit", server.SetLimit)
			r.Delete("/history", server.ClearHistory)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListDocuments handles the GET /documents request.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, "List", err)
		return
	}
	s.respond(w, http.StatusOK, map[string][]string{"documents": ids})
}

// GetDocument handles the GET /documents/{id} request.
// Unknown documents are 404; reading never creates one.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	var doc Document
	err := s.Sessions.View(r.Context(), chi.URLParam(r, "id"), func(_ context.Context, sess *session.Session) (err error) {
		doc, err = view(sess)
		return err
	})
	if err != nil {
		s.fail(w, "GetDocument", err)
		return
	}
	s.respond(w, http.StatusOK, doc)
}

// SetField handles the PUT /documents/{id}/fields/{field} request.
func (s *Server) SetField(w http.ResponseWriter, r *http.Request) {
	var body setFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.badRequest(w, "SetField", err)
		return
	}

	field := chi.URLParam(r, "field")
	var resp SetResponse
	err := s.with(r, func(sess *session.Session) error {
		merged, err := sess.Set(field, body.Value)
		if err != nil {
			return err
		}
		resp.Merged = merged
		resp.Document, err = view(sess)
		return err
	})
	if err != nil {
		s.fail(w, "SetField", err)
		return
	}
	s.respond(w, http.StatusOK, resp)
}

// PatchDocument handles the PATCH /documents/{id} request.
// All fields are written as one undoable step.
func (s *Server) PatchDocument(w http.ResponseWriter, r *http.Request) {
	var body patchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.badRequest(w, "PatchDocument", err)
		return
	}
	if len(body.Fields) == 0 {
		s.badRequest(w, "PatchDocument", errors.New("fields must not be empty"))
		return
	}

	var doc Document
	err := s.with(r, func(sess *session.Session) (err error) {
		if err := sess.SetMany(body.Fields); err != nil {
			return err
		}
		doc, err = view(sess)
		return err
	})
	if err != nil {
		s.fail(w, "PatchDocument", err)
		return
	}
	s.respond(w, http.StatusOK, doc)
}

// Undo handles the POST /documents/{id}/undo request.
func (s *Server) Undo(w http.ResponseWriter, r *http.Request) {
	s.step(w, r, "Undo", (*session.Session).Undo)
}

// Redo handles the POST /documents/{id}/redo request.
func (s *Server) Redo(w http.ResponseWriter, r *http.Request) {
	s.step(w, r, "Redo", (*session.Session).Redo)
}

func (s *Server) step(w http.ResponseWriter, r *http.Request, op string, fn func(*session.Session) (bool, error)) {
	var resp StepResponse
	err := s.with(r, func(sess *session.Session) error {
		changed, err := fn(sess)
		if err != nil {
			return err
		}
		resp.Changed = changed
		resp.Document, err = view(sess)
		return err
	})
	if err != nil {
		s.fail(w, op, err)
		return
	}
	s.respond(w, http.StatusOK, resp)
}

// SetLimit handles the PUT /documents/{id}/limit request.
func (s *Server) SetLimit(w http.ResponseWriter, r *http.Request) {
	var body limitRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.badRequest(w, "SetLimit", err)
		return
	}
	if body.Limit == nil || *body.Limit < 0 {
		s.badRequest(w, "SetLimit", errors.New("limit must be a non-negative integer"))
		return
	}

	var doc Document
	err := s.with(r, func(sess *session.Session) (err error) {
		sess.SetLimit(*body.Limit)
		doc, err = view(sess)
		return err
	})
	if err != nil {
		s.fail(w, "SetLimit", err)
		return
	}
	s.respond(w, http.StatusOK, doc)
}

// ClearHistory handles the DELETE /documents/{id}/history request.
func (s *Server) ClearHistory(w http.ResponseWriter, r *http.Request) {
	var doc Document
	err := s.with(r, func(sess *session.Session) (err error) {
		sess.Clear()
		doc, err = view(sess)
		return err
	})
	if err != nil {
		s.fail(w, "ClearHistory", err)
		return
	}
	s.respond(w, http.StatusOK, doc)
}

// DeleteDocument handles the DELETE /documents/{id} request.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "DeleteDocument", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// -- Helpers --

func (s *Server) with(r *http.Request, fn func(*session.Session) error) error {
	id := chi.URLParam(r, "id")
	return s.Sessions.WithSession(r.Context(), id, func(_ context.Context, sess *session.Session) error {
		return fn(sess)
	})
}

func view(sess *session.Session) (Document, error) {
	fields, err := sess.Snapshot()
	if err != nil {
		return Document{}, fmt.Errorf("failed to read document: %w", err)
	}
	return Document{
		ID:     sess.ID(),
		Fields: fields,
		Status: sess.Status(),
	}, nil
}

func (s *Server) respond(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) badRequest(w http.ResponseWriter, op string, err error) {
	s.logger.Warn(op+": invalid request", "err", err)
	s.respond(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		code = http.StatusNotFound
	case errors.Is(err, redis.ErrLockAcquire):
		code = http.StatusConflict
	case session.IsInvalidInput(err):
		code = http.StatusBadRequest
	}
	if code == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Debug(op+" rejected", "err", err)
	}
	s.respond(w, code, errorResponse{Error: err.Error()})
}
