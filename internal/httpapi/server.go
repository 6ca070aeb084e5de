// Package httpapi serves stored question banks over a read-only JSON API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazyhaar/fragebank/internal/store"
	"github.com/hazyhaar/fragebank/kit"
	"github.com/hazyhaar/fragebank/questionbank"
)

// Latest may be used in place of an import id.
const Latest = "latest"

var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)

// Server holds the API dependencies.
type Server struct {
	store  *store.Store
	logger *slog.Logger
}

// New returns the API server. A nil logger means slog.Default().
func New(st *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: st, logger: logger}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLog(s.logger))
	r.Use(securityHeaders)
	r.Use(headToGet)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		kit.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mw := kit.Logging(s.logger)
	r.Route("/api/imports", func(r chi.Router) {
		r.Get("/", s.handle("list_imports", mw(s.listImports), noRequest))
		r.Get("/{importID}", s.handle("get_import", mw(s.getImport), decodeImport))
		r.Get("/{importID}/questions", s.handle("list_questions", mw(s.listQuestions), decodeImport))
		r.Get("/{importID}/questions/{number}", s.handle("get_question", mw(s.getQuestion), decodeQuestion))
	})
	return r
}

func (s *Server) handle(name string, ep kit.Endpoint, dec kit.HTTPDecoder) http.HandlerFunc {
	return kit.HTTPHandler(name, ep, dec, statusOf, func(r *http.Request) string {
		return middleware.GetReqID(r.Context())
	})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// --- requests ---

type importReq struct {
	ImportID string
}

type questionReq struct {
	ImportID string
	Number   int
}

func noRequest(*http.Request) (any, error) { return nil, nil }

func decodeImport(r *http.Request) (any, error) {
	return &importReq{ImportID: chi.URLParam(r, "importID")}, nil
}

func decodeQuestion(r *http.Request) (any, error) {
	raw := chi.URLParam(r, "number")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return nil, fmt.Errorf("%w: question number %q", ErrBadRequest, raw)
	}
	return &questionReq{ImportID: chi.URLParam(r, "importID"), Number: n}, nil
}

// --- endpoints ---

type questionsResp struct {
	Import    *store.Import         `json:"import"`
	Questions []questionbank.Record `json:"questions"`
}

func (s *Server) listImports(ctx context.Context, _ any) (any, error) {
	imps, err := s.store.ListImports(ctx)
	if err != nil {
		return nil, err
	}
	if imps == nil {
		imps = []*store.Import{}
	}
	return imps, nil
}

func (s *Server) getImport(ctx context.Context, req any) (any, error) {
	return s.resolve(ctx, req.(*importReq).ImportID)
}

func (s *Server) listQuestions(ctx context.Context, req any) (any, error) {
	imp, err := s.resolve(ctx, req.(*importReq).ImportID)
	if err != nil {
		return nil, err
	}
	recs, err := s.store.ListQuestions(ctx, imp.ID)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []questionbank.Record{}
	}
	return &questionsResp{Import: imp, Questions: recs}, nil
}

func (s *Server) getQuestion(ctx context.Context, req any) (any, error) {
	r := req.(*questionReq)
	imp, err := s.resolve(ctx, r.ImportID)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.GetQuestion(ctx, imp.ID, r.Number)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: question %d in import %s", ErrNotFound, r.Number, imp.ID)
	}
	return rec, nil
}

// resolve looks an import up by id, or the newest one for Latest.
func (s *Server) resolve(ctx context.Context, id string) (*store.Import, error) {
	var (
		imp *store.Import
		err error
	)
	if id == Latest {
		imp, err = s.store.LatestImport(ctx)
	} else {
		imp, err = s.store.GetImport(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if imp == nil {
		return nil, fmt.Errorf("%w: import %s", ErrNotFound, id)
	}
	return imp, nil
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
