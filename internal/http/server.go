// Package http is the JSON API around the triage engine: case lifecycle,
// turn submission and the dashboard data endpoints. Rendering happens
// elsewhere; this layer only moves data.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"healthguard/internal/db"
	"healthguard/internal/llm"
	"healthguard/internal/logging"
	"healthguard/internal/refdata"
	"healthguard/internal/triage"
	"healthguard/pkg"
)

// Server bundles the dependencies of the API handlers. The archive may be
// nil, in which case cases live only in memory.
type Server struct {
	rules   *refdata.RuleSet
	llm     llm.Client
	archive *db.Repository
	cases   *caseRegistry
}

// NewServer constructs a Server.
func NewServer(rules *refdata.RuleSet, client llm.Client, archive *db.Repository) *Server {
	return &Server{
		rules:   rules,
		llm:     client,
		archive: archive,
		cases:   newCaseRegistry(),
	}
}

// Router builds the chi router for the API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Post("/cases", s.handleCreateCase)
		r.Route("/cases/{caseID}", func(r chi.Router) {
			r.Get("/", s.handleGetCase)
			r.Post("/messages", s.handlePostMessage)
			r.Post("/reset", s.handleReset)
		})
		r.Get("/outbreaks", s.handleOutbreaks)
		r.Get("/stats", s.handleStats)
	})

	return r
}

// caseRegistry maps case IDs to their orchestrators. Each orchestrator is
// the single writer of its own case; the registry only guards the map.
type caseRegistry struct {
	mu    sync.RWMutex
	cases map[pkg.CaseID]*triage.Orchestrator
}

func newCaseRegistry() *caseRegistry {
	return &caseRegistry{cases: make(map[pkg.CaseID]*triage.Orchestrator)}
}

func (r *caseRegistry) Add(id pkg.CaseID, orch *triage.Orchestrator) {
	r.mu.Lock()
	r.cases[id] = orch
	r.mu.Unlock()
}

func (r *caseRegistry) Get(id pkg.CaseID) (*triage.Orchestrator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	orch, ok := r.cases[id]
	return orch, ok
}

// archiveTimeout bounds each write-behind archive operation.
const archiveTimeout = 10 * time.Second

// archiveTurn copies a completed turn into the archive, fire and forget.
// Archive failures are logged and never surfaced to the patient.
func (s *Server) archiveTurn(caseID pkg.CaseID, messages []pkg.Message, summary pkg.CaseSummary) {
	if s.archive == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		logger := logging.Default()

		if err := s.archive.CreateCase(ctx, caseID); err != nil {
			logger.Warn("failed to archive case", "case_id", caseID, logging.ErrAttr(err))
			return
		}
		for _, m := range messages {
			if err := s.archive.ArchiveMessage(ctx, caseID, m); err != nil {
				logger.Warn("failed to archive message", "case_id", caseID, logging.ErrAttr(err))
				return
			}
		}
		if err := s.archive.UpsertSummary(ctx, caseID, summary); err != nil {
			logger.Warn("failed to archive summary", "case_id", caseID, logging.ErrAttr(err))
		}
	}()
}

// archiveReset drops the archived case and re-seeds it with the fresh
// greeting, mirroring the in-memory reset.
func (s *Server) archiveReset(caseID pkg.CaseID, greeting pkg.Message, summary pkg.CaseSummary) {
	if s.archive == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		logger := logging.Default()

		if err := s.archive.DeleteCase(ctx, caseID); err != nil {
			logger.Warn("failed to drop archived case", "case_id", caseID, logging.ErrAttr(err))
			return
		}
		if err := s.archive.CreateCase(ctx, caseID); err != nil {
			logger.Warn("failed to archive case", "case_id", caseID, logging.ErrAttr(err))
			return
		}
		if err := s.archive.ArchiveMessage(ctx, caseID, greeting); err != nil {
			logger.Warn("failed to archive message", "case_id", caseID, logging.ErrAttr(err))
			return
		}
		if err := s.archive.UpsertSummary(ctx, caseID, summary); err != nil {
			logger.Warn("failed to archive summary", "case_id", caseID, logging.ErrAttr(err))
		}
	}()
}
