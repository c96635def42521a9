package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"healthguard/internal/logging"
	"healthguard/internal/refdata"
	"healthguard/internal/triage"
	"healthguard/pkg"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, "ok")
}

// handleCreateCase opens a new case file and returns its greeting.
func (s *Server) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	caseID := pkg.NewCaseID()
	orch := triage.NewOrchestrator(s.rules, s.llm)
	s.cases.Add(caseID, orch)

	greeting := orch.Greeting()
	s.archiveTurn(caseID, []pkg.Message{greeting}, orch.Summary())

	writeJSON(w, http.StatusCreated, pkg.CreateCaseResponse{
		CaseID:      caseID,
		Greeting:    greeting,
		Phase:       string(orch.Phase()),
		Placeholder: placeholderFor(orch.Phase()),
	})
}

// handlePostMessage runs one triage turn.
func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	caseID := pkg.CaseID(chi.URLParam(r, "caseID"))
	orch, ok := s.cases.Get(caseID)
	if !ok {
		http.Error(w, "unknown case", http.StatusNotFound)
		return
	}

	var req pkg.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := orch.HandleTurn(r.Context(), req.Content)
	switch {
	case errors.Is(err, triage.ErrEmptyInput):
		http.Error(w, "empty message", http.StatusBadRequest)
		return
	case errors.Is(err, triage.ErrTurnInFlight):
		http.Error(w, "a turn is already in flight", http.StatusConflict)
		return
	case errors.Is(err, triage.ErrCaseReset):
		http.Error(w, "case was reset", http.StatusConflict)
		return
	case err != nil:
		// The orchestrator degrades generation failures internally, so
		// anything else is unexpected.
		logging.From(r.Context()).Error("turn failed", "case_id", caseID, logging.ErrAttr(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	archived := []pkg.Message{result.UserMessage}
	if result.Warning != nil {
		archived = append(archived, *result.Warning)
	}
	archived = append(archived, result.Reply)
	s.archiveTurn(caseID, archived, result.Summary)

	writeJSON(w, http.StatusOK, pkg.ChatResponse{
		Reply:       result.Reply,
		Warning:     result.Warning,
		RiskLevel:   result.RiskLevel,
		Phase:       string(result.Phase),
		Placeholder: placeholderFor(result.Phase),
		Summary:     result.Summary,
	})
}

// handleGetCase returns the full case snapshot. Cases no longer in memory
// fall back to the archive when one is configured.
func (s *Server) handleGetCase(w http.ResponseWriter, r *http.Request) {
	caseID := pkg.CaseID(chi.URLParam(r, "caseID"))

	if orch, ok := s.cases.Get(caseID); ok {
		writeJSON(w, http.StatusOK, pkg.CaseSnapshot{
			Summary:    orch.Summary(),
			Transcript: orch.Transcript(),
			Phase:      string(orch.Phase()),
		})
		return
	}

	if s.archive != nil {
		summary, err := s.archive.GetSummary(r.Context(), caseID)
		if err != nil {
			logging.From(r.Context()).Error("failed to read archived summary", "case_id", caseID, logging.ErrAttr(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if summary != nil {
			transcript, err := s.archive.GetTranscript(r.Context(), caseID)
			if err != nil {
				logging.From(r.Context()).Error("failed to read archived transcript", "case_id", caseID, logging.ErrAttr(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, pkg.CaseSnapshot{
				Summary:    *summary,
				Transcript: transcript,
				Phase:      string(phaseForSummary(*summary)),
			})
			return
		}
	}

	http.Error(w, "unknown case", http.StatusNotFound)
}

// handleReset wipes a case back to its initial state ("New Case File").
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	caseID := pkg.CaseID(chi.URLParam(r, "caseID"))
	orch, ok := s.cases.Get(caseID)
	if !ok {
		http.Error(w, "unknown case", http.StatusNotFound)
		return
	}

	greeting := orch.Reset()
	s.archiveReset(caseID, greeting, orch.Summary())

	writeJSON(w, http.StatusOK, pkg.CreateCaseResponse{
		CaseID:      caseID,
		Greeting:    greeting,
		Phase:       string(orch.Phase()),
		Placeholder: placeholderFor(orch.Phase()),
	})
}

func (s *Server) handleOutbreaks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.rules.Outbreaks)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]pkg.ChartDataPoint{
		"queries":           refdata.QueryStats(),
		"risk_distribution": refdata.RiskDistribution(),
	})
}

func placeholderFor(phase triage.Phase) string {
	if phase == triage.PhaseTriage {
		return refdata.PlaceholderTriage
	}
	return refdata.PlaceholderIntake
}

// phaseForSummary rederives the phase for archived cases, which have no live
// orchestrator.
func phaseForSummary(s pkg.CaseSummary) triage.Phase {
	if s.Age != "" && s.Gender != pkg.GenderUnknown {
		return triage.PhaseTriage
	}
	return triage.PhaseAwaitingDemographics
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Default().Error("failed to encode response", logging.ErrAttr(err))
	}
}
