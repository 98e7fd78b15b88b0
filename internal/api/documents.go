package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hugo-lorenzo-mato/docfix/internal/fix"
	"github.com/hugo-lorenzo-mato/docfix/internal/present"
	"github.com/hugo-lorenzo-mato/docfix/internal/service"
)

// PlanResponse is returned by the plan endpoint.
type PlanResponse struct {
	Record  *present.DisplayRecord `json:"record"`
	Fixable bool                   `json:"fixable"`
	Plan    *fix.Plan              `json:"plan,omitempty"`
}

// CandidatesResponse is returned by the candidates endpoint.
type CandidatesResponse struct {
	Candidates []service.Candidate `json:"candidates"`
	Count      int                 `json:"count"`
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	rec, err := s.docs.Search(r.Context(), chi.URLParam(r, "document"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetUpdatable(w http.ResponseWriter, r *http.Request) {
	res, err := s.docs.Updatable(r.Context(), chi.URLParam(r, "document"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	rec, plan, ok, err := s.docs.Plan(r.Context(), chi.URLParam(r, "document"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	resp := PlanResponse{Record: rec, Fixable: ok}
	if ok {
		resp.Plan = &plan
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleFixDocument answers 200 for every decided outcome; callers read
// success from the body.
func (s *Server) handleFixDocument(w http.ResponseWriter, r *http.Request) {
	out, err := s.docs.Fix(r.Context(), chi.URLParam(r, "document"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := s.docs.Candidates(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	if candidates == nil {
		candidates = []service.Candidate{}
	}
	respondJSON(w, http.StatusOK, CandidatesResponse{Candidates: candidates, Count: len(candidates)})
}
