package web

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hugo-lorenzo-mato/docfix/internal/core"
	"github.com/hugo-lorenzo-mato/docfix/internal/present"
	"github.com/hugo-lorenzo-mato/docfix/internal/service"
)

const msgEmptyDocument = "Please enter a document code."

// pageData feeds templates/index.html.
type pageData struct {
	Document       string
	Card           *present.DisplayRecord
	Message        string
	Success        bool
	Candidates     []service.Candidate
	ShowCandidates bool
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, pageData{})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.search(w, r, r.PostFormValue("document"))
}

func (s *Server) handleSearchGet(w http.ResponseWriter, r *http.Request) {
	s.search(w, r, chi.URLParam(r, "document"))
}

// search shows the card for document together with the candidate list.
func (s *Server) search(w http.ResponseWriter, r *http.Request, document string) {
	document = strings.TrimSpace(document)
	if document == "" {
		s.render(w, http.StatusUnprocessableEntity, pageData{Message: msgEmptyDocument})
		return
	}

	ov, err := s.docs.Overview(r.Context(), document)
	if err != nil {
		s.logger.Error("overview failed", slog.String("document", document), slog.String("error", err.Error()))
		s.render(w, http.StatusInternalServerError, pageData{Document: document, Message: http.StatusText(http.StatusInternalServerError)})
		return
	}
	s.render(w, http.StatusOK, pageData{
		Document:       document,
		Card:           ov.Record,
		Candidates:     ov.Candidates,
		ShowCandidates: true,
	})
}

// handleFix re-runs the lookup server side and applies the fix the record
// qualifies for.
func (s *Server) handleFix(w http.ResponseWriter, r *http.Request) {
	document := strings.TrimSpace(r.PostFormValue("document"))
	out, err := s.docs.Fix(r.Context(), document)
	if err != nil {
		status := http.StatusInternalServerError
		message := http.StatusText(status)
		if core.IsCategory(err, core.ErrCatValidation) {
			status, message = http.StatusUnprocessableEntity, msgEmptyDocument
		} else {
			s.logger.Error("fix failed", slog.String("document", document), slog.String("error", err.Error()))
		}
		s.render(w, status, pageData{Document: document, Message: message})
		return
	}

	s.render(w, http.StatusOK, pageData{
		Document:       document,
		Card:           out.Record,
		Message:        out.Message,
		Success:        out.Success,
		Candidates:     s.candidates(r),
		ShowCandidates: true,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, pageData{
		Candidates:     s.candidates(r),
		ShowCandidates: true,
	})
}

// candidates loads the discovery list. Failures leave it empty.
func (s *Server) candidates(r *http.Request) []service.Candidate {
	list, err := s.docs.Candidates(r.Context(), "")
	if err != nil {
		s.logger.Warn("candidate discovery failed", slog.String("error", err.Error()))
		return nil
	}
	return list
}

// render executes the page into a buffer so template errors never produce a
// half-written response.
func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.logger.Error("rendering page failed", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
