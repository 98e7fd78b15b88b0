package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hugo-lorenzo-mato/docfix/internal/core"
)

func httpStatusForDomainError(err error) (int, bool) {
	var domErr *core.DomainError
	if !errors.As(err, &domErr) || domErr == nil {
		return 0, false
	}

	switch domErr.Category {
	case core.ErrCatValidation:
		return http.StatusUnprocessableEntity, true
	case core.ErrCatNotFound:
		return http.StatusNotFound, true
	case core.ErrCatUnavailable:
		return http.StatusServiceUnavailable, true
	default:
		return http.StatusInternalServerError, true
	}
}

// handleError logs err and answers with a short message. Only validation and
// not-found messages are passed through to the client.
func (s *Server) handleError(w http.ResponseWriter, err error) {
	status, ok := httpStatusForDomainError(err)
	if !ok {
		status = http.StatusInternalServerError
	}
	message := http.StatusText(status)
	var domErr *core.DomainError
	if errors.As(err, &domErr) && (domErr.Category == core.ErrCatValidation || domErr.Category == core.ErrCatNotFound) {
		message = domErr.Message
	}

	s.logger.Warn("api request failed",
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)
	respondError(w, status, message)
}
