package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/ideapool/internal/common"
	"github.com/dmitrijs2005/ideapool/internal/server/validation"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Errors validation.Errors `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve validation.Errors
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, validationResponse{Errors: ve})
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
		writeJSON(w, status, errorResponse{Error: common.ErrInternal.Error()})
		return
	}

	writeJSON(w, status, errorResponse{Error: rootMessage(err)})
}

// rootMessage returns the message of the sentinel err wraps, hiding details
// such as the email in a conflict.
func rootMessage(err error) string {
	for _, sentinel := range []error{
		common.ErrConflict,
		common.ErrAuthenticationFailed,
		common.ErrUnauthenticated,
		common.ErrUnauthorized,
		common.ErrForbidden,
		common.ErrNotFound,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// decodeJSON reads a JSON object into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return invalidBody()
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return invalidBody()
	}
	return nil
}

func invalidBody() error {
	ve := validation.Errors{}
	ve.Add("body", "Invalid JSON.")
	return ve
}
