package http

import (
	"errors"
	"net/http"

	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every non-2xx answer. Kind is stable and
// meant for clients to branch on; Message is for humans.
type ErrorResponse struct {
	Code          int     `json:"code"`
	Kind          string  `json:"kind"`
	Message       string  `json:"message"`
	CurrentStatus *string `json:"currentStatus,omitempty"`
}

func statusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindInvalidState, errs.KindAlreadyTaken:
		return http.StatusConflict
	case errs.KindUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c echo.Context, err error) error {
	kind := errs.KindOf(err)
	code := statusOf(kind)

	body := ErrorResponse{Code: code, Kind: string(kind), Message: err.Error()}
	if current, ok := errs.CurrentStatus(err); ok {
		body.CurrentStatus = &current
	}

	if code >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "kind", body.Kind, "error", err)
		body.Message = http.StatusText(code)
	}

	return c.JSON(code, body)
}

// badRequest wraps a transport-level decoding failure as a validation error.
func badRequest(param string, err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Internal != nil {
		err = httpErr.Internal
	}
	return errs.NewValueIsInvalidErrorWithCause(param, err)
}
