// Package apierror defines the JSON error contract shared by every endpoint
// and the echo error handler that enforces it.
package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Kind is the machine-readable error label carried in every error body.
type Kind string

const (
	KindBadRequest  Kind = "bad_request"
	KindNotFound    Kind = "not_found"
	KindTimeout     Kind = "timeout"
	KindRateLimited Kind = "rate_limited"
	KindInternal    Kind = "internal_error"
)

// Messages returned to clients for the distinguished failure kinds.
const (
	MsgInternal = "An unexpected error occurred"
	MsgTimeout  = "The query took too long to complete. Please try simplifying your search criteria."
	MsgNotFound = "Provider not found"
)

// Body is the error response body.
type Body struct {
	Error   Kind   `json:"error"`
	Message string `json:"message"`
}

// New returns an *echo.HTTPError carrying a Body.
func New(status int, kind Kind, message string) *echo.HTTPError {
	return echo.NewHTTPError(status, Body{Error: kind, Message: message})
}

func NotFound(message string) *echo.HTTPError {
	return New(http.StatusNotFound, KindNotFound, message)
}

func BadRequest(message string) *echo.HTTPError {
	return New(http.StatusBadRequest, KindBadRequest, message)
}

func Timeout(message string) *echo.HTTPError {
	return New(http.StatusRequestTimeout, KindTimeout, message)
}

// Internal wraps err as a generic 500. The cause is kept for logging only.
func Internal(err error) *echo.HTTPError {
	return New(http.StatusInternalServerError, KindInternal, MsgInternal).SetInternal(err)
}

// KindForStatus derives an error kind from an HTTP status code.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusRequestTimeout:
		return KindTimeout
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindInternal
	default:
		return KindBadRequest
	}
}

// Resolve converts any error into a status and Body. Unknown errors become
// a 500 whose message never includes the underlying cause.
func Resolve(err error) (int, Body) {
	var be *echo.BindingError
	if errors.As(err, &be) && be.HTTPError != nil {
		return be.Code, Body{Error: KindBadRequest, Message: "invalid value for parameter " + be.Field}
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		return http.StatusInternalServerError, Body{Error: KindInternal, Message: MsgInternal}
	}

	status := he.Code
	switch m := he.Message.(type) {
	case Body:
		return status, m
	case *Body:
		return status, *m
	case string:
		if status >= 500 {
			m = MsgInternal
		}
		return status, Body{Error: KindForStatus(status), Message: m}
	default:
		msg := http.StatusText(status)
		if status >= 500 {
			msg = MsgInternal
		} else if m != nil {
			msg = fmt.Sprint(m)
		}
		return status, Body{Error: KindForStatus(status), Message: msg}
	}
}

// Handler returns an echo.HTTPErrorHandler that writes every failure as a
// Body. Server-side failures are logged with their cause; client errors are
// not.
func Handler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := Resolve(err)
		if status >= 500 {
			cause := err
			var he *echo.HTTPError
			if errors.As(err, &he) && he.Internal != nil {
				cause = he.Internal
			}
			rid, _ := c.Get("request_id").(string)
			logger.Error().
				Err(cause).
				Str("request_id", rid).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("write error response")
		}
	}
}
