package errors

import (
	"net/http"

	"github.com/merchdesk/merchdesk/internal/app/backend"
	"go.uber.org/zap"
)

// ErrorLogger pairs structured logging with a user-facing error page,
// so handlers can report failures in one call.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) render(w http.ResponseWriter, r *http.Request, status int, userMsg, backURL string) {
	w.WriteHeader(status)
	RenderForbidden(w, r, userMsg, backURL)
}

// LogBadRequest logs a client error and renders userMsg with a 400.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, op string, err error, userMsg, backURL string) {
	e.log.Warn(op,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.Int("status", http.StatusBadRequest))
	e.render(w, r, http.StatusBadRequest, userMsg, backURL)
}

// LogServerError logs an internal failure and renders userMsg with a 500.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, op string, err error, userMsg, backURL string) {
	e.log.Error(op,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.Int("status", http.StatusInternalServerError))
	e.render(w, r, http.StatusInternalServerError, userMsg, backURL)
}

// LogNotFound logs a missing-record lookup and renders userMsg with a 404.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, op string, err error, userMsg, backURL string) {
	e.log.Warn(op,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.Int("status", http.StatusNotFound))
	e.render(w, r, http.StatusNotFound, userMsg, backURL)
}

// LogBackendError classifies an error from the commerce backend:
// not-found renders a 404 page, anything else a 500, and the server's
// message is preferred over the fallback when one exists.
func (e *ErrorLogger) LogBackendError(w http.ResponseWriter, r *http.Request, op string, err error, fallback, backURL string) {
	msg := backend.UserMessage(err, fallback)
	if backend.IsNotFound(err) {
		e.LogNotFound(w, r, op, err, msg, backURL)
		return
	}
	e.LogServerError(w, r, op, err, msg, backURL)
}
