// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/brunocaldas/portfoliohub/internal/app/system/jsonutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorLogger wraps the zap logger for error logging. Each logged incident
// gets a short reference id that is safe to echo to the client; the real
// error stays in the logs.
type ErrorLogger struct {
	logger *zap.Logger
}

// NewErrorLogger creates a new ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{logger: logger}
}

// Log logs an error with the given message and error.
// Returns the incident reference id.
func (e *ErrorLogger) Log(r *http.Request, msg string, err error) string {
	ref := uuid.New().String()[:8]
	e.logger.Error(msg,
		zap.Error(err),
		zap.String("ref", ref),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)
	return ref
}

// LogWithFields logs an error with additional fields.
// Returns the incident reference id.
func (e *ErrorLogger) LogWithFields(r *http.Request, msg string, err error, fields ...zap.Field) string {
	ref := uuid.New().String()[:8]
	allFields := append([]zap.Field{
		zap.Error(err),
		zap.String("ref", ref),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	}, fields...)
	e.logger.Error(msg, allFields...)
	return ref
}

// ServerError logs the error and writes a 500 JSON response carrying only
// the reference id. Internal details never reach the client.
func (e *ErrorLogger) ServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ref := e.Log(r, msg, err)
	jsonutil.JSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
		"ref":   ref,
	})
}
