package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"budgetbloom/internal/auth"
	"budgetbloom/internal/core"
	"budgetbloom/internal/log"
)

// ResponseBuilder provides a fluent API for building JSON responses.
type ResponseBuilder struct {
	statusCode  int
	headers     map[string]string
	payload     any
	raw         []byte
	contentType string
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// JSON sets v as the body, encoded when the response is written.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	b.payload = v
	b.raw = nil
	return b
}

// Bytes sets a pre-encoded body of the given content type.
func (b *ResponseBuilder) Bytes(contentType string, body []byte) *ResponseBuilder {
	b.contentType = contentType
	b.raw = body
	b.payload = nil
	return b
}

// Write sends the built response. An encoding failure becomes a 500.
func (b *ResponseBuilder) Write(w http.ResponseWriter, r *http.Request) {
	body := b.raw
	contentType := b.contentType
	if body == nil && b.payload != nil {
		encoded, err := json.Marshal(b.payload)
		if err != nil {
			log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to encode response", log.FieldError, err.Error())
			http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
			return
		}
		body = append(encoded, '\n')
		contentType = "application/json; charset=utf-8"
	}

	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(b.statusCode)
	if len(body) > 0 {
		_, _ = w.Write(body)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

// ErrorResponse creates the standard {"error": message} response.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewResponse().Status(statusCode).JSON(errorBody{Error: message})
}

// MessageResponse creates a {"message": message} response.
func MessageResponse(statusCode int, message string) *ResponseBuilder {
	return NewResponse().Status(statusCode).JSON(messageBody{Message: message})
}

// errorMessages are the client-facing texts for one route. Empty fields
// fall back to the error's own text.
type errorMessages struct {
	operation string
	failure   string
	notFound  string
	forbidden string
	conflict  string
	// conflictStatus defaults to 409.
	conflictStatus int
}

// writeServiceError maps the error taxonomy to a status code. Unexpected
// errors are logged with their cause and answered with msgs.failure only.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, msgs errorMessages) {
	status, message := http.StatusInternalServerError, msgs.failure

	var (
		validation *core.ValidationError
		notFound   *core.NotFoundError
		forbidden  *core.ForbiddenError
		conflict   *core.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		status, message = http.StatusBadRequest, validation.Error()
	case errors.As(err, &notFound):
		status, message = http.StatusNotFound, fallback(msgs.notFound, notFound.Error())
	case errors.As(err, &forbidden):
		status, message = http.StatusForbidden, fallback(msgs.forbidden, "Forbidden")
	case errors.As(err, &conflict):
		status, message = http.StatusConflict, fallback(msgs.conflict, conflict.Message)
		if msgs.conflictStatus != 0 {
			status = msgs.conflictStatus
		}
	case errors.Is(err, auth.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Invalid email or password"
	default:
		if message == "" {
			message = "Internal server error"
		}
		fields := log.NewFields()
		if owner, ok := auth.UserIDFromContext(r.Context()); ok {
			fields = fields.WithUser(owner)
		}
		log.NewStructuredLogger(log.FromContext(r.Context())).
			LogError(r.Context(), message, err, log.ComponentHTTP, msgs.operation, fields)
	}

	ErrorResponse(status, message).Write(w, r)
}

func fallback(preferred, alt string) string {
	if preferred != "" {
		return preferred
	}
	return alt
}
