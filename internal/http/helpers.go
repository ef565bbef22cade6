package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/books-api/internal/database"
	"github.com/mrlokans/books-api/internal/schema"
)

// MaxBodyBytes caps request bodies accepted by the JSON decoders.
const MaxBodyBytes = 1 << 20

// Machine-readable error codes.
const (
	CodeInvalidBody      = "invalid_body"
	CodeValidationFailed = "validation_failed"
	CodeNotFound         = "not_found"
	CodeDuplicateISBN    = "duplicate_isbn"
	CodeInternal         = "internal_error"
	CodeInvalidParameter = "invalid_parameter"
)

var (
	errNotAnObject   = errors.New("request body must be a JSON object")
	errEnqueueFailed = errors.New("task could not be enqueued")
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
// Error is a single message or, for validation failures, the list of violations.
type ErrorResponse struct {
	Error any    `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message, code string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: code})
}

// respondValidationError sends a 400 response listing every violation.
func respondValidationError(c *gin.Context, violations schema.Violations) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: violations.Messages(), Code: CodeValidationFailed})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: CodeNotFound})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	slog.Error("internal error", "context", context, "error", err, "request_id", GetRequestID(c))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal})
}

// recoverWithEnvelope answers a recovered panic with the standard 500 envelope.
func recoverWithEnvelope(c *gin.Context, recovered any) {
	respondInternalError(c, fmt.Errorf("panic: %v", recovered), "recovery")
	c.Abort()
}

// respondStoreError maps validation and repository errors onto the envelope.
func respondStoreError(c *gin.Context, err error, context string) {
	if violations, ok := schema.IsViolation(err); ok {
		respondValidationError(c, violations)
		return
	}

	switch {
	case errors.Is(err, database.ErrNotFound):
		respondNotFound(c, "book")
	case errors.Is(err, database.ErrConflict):
		respondBadRequest(c, "a book with this isbn already exists", CodeDuplicateISBN)
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Request Parsing ---

// decodeJSONObject reads the request body as a single JSON object. Numbers
// stay json.Number so integer fields can be checked without float rounding.
func decodeJSONObject(c *gin.Context) (map[string]any, error) {
	dec := json.NewDecoder(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, errNotAnObject
	}
	if payload == nil {
		return nil, errNotAnObject
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errNotAnObject
	}
	return payload, nil
}

// bindPayload decodes the body or responds with 400 and returns false.
func bindPayload(c *gin.Context) (map[string]any, bool) {
	payload, err := decodeJSONObject(c)
	if err != nil {
		respondBadRequest(c, err.Error(), CodeInvalidBody)
		return nil, false
	}
	return payload, true
}

// parseLimitOffset reads the limit and offset query parameters.
// Returns false after responding with 400 when either is malformed.
func parseLimitOffset(c *gin.Context, defaultLimit, maxLimit int) (limit, offset int, ok bool) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		respondBadRequest(c, "invalid limit", CodeInvalidParameter)
		return 0, 0, false
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		respondBadRequest(c, "invalid offset", CodeInvalidParameter)
		return 0, 0, false
	}
	return limit, offset, true
}
