package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 25
	maxHistoryLimit     = 200
)

type AuditController struct {
	history HistoryReader
}

func NewAuditController(history HistoryReader) *AuditController {
	return &AuditController{history: history}
}

// BookHistory returns the recorded changes of one book, newest first.
// GET /books/:isbn/history?limit=&offset=
func (ac *AuditController) BookHistory(c *gin.Context) {
	limit, offset, ok := parseLimitOffset(c, defaultHistoryLimit, maxHistoryLimit)
	if !ok {
		return
	}

	events, total, err := ac.history.History(c.Request.Context(), c.Param("isbn"), limit, offset)
	if err != nil {
		respondInternalError(c, err, "book history")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    events,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(events)) < total,
	})
}
