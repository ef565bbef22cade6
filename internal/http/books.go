package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/books-api/internal/audit"
)

// BooksController serves the /books resource.
type BooksController struct {
	store     BookStore
	validator BookValidator
	recorder  ChangeRecorder
}

// NewBooksController creates the controller. recorder may be nil when the
// audit trail is disabled.
func NewBooksController(store BookStore, validator BookValidator, recorder ChangeRecorder) *BooksController {
	return &BooksController{
		store:     store,
		validator: validator,
		recorder:  recorder,
	}
}

// List handles GET /books
func (bc *BooksController) List(c *gin.Context) {
	books, err := bc.store.ListAll(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

// Get handles GET /books/:isbn
func (bc *BooksController) Get(c *gin.Context) {
	book, err := bc.store.FindByISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		respondStoreError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, gin.H{"book": book})
}

// Create handles POST /books
// The payload is validated in full before anything is written.
func (bc *BooksController) Create(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	book, err := bc.validator.ValidateCreate(payload)
	if err != nil {
		respondStoreError(c, err, "validate book")
		return
	}

	created, err := bc.store.Create(c.Request.Context(), book)
	if err != nil {
		respondStoreError(c, err, "create book")
		return
	}

	if bc.recorder != nil {
		bc.recorder.LogCreate(*created, requestMeta(c))
	}
	respondCreated(c, gin.H{"book": created})
}

// Update handles PUT /books/:isbn
// Only the supplied fields change; the isbn in the path addresses the row.
func (bc *BooksController) Update(c *gin.Context) {
	isbn := c.Param("isbn")

	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	patch, err := bc.validator.ValidateUpdate(isbn, payload)
	if err != nil {
		respondStoreError(c, err, "validate book")
		return
	}

	updated, err := bc.store.Update(c.Request.Context(), isbn, patch)
	if err != nil {
		respondStoreError(c, err, "update book")
		return
	}

	if bc.recorder != nil && !patch.IsEmpty() {
		bc.recorder.LogUpdate(*updated, patch.Fields(), requestMeta(c))
	}
	c.JSON(http.StatusOK, gin.H{"book": updated})
}

// Delete handles DELETE /books/:isbn
func (bc *BooksController) Delete(c *gin.Context) {
	isbn := c.Param("isbn")

	if err := bc.store.Delete(c.Request.Context(), isbn); err != nil {
		respondStoreError(c, err, "delete book")
		return
	}

	if bc.recorder != nil {
		bc.recorder.LogDelete(isbn, requestMeta(c))
	}
	respondSuccess(c, "Book deleted")
}

func requestMeta(c *gin.Context) audit.Meta {
	return audit.Meta{
		RequestID: GetRequestID(c),
		IPAddress: c.ClientIP(),
	}
}
