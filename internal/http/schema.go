package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SchemaController exposes the active payload description.
type SchemaController struct {
	validator BookValidator
}

func NewSchemaController(validator BookValidator) *SchemaController {
	return &SchemaController{validator: validator}
}

// Get handles GET /schema
func (sc *SchemaController) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"schema": sc.validator.Schema()})
}
