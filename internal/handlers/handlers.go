package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ccis-go/internal/ccis"
	sess "ccis-go/internal/session"
)

// respondDomainError maps the two domain error kinds onto HTTP statuses:
// validation failures are the caller's bad input (400), state violations are
// conflicts with the aggregate's current lifecycle (409).
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ccis.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, sess.ErrStateViolation):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
