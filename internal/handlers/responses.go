package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every not-found/forbidden/validation branch is terminal: exactly one
// response per request, and no write ever happens after a failed check.

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"message": message})
}

func respondForbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
}

func respondValidation(c *gin.Context, errs map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "Validation Error", "errors": errs})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}

func respondServerError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}
