package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RespondJSON writes a success envelope. Extra payload keys (products,
// order_id, ...) sit next to "status" at the top level.
func RespondJSON(c *gin.Context, payload gin.H) {
	body := gin.H{"status": StatusSuccess}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// RespondError writes an error envelope. The transport status stays 200;
// clients only look at the "status" field.
func RespondError(c *gin.Context, err error) {
	c.JSON(http.StatusOK, gin.H{
		"status":  StatusError,
		"message": err.Error(),
	})
}
