package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/coffeeshop-server/utils"
)

type idRequest struct {
	ID uint `json:"id"`
}

// bindRequest decodes the JSON body into req and answers with the error
// envelope when the body does not fit.
func bindRequest(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.RespondError(c, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}
