package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/coffeeshop-server/services"
	"github.com/yeremiapane/coffeeshop-server/utils"
)

type RevenueController struct {
	Revenue *services.RevenueService
}

func NewRevenueController(revenue *services.RevenueService) *RevenueController {
	return &RevenueController{Revenue: revenue}
}

// GetRevenueReport -> GET /api/revenue/report
func (rc *RevenueController) GetRevenueReport(c *gin.Context) {
	report, err := rc.Revenue.Report(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, gin.H{"revenue_report": report})
}
