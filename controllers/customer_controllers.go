package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/coffeeshop-server/models"
	"github.com/yeremiapane/coffeeshop-server/utils"
)

type CustomerController struct {
	DB *gorm.DB
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{DB: db}
}

type customerRequest struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// AddCustomer -> POST /api/customers/add
func (cc *CustomerController) AddCustomer(c *gin.Context) {
	var req customerRequest
	if !bindRequest(c, &req) {
		return
	}

	customer := models.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := cc.DB.WithContext(c.Request.Context()).Create(&customer).Error; err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.InfoLogger.Printf("New customer created (ID=%d)", customer.ID)
	utils.RespondJSON(c, nil)
}

// EditCustomer -> POST /api/customers/edit
func (cc *CustomerController) EditCustomer(c *gin.Context) {
	var req customerRequest
	if !bindRequest(c, &req) {
		return
	}

	err := cc.DB.WithContext(c.Request.Context()).
		Model(&models.Customer{}).
		Where("id = ?", req.ID).
		Updates(map[string]interface{}{
			"name":    req.Name,
			"email":   req.Email,
			"phone":   req.Phone,
			"address": req.Address,
		}).Error
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, nil)
}

// DeleteCustomer -> POST /api/customers/delete
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	var req idRequest
	if !bindRequest(c, &req) {
		return
	}

	if err := cc.DB.WithContext(c.Request.Context()).Where("id = ?", req.ID).Delete(&models.Customer{}).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, nil)
}

// GetCustomers -> GET /api/customers/get
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	customers := make([]models.Customer, 0)
	if err := cc.DB.WithContext(c.Request.Context()).Order("id asc").Find(&customers).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, gin.H{"customers": customers})
}
