package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/coffeeshop-server/models"
	"github.com/yeremiapane/coffeeshop-server/utils"
)

type EmployeeController struct {
	DB *gorm.DB
}

func NewEmployeeController(db *gorm.DB) *EmployeeController {
	return &EmployeeController{DB: db}
}

type employeeRequest struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Position string          `json:"position"`
	Salary   decimal.Decimal `json:"salary"`
	Role     string          `json:"role"`
}

// AddEmployee -> POST /api/employees/add
func (ec *EmployeeController) AddEmployee(c *gin.Context) {
	var req employeeRequest
	if !bindRequest(c, &req) {
		return
	}

	employee := models.Employee{
		Name:     req.Name,
		Position: req.Position,
		Salary:   req.Salary,
		Role:     req.Role,
	}
	if err := ec.DB.WithContext(c.Request.Context()).Create(&employee).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, nil)
}

// EditEmployee -> POST /api/employees/edit
func (ec *EmployeeController) EditEmployee(c *gin.Context) {
	var req employeeRequest
	if !bindRequest(c, &req) {
		return
	}

	err := ec.DB.WithContext(c.Request.Context()).
		Model(&models.Employee{}).
		Where("id = ?", req.ID).
		Updates(map[string]interface{}{
			"name":     req.Name,
			"position": req.Position,
			"salary":   req.Salary,
			"role":     req.Role,
		}).Error
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, nil)
}

// DeleteEmployee -> POST /api/employees/delete
func (ec *EmployeeController) DeleteEmployee(c *gin.Context) {
	var req idRequest
	if !bindRequest(c, &req) {
		return
	}

	if err := ec.DB.WithContext(c.Request.Context()).Where("id = ?", req.ID).Delete(&models.Employee{}).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, nil)
}

// GetEmployees -> GET /api/employees/get
func (ec *EmployeeController) GetEmployees(c *gin.Context) {
	employees := make([]models.Employee, 0)
	if err := ec.DB.WithContext(c.Request.Context()).Order("id asc").Find(&employees).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, gin.H{"employees": employees})
}
