package database

import (
	"gorm.io/gorm"

	"github.com/yeremiapane/coffeeshop-server/models"
	"github.com/yeremiapane/coffeeshop-server/utils"
)

// Migrate creates or updates the products, customers, employees, orders and
// order_items tables.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Product{},
		&models.Customer{},
		&models.Employee{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
