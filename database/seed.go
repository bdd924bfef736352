package database

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/coffeeshop-server/models"
	"github.com/yeremiapane/coffeeshop-server/utils"
)

func demoCatalogue() []models.Product {
	return []models.Product{
		{Name: "Espresso", Price: decimal.RequireFromString("2.50"), Description: "Single shot", Stock: 200},
		{Name: "Cappuccino", Price: decimal.RequireFromString("3.50"), Description: "Espresso, steamed milk, foam", Stock: 150},
		{Name: "Latte", Price: decimal.RequireFromString("3.80"), Description: "Espresso with steamed milk", Stock: 150},
		{Name: "Cold Brew", Price: decimal.RequireFromString("4.20"), Description: "Steeped 18 hours", Stock: 60},
		{Name: "Croissant", Price: decimal.RequireFromString("2.90"), Description: "Butter croissant", Stock: 40},
	}
}

// Seed inserts the demo catalogue when the products table is empty.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		utils.InfoLogger.Printf("Seed skipped, %d products present", count)
		return nil
	}

	products := demoCatalogue()
	if err := db.Create(&products).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded %d products", len(products))
	return nil
}
