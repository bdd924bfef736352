package models

import "github.com/shopspring/decimal"

// Product is a sellable catalogue entry. Stock only moves when an order
// is completed through the guarded transition.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string          `gorm:"column:image_url;type:varchar(255)" json:"image_url"`
	Description string          `gorm:"type:text" json:"description"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
}

func init() {
	// prices go over the wire as JSON numbers, the way the POS clients send them
	decimal.MarshalJSONWithoutQuotes = true
}
