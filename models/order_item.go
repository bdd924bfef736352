package models

import "github.com/shopspring/decimal"

// OrderItem is one line of an order. Rows are written once, together with
// their order, and never updated.
type OrderItem struct {
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"column:total;type:decimal(10,2);not null" json:"line_total"`
}
