package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status order
const (
	OrderStatusPending   = "Pending"
	OrderStatusCompleted = "Completed"
	OrderStatusCancelled = "Cancelled"
)

// TerminalStatuses are the statuses an order never leaves through the guarded transition.
var TerminalStatuses = []string{OrderStatusCompleted, OrderStatusCancelled}

type Order struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CustomerID uint            `gorm:"not null;index" json:"customer_id"`
	Total      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total"`
	Status     string          `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	CreatedAt  time.Time       `gorm:"type:date;not null" json:"created_at"`
	OrderItems []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// IsTerminalStatus reports whether status is Completed or Cancelled.
func IsTerminalStatus(status string) bool {
	return status == OrderStatusCompleted || status == OrderStatusCancelled
}

// IsKnownStatus reports whether status is one of the three lifecycle statuses.
func IsKnownStatus(status string) bool {
	return status == OrderStatusPending || IsTerminalStatus(status)
}
