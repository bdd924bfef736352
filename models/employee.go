package models

import "github.com/shopspring/decimal"

type Employee struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	Name     string          `gorm:"type:varchar(255);not null" json:"name"`
	Position string          `gorm:"type:varchar(100)" json:"position"`
	Salary   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"salary"`
	Role     string          `gorm:"type:varchar(50)" json:"role"`
}
