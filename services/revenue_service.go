package services

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/coffeeshop-server/models"
)

const reportDateLayout = "2006-01-02"

type RevenueEntry struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

type RevenueService struct {
	db *gorm.DB
}

func NewRevenueService(db *gorm.DB) *RevenueService {
	return &RevenueService{db: db}
}

// Report sums the totals of Completed orders per creation date, oldest date first.
func (s *RevenueService) Report(ctx context.Context) ([]RevenueEntry, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Select("id", "total", "created_at").
		Where("status = ?", models.OrderStatusCompleted).
		Order("created_at asc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	report := make([]RevenueEntry, 0)
	for _, order := range orders {
		date := order.CreatedAt.Format(reportDateLayout)
		if n := len(report); n > 0 && report[n-1].Date == date {
			report[n-1].Total = report[n-1].Total.Add(order.Total)
			continue
		}
		report = append(report, RevenueEntry{Date: date, Total: order.Total})
	}
	return report, nil
}
