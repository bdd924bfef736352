package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/coffeeshop-server/models"
	"github.com/yeremiapane/coffeeshop-server/utils"
)

var (
	ErrOrderNotFound     = errors.New("Order not found or query failed")
	ErrInvalidTransition = errors.New("Cannot process an order that is already completed or cancelled")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInvalidQuantity   = errors.New("item quantity must be greater than zero")
	ErrUnknownStatus     = errors.New("unknown order status")
)

// moneyPlaces matches the decimal(10,2) money columns.
const moneyPlaces = 2

// LineItem is one requested product line of a new order.
type LineItem struct {
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
}

// LineTotal is quantity × unit price.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderTotal sums the line totals in the order the items are given.
func OrderTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// OrderService owns the order lifecycle: creation with computed totals,
// the guarded transition that syncs inventory, and the unguarded status update.
type OrderService struct {
	db     *gorm.DB
	atomic bool
	cache  *CatalogCache
	now    func() time.Time
}

// NewOrderService returns an OrderService. With atomic=false every statement
// of a multi-step write commits on its own and nothing is rolled back when a
// later step fails.
func NewOrderService(db *gorm.DB, atomic bool, cache *CatalogCache) *OrderService {
	return &OrderService{
		db:     db,
		atomic: atomic,
		cache:  cache,
		now:    time.Now,
	}
}

// run executes fn inside a transaction when atomic writes are enabled.
func (s *OrderService) run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	db := s.db.WithContext(ctx)
	if s.atomic {
		return db.Transaction(fn)
	}
	return fn(db)
}

func (s *OrderService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// CreateOrder writes a Pending order and one OrderItem row per item.
func (s *OrderService) CreateOrder(ctx context.Context, customerID uint, items []LineItem) (*models.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	priced := make([]LineItem, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w (product %d)", ErrInvalidQuantity, item.ProductID)
		}
		// stored line totals must add up to the stored order total
		item.UnitPrice = item.UnitPrice.Round(moneyPlaces)
		priced[i] = item
	}
	items = priced

	order := models.Order{
		CustomerID: customerID,
		Total:      OrderTotal(items),
		Status:     models.OrderStatusPending,
		CreatedAt:  s.today(),
	}

	err := s.run(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, item := range items {
			line := models.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				LineTotal: item.LineTotal(),
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
			order.OrderItems = append(order.OrderItems, line)
		}
		return nil
	})
	if err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"customer_id": customerID,
			"order_id":    order.ID,
			"atomic":      s.atomic,
		}).Errorf("create order failed: %v", err)
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"total":    order.Total.StringFixed(2),
		"items":    len(items),
	}).Info("order created")
	return &order, nil
}

// TransitionStatus is the guarded transition: terminal orders are rejected and
// moving into Completed decrements stock once per order item.
func (s *OrderService) TransitionStatus(ctx context.Context, orderID uint, newStatus string) error {
	if !models.IsKnownStatus(newStatus) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, newStatus)
	}

	err := s.run(ctx, func(tx *gorm.DB) error {
		current, err := currentStatus(tx, orderID)
		if err != nil {
			return err
		}
		if models.IsTerminalStatus(current) {
			return ErrInvalidTransition
		}

		// the status predicate keeps two concurrent completions from both passing
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status NOT IN ?", orderID, models.TerminalStatuses).
			Update("status", newStatus)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		if newStatus != models.OrderStatusCompleted {
			return nil
		}
		return decrementInventory(tx, orderID)
	})

	if newStatus == models.OrderStatusCompleted {
		s.cache.Invalidate(ctx)
	}
	if err != nil {
		return err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": orderID,
		"status":   newStatus,
	}).Info("order processed")
	return nil
}

// SetStatus overwrites the status of an existing order. Unlike
// TransitionStatus it accepts terminal orders and never touches inventory.
func (s *OrderService) SetStatus(ctx context.Context, orderID uint, newStatus string) error {
	if !models.IsKnownStatus(newStatus) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, newStatus)
	}

	db := s.db.WithContext(ctx)
	if _, err := currentStatus(db, orderID); err != nil {
		return err
	}
	if err := db.Model(&models.Order{}).Where("id = ?", orderID).Update("status", newStatus).Error; err != nil {
		return err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": orderID,
		"status":   newStatus,
	}).Info("order status updated")
	return nil
}

// GetOrder returns an order with its items.
func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns every order with its items, oldest first.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	if err := s.db.WithContext(ctx).Preload("OrderItems").Order("id asc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func currentStatus(db *gorm.DB, orderID uint) (string, error) {
	var order models.Order
	err := db.Select("id", "status").Where("id = ?", orderID).Take(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrOrderNotFound
	}
	if err != nil {
		return "", err
	}
	return order.Status, nil
}

func decrementInventory(tx *gorm.DB, orderID uint) error {
	var lines []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&lines).Error; err != nil {
		return err
	}

	for _, line := range lines {
		res := tx.Model(&models.Product{}).
			Where("id = ?", line.ProductID).
			Update("stock", gorm.Expr("stock - ?", line.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			utils.InfoLogger.WithFields(logrus.Fields{
				"order_id":   orderID,
				"product_id": line.ProductID,
			}).Warn("stock decrement skipped, product not found")
		}
	}
	return nil
}
