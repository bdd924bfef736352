package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/coffeeshop-server/services"
	"github.com/yeremiapane/coffeeshop-server/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

type orderLineRequest struct {
	ProductID uint             `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Price     *decimal.Decimal `json:"price"`
}

// createOrderRequest accepts the item list under "items" or, as older POS
// clients send it, under "products". Per line, "unit_price" wins over "price".
type createOrderRequest struct {
	CustomerID uint               `json:"customer_id"`
	Items      []orderLineRequest `json:"items"`
	Products   []orderLineRequest `json:"products"`
}

func (r createOrderRequest) lineItems() []services.LineItem {
	lines := r.Items
	if len(lines) == 0 {
		lines = r.Products
	}

	items := make([]services.LineItem, 0, len(lines))
	for _, line := range lines {
		price := decimal.Zero
		switch {
		case line.UnitPrice != nil:
			price = *line.UnitPrice
		case line.Price != nil:
			price = *line.Price
		}
		items = append(items, services.LineItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: price,
		})
	}
	return items
}

type orderStatusRequest struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status" binding:"required"`
}

// CreateOrder -> POST /api/orders/create
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if !bindRequest(c, &req) {
		return
	}

	order, err := oc.Orders.CreateOrder(c.Request.Context(), req.CustomerID, req.lineItems())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, gin.H{"order_id": order.ID})
}

// ProcessOrder -> POST /api/orders/process (guarded, syncs inventory on Completed)
func (oc *OrderController) ProcessOrder(c *gin.Context) {
	var req orderStatusRequest
	if !bindRequest(c, &req) {
		return
	}

	if err := oc.Orders.TransitionStatus(c.Request.Context(), req.OrderID, req.Status); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, nil)
}

// UpdateOrderStatus -> POST /api/orders/update. No terminal-state guard and no
// inventory effect; see ProcessOrder for the guarded path.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req orderStatusRequest
	if !bindRequest(c, &req) {
		return
	}

	if err := oc.Orders.SetStatus(c.Request.Context(), req.OrderID, req.Status); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, nil)
}

// GetOrders -> GET /api/orders/get
func (oc *OrderController) GetOrders(c *gin.Context) {
	orders, err := oc.Orders.ListOrders(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, gin.H{"orders": orders})
}
