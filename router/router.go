package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/coffeeshop-server/controllers"
	"github.com/yeremiapane/coffeeshop-server/middlewares"
	"github.com/yeremiapane/coffeeshop-server/services"
)

type Options struct {
	// AtomicOrderWrites wraps multi-statement order writes in a transaction.
	AtomicOrderWrites bool
	// Cache is optional; nil disables catalog caching.
	Cache *services.CatalogCache
}

// SetupRouter binds every operation on its exact path. Routes answer any
// standard method; an unknown path gets a bare 404 which the TCP layer turns
// into a dropped connection.
func SetupRouter(db *gorm.DB, opts Options) *gin.Engine {
	r := gin.New()
	// exact-string matching: no trailing-slash or case-fixing redirects
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.HandleMethodNotAllowed = false

	r.Use(middlewares.Recovery())
	r.Use(middlewares.LoggerMiddleware())

	orderService := services.NewOrderService(db, opts.AtomicOrderWrites, opts.Cache)
	revenueService := services.NewRevenueService(db)

	productCtrl := controllers.NewProductController(db, opts.Cache)
	orderCtrl := controllers.NewOrderController(orderService)
	customerCtrl := controllers.NewCustomerController(db)
	revenueCtrl := controllers.NewRevenueController(revenueService)
	employeeCtrl := controllers.NewEmployeeController(db)

	api := r.Group("/api")
	{
		products := api.Group("/products")
		products.Any("/add", productCtrl.AddProduct)
		products.Any("/edit", productCtrl.EditProduct)
		products.Any("/delete", productCtrl.DeleteProduct)
		products.Any("/get", productCtrl.GetProducts)

		orders := api.Group("/orders")
		orders.Any("/create", orderCtrl.CreateOrder)
		orders.Any("/process", orderCtrl.ProcessOrder)
		orders.Any("/update", orderCtrl.UpdateOrderStatus)
		orders.Any("/get", orderCtrl.GetOrders)

		customers := api.Group("/customers")
		customers.Any("/add", customerCtrl.AddCustomer)
		customers.Any("/edit", customerCtrl.EditCustomer)
		customers.Any("/delete", customerCtrl.DeleteCustomer)
		customers.Any("/get", customerCtrl.GetCustomers)

		api.Any("/revenue/report", revenueCtrl.GetRevenueReport)

		employees := api.Group("/employees")
		employees.Any("/add", employeeCtrl.AddEmployee)
		employees.Any("/edit", employeeCtrl.EditEmployee)
		employees.Any("/delete", employeeCtrl.DeleteEmployee)
		employees.Any("/get", employeeCtrl.GetEmployees)
	}

	r.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return r
}
