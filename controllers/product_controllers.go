package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/coffeeshop-server/models"
	"github.com/yeremiapane/coffeeshop-server/services"
	"github.com/yeremiapane/coffeeshop-server/utils"
)

type ProductController struct {
	DB    *gorm.DB
	Cache *services.CatalogCache
}

func NewProductController(db *gorm.DB, cache *services.CatalogCache) *ProductController {
	return &ProductController{DB: db, Cache: cache}
}

// productRequest: absent fields are zero. Stock is only read by AddProduct.
type productRequest struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Description string          `json:"description"`
	Stock       int             `json:"stock"`
}

// AddProduct -> POST /api/products/add
func (pc *ProductController) AddProduct(c *gin.Context) {
	var req productRequest
	if !bindRequest(c, &req) {
		return
	}

	product := models.Product{
		Name:        req.Name,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		Stock:       req.Stock,
	}
	if err := pc.DB.WithContext(c.Request.Context()).Create(&product).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	pc.Cache.Invalidate(c.Request.Context())

	utils.InfoLogger.Printf("Product created (ID=%d)", product.ID)
	utils.RespondJSON(c, nil)
}

// EditProduct -> POST /api/products/edit. Stock is left alone.
func (pc *ProductController) EditProduct(c *gin.Context) {
	var req productRequest
	if !bindRequest(c, &req) {
		return
	}

	err := pc.DB.WithContext(c.Request.Context()).
		Model(&models.Product{}).
		Where("id = ?", req.ID).
		Updates(map[string]interface{}{
			"name":        req.Name,
			"price":       req.Price,
			"image_url":   req.ImageURL,
			"description": req.Description,
		}).Error
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	pc.Cache.Invalidate(c.Request.Context())

	utils.RespondJSON(c, nil)
}

// DeleteProduct -> POST /api/products/delete
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	var req idRequest
	if !bindRequest(c, &req) {
		return
	}

	if err := pc.DB.WithContext(c.Request.Context()).Where("id = ?", req.ID).Delete(&models.Product{}).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	pc.Cache.Invalidate(c.Request.Context())

	utils.RespondJSON(c, nil)
}

// GetProducts -> GET /api/products/get
func (pc *ProductController) GetProducts(c *gin.Context) {
	ctx := c.Request.Context()
	if products, ok := pc.Cache.Products(ctx); ok {
		utils.RespondJSON(c, gin.H{"products": products})
		return
	}

	version := pc.Cache.Version(ctx)
	products := make([]models.Product, 0)
	if err := pc.DB.WithContext(ctx).Order("id asc").Find(&products).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	pc.Cache.StoreProducts(ctx, version, products)

	utils.RespondJSON(c, gin.H{"products": products})
}
