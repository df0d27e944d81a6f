package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"MatirBank/Models"
	"MatirBank/Services"
)

// ProductController handles marketplace product endpoints
type ProductController struct {
	DB *gorm.DB
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{DB: db}
}

type createProductInput struct {
	SellerID     *uint            `json:"SellerID" validate:"required"`
	Category     *string          `json:"Category" validate:"required,max=64"`
	PricePerUnit *decimal.Decimal `json:"PricePerUnit" validate:"required"`
	StockQty     *int             `json:"StockQty"`
}

type updateProductInput struct {
	Category     *string          `json:"Category" validate:"omitempty,max=64"`
	PricePerUnit *decimal.Decimal `json:"PricePerUnit"`
	StockQty     *int             `json:"StockQty"`
}

const invalidPriceOrStock = "Invalid price or stock"

func (c *ProductController) GetProducts(ctx *fiber.Ctx) error {
	if _, ok := resourceID(ctx); ok {
		return c.GetProduct(ctx)
	}

	var products []Models.Product
	if err := c.DB.WithContext(ctx.UserContext()).Order("prod_id DESC").Find(&products).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to fetch products", err))
	}
	return success(ctx, products)
}

func (c *ProductController) GetProduct(ctx *fiber.Ctx) error {
	id, ok := resourceID(ctx)
	if !ok {
		return failStatus(ctx, fiber.StatusBadRequest, "ProdID is required")
	}

	var product Models.Product
	if err := c.DB.WithContext(ctx.UserContext()).First(&product, "prod_id = ?", id).Error; err != nil {
		return fail(ctx, Services.Lookup(err, "Product not found", "Failed to fetch product"))
	}
	return success(ctx, product)
}

func (c *ProductController) CreateProduct(ctx *fiber.Ctx) error {
	var input createProductInput
	if err := parseBody(ctx, &input, "SellerID, Category, PricePerUnit are required"); err != nil {
		return fail(ctx, err)
	}

	product := Models.Product{
		SellerID:     *input.SellerID,
		Category:     *input.Category,
		PricePerUnit: *input.PricePerUnit,
	}
	if input.StockQty != nil {
		product.StockQty = *input.StockQty
	}
	if !product.PricePerUnit.IsPositive() || product.StockQty < 0 {
		return failStatus(ctx, fiber.StatusBadRequest, invalidPriceOrStock)
	}

	if err := c.DB.WithContext(ctx.UserContext()).Create(&product).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to create product", err))
	}
	return created(ctx, "Product created", product)
}

func (c *ProductController) UpdateProduct(ctx *fiber.Ctx) error {
	id, ok := resourceID(ctx)
	if !ok {
		return failStatus(ctx, fiber.StatusBadRequest, "ProdID is required")
	}

	var input updateProductInput
	if err := parseBody(ctx, &input, ""); err != nil {
		return fail(ctx, err)
	}
	if (input.PricePerUnit != nil && !input.PricePerUnit.IsPositive()) ||
		(input.StockQty != nil && *input.StockQty < 0) {
		return failStatus(ctx, fiber.StatusBadRequest, invalidPriceOrStock)
	}

	patch := Services.NewPatch()
	Services.SetIf(patch, "category", input.Category)
	Services.SetIf(patch, "price_per_unit", input.PricePerUnit)
	Services.SetIf(patch, "stock_qty", input.StockQty)
	if err := patch.Apply(ctx.UserContext(), c.DB, &Models.Product{}, "prod_id", id, "product"); err != nil {
		return fail(ctx, err)
	}

	var product Models.Product
	if err := c.DB.WithContext(ctx.UserContext()).First(&product, "prod_id = ?", id).Error; err != nil {
		return fail(ctx, Services.Lookup(err, "Product not found", "Failed to fetch product"))
	}
	return successMessage(ctx, "Product updated", product)
}

func (c *ProductController) DeleteProduct(ctx *fiber.Ctx) error {
	id, ok := resourceID(ctx)
	if !ok {
		return failStatus(ctx, fiber.StatusBadRequest, "ProdID is required")
	}

	result := c.DB.WithContext(ctx.UserContext()).Delete(&Models.Product{}, "prod_id = ?", id)
	if result.Error != nil {
		return fail(ctx, Services.Persistence("Failed to delete product", result.Error))
	}
	if result.RowsAffected == 0 {
		return failStatus(ctx, fiber.StatusNotFound, "Product not found")
	}
	return successMessage(ctx, "Product deleted", nil)
}
