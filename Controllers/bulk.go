package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"MatirBank/Models"
	"MatirBank/Services"
)

// BulkController handles bulk procurement, dispatched on ?action=
type BulkController struct {
	DB   *gorm.DB
	Bulk *Services.BulkService
}

func NewBulkController(db *gorm.DB, bulk *Services.BulkService) *BulkController {
	return &BulkController{DB: db, Bulk: bulk}
}

type supplierInput struct {
	Name        *string `json:"Name" validate:"required,max=255"`
	MinOrderQty *int    `json:"MinOrderQty" validate:"required,gte=0"`
	Category    *string `json:"Category" validate:"required,max=64"`
}

type requestInput struct {
	SupplierID *uint            `json:"SupplierID" validate:"required"`
	UserID     *uint            `json:"UserID" validate:"required"`
	ReqQty     *int             `json:"ReqQty" validate:"required,gt=0"`
	EstCost    *decimal.Decimal `json:"EstCost" validate:"required,gte=0"`
}

type masterOrderInput struct {
	SupplierID     *uint            `json:"SupplierID" validate:"required"`
	WholesalePrice *decimal.Decimal `json:"WholesalePrice" validate:"required,gte=0"`
}

func (c *BulkController) Get(ctx *fiber.Ctx) error {
	switch ctx.Query("action") {
	case "suppliers":
		return c.getSuppliers(ctx)
	case "requests":
		return c.getRequests(ctx)
	case "masters":
		return c.getMasters(ctx)
	case "create_master":
		return failStatus(ctx, fiber.StatusMethodNotAllowed, "Method not allowed")
	default:
		return failStatus(ctx, fiber.StatusNotFound, "Invalid action")
	}
}

func (c *BulkController) Post(ctx *fiber.Ctx) error {
	switch ctx.Query("action") {
	case "suppliers":
		return c.createSupplier(ctx)
	case "requests":
		return c.createRequest(ctx)
	case "create_master":
		return c.createMaster(ctx)
	case "masters":
		return failStatus(ctx, fiber.StatusMethodNotAllowed, "Method not allowed")
	default:
		return failStatus(ctx, fiber.StatusNotFound, "Invalid action")
	}
}

func (c *BulkController) getSuppliers(ctx *fiber.Ctx) error {
	var suppliers []Models.Supplier
	if err := c.DB.WithContext(ctx.UserContext()).Order("supplier_id DESC").Find(&suppliers).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to fetch suppliers", err))
	}
	return success(ctx, suppliers)
}

func (c *BulkController) createSupplier(ctx *fiber.Ctx) error {
	var input supplierInput
	if err := parseBody(ctx, &input, "Name, MinOrderQty, Category are required"); err != nil {
		return fail(ctx, err)
	}

	supplier := Models.Supplier{
		Name:        *input.Name,
		MinOrderQty: *input.MinOrderQty,
		Category:    *input.Category,
	}
	if err := c.DB.WithContext(ctx.UserContext()).Create(&supplier).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to create supplier", err))
	}
	return created(ctx, "Supplier created", supplier)
}

func (c *BulkController) getRequests(ctx *fiber.Ctx) error {
	query := c.DB.WithContext(ctx.UserContext()).Order("req_id DESC")
	if supplierID, ok := queryID(ctx, "supplierId"); ok {
		query = query.Where("supplier_id = ?", supplierID)
	}

	var requests []Models.IndividualRequest
	if err := query.Find(&requests).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to fetch requests", err))
	}
	return success(ctx, requests)
}

func (c *BulkController) createRequest(ctx *fiber.Ctx) error {
	var input requestInput
	if err := parseBody(ctx, &input, "SupplierID, UserID, ReqQty, EstCost are required"); err != nil {
		return fail(ctx, err)
	}

	request := Models.IndividualRequest{
		SupplierID: *input.SupplierID,
		UserID:     *input.UserID,
		ReqQty:     *input.ReqQty,
		EstCost:    *input.EstCost,
	}
	if err := c.DB.WithContext(ctx.UserContext()).Create(&request).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to create request", err))
	}
	return created(ctx, "Request created", request)
}

func (c *BulkController) getMasters(ctx *fiber.Ctx) error {
	query := c.DB.WithContext(ctx.UserContext()).Order("master_id DESC")
	if supplierID, ok := queryID(ctx, "supplierId"); ok {
		query = query.Where("supplier_id = ?", supplierID)
	}

	var masters []Models.BulkMasterOrder
	if err := query.Find(&masters).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to fetch master orders", err))
	}
	return success(ctx, masters)
}

// createMaster answers created:false, not an error, when the threshold
// is not met
func (c *BulkController) createMaster(ctx *fiber.Ctx) error {
	var input masterOrderInput
	if err := parseBody(ctx, &input, "SupplierID and WholesalePrice are required"); err != nil {
		return fail(ctx, err)
	}

	result, err := c.Bulk.CreateMasterOrder(ctx.UserContext(), *input.SupplierID, *input.WholesalePrice)
	if err != nil {
		return fail(ctx, err)
	}
	if !result.Created {
		return ctx.JSON(fiber.Map{
			"success": true,
			"created": false,
			"message": "Threshold not met",
		})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"created": true,
		"data": fiber.Map{
			"MasterID": result.MasterID,
			"TotalQty": result.TotalQty,
		},
	})
}
