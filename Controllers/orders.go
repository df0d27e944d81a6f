package Controllers

import (
	"github.com/gofiber/fiber/v2"

	"MatirBank/Services"
)

// OrderController handles marketplace orders
type OrderController struct {
	Orders *Services.OrderService
}

func NewOrderController(orders *Services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

type orderItemInput struct {
	ProdID   *uint `json:"ProdID"`
	Quantity *int  `json:"Quantity"`
}

type placeOrderInput struct {
	BuyerID *uint            `json:"BuyerID" validate:"required"`
	Items   []orderItemInput `json:"Items" validate:"required"`
}

// GetOrders lists orders with their items, newest first
func (c *OrderController) GetOrders(ctx *fiber.Ctx) error {
	if _, ok := resourceID(ctx); ok {
		return c.GetOrder(ctx)
	}

	orders, err := c.Orders.Orders(ctx.UserContext())
	if err != nil {
		return fail(ctx, err)
	}
	return success(ctx, orders)
}

func (c *OrderController) GetOrder(ctx *fiber.Ctx) error {
	id, ok := resourceID(ctx)
	if !ok {
		return failStatus(ctx, fiber.StatusBadRequest, "OrderID is required")
	}

	order, err := c.Orders.Order(ctx.UserContext(), id)
	if err != nil {
		return fail(ctx, err)
	}
	return success(ctx, order)
}

// PlaceOrder runs the stock-checked order workflow. Every rejection is a
// 400 with the reason.
func (c *OrderController) PlaceOrder(ctx *fiber.Ctx) error {
	var input placeOrderInput
	if err := parseBody(ctx, &input, "BuyerID and Items are required"); err != nil {
		return fail(ctx, err)
	}

	lines := make([]Services.OrderLine, 0, len(input.Items))
	for _, item := range input.Items {
		if item.ProdID == nil || item.Quantity == nil {
			return failStatus(ctx, fiber.StatusBadRequest, "Invalid item payload")
		}
		lines = append(lines, Services.OrderLine{ProdID: *item.ProdID, Quantity: *item.Quantity})
	}

	order, err := c.Orders.PlaceOrder(ctx.UserContext(), *input.BuyerID, lines)
	if err != nil {
		return rejectAs(ctx, err, fiber.StatusBadRequest)
	}
	return created(ctx, "Order placed", order)
}
