package Services

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"MatirBank/Models"
)

type OrderLine struct {
	ProdID   uint
	Quantity int
}

type OrderService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewOrderService(db *gorm.DB, log *zap.Logger) *OrderService {
	return &OrderService{db: db, log: log}
}

// PlaceOrder locks every product on the order, checks price and stock,
// then writes the order, its items and the stock decrements in one
// transaction. Any rejection rolls back everything.
func (s *OrderService) PlaceOrder(ctx context.Context, buyerID uint, lines []OrderLine) (*Models.Order, error) {
	if buyerID == 0 {
		return nil, Validation("BuyerID and Items are required")
	}
	if len(lines) == 0 {
		return nil, Validation("BuyerID and Items are required")
	}
	for _, line := range lines {
		if line.ProdID == 0 {
			return nil, Validation("Invalid item payload")
		}
		if line.Quantity <= 0 {
			return nil, Validation("Invalid quantity")
		}
	}

	order := &Models.Order{
		BuyerID: buyerID,
		Status:  Models.OrderPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := make(map[uint]*Models.Product, len(lines))
		taken := make(map[uint]int, len(lines))
		total := decimal.Zero
		items := make([]Models.OrderItem, 0, len(lines))

		for _, line := range lines {
			product, ok := products[line.ProdID]
			if !ok {
				product = &Models.Product{}
				if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					First(product, "prod_id = ?", line.ProdID).Error; err != nil {
					return Lookup(err, "Product not found", "Failed to load product")
				}
				products[line.ProdID] = product
			}

			// Repeated lines for one product draw from the same stock
			if product.StockQty-taken[line.ProdID] < line.Quantity {
				return Conflict("Insufficient stock")
			}
			taken[line.ProdID] += line.Quantity

			lineTotal := product.PricePerUnit.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(lineTotal)
			items = append(items, Models.OrderItem{
				ProdID:    line.ProdID,
				Quantity:  line.Quantity,
				LineTotal: lineTotal,
			})
		}

		order.TotalAmount = total
		order.Items = items
		if err := tx.Create(order).Error; err != nil {
			return Persistence("Failed to create order", err)
		}

		for _, line := range lines {
			if err := tx.Model(&Models.Product{}).
				Where("prod_id = ?", line.ProdID).
				Update("stock_qty", gorm.Expr("stock_qty - ?", line.Quantity)).Error; err != nil {
				return Persistence("Failed to update stock", err)
			}
		}
		return nil
	})
	if err != nil {
		if KindOf(err) == KindPersistence {
			s.log.Error("order failed", zap.Uint("buyer_id", buyerID), zap.Error(err))
		} else {
			s.log.Debug("order rejected", zap.Uint("buyer_id", buyerID), zap.Error(err))
		}
		return nil, err
	}

	s.log.Info("order placed",
		zap.Uint("order_id", order.OrderID),
		zap.Uint("buyer_id", buyerID),
		zap.Int("lines", len(order.Items)),
		zap.String("total", order.TotalAmount.String()))
	return order, nil
}

// Orders lists orders newest first with their items
func (s *OrderService) Orders(ctx context.Context) ([]Models.Order, error) {
	var orders []Models.Order
	if err := s.db.WithContext(ctx).
		Preload("Items").
		Order("order_date DESC").Order("order_id DESC").
		Find(&orders).Error; err != nil {
		return nil, Persistence("Failed to fetch orders", err)
	}
	return orders, nil
}

func (s *OrderService) Order(ctx context.Context, orderID uint) (*Models.Order, error) {
	var order Models.Order
	if err := s.db.WithContext(ctx).Preload("Items").
		First(&order, "order_id = ?", orderID).Error; err != nil {
		return nil, Lookup(err, "Order not found", "Failed to fetch order")
	}
	return &order, nil
}
