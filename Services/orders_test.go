package Services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"MatirBank/Models"
)

func countOrders(t *testing.T, s *OrderService) (orders, items int64) {
	t.Helper()
	require.NoError(t, s.db.Model(&Models.Order{}).Count(&orders).Error)
	require.NoError(t, s.db.Model(&Models.OrderItem{}).Count(&items).Error)
	return orders, items
}

func TestPlaceOrder_Success(t *testing.T) {
	db := newTestDB(t)
	s := NewOrderService(db, zaptest.NewLogger(t))
	ctx := context.Background()

	rice := seedProduct(t, db, "100.00", 10)
	oil := seedProduct(t, db, "35.50", 4)

	order, err := s.PlaceOrder(ctx, 7, []OrderLine{
		{ProdID: rice.ProdID, Quantity: 2},
		{ProdID: oil.ProdID, Quantity: 3},
	})
	require.NoError(t, err)
	assert.NotZero(t, order.OrderID)
	assert.Equal(t, Models.OrderPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(dec("306.50")), order.TotalAmount.String())
	require.Len(t, order.Items, 2)

	sum := order.Items[0].LineTotal.Add(order.Items[1].LineTotal)
	assert.True(t, sum.Equal(order.TotalAmount))
	assert.Equal(t, 8, reload[Models.Product](t, db, "prod_id", rice.ProdID).StockQty)
	assert.Equal(t, 1, reload[Models.Product](t, db, "prod_id", oil.ProdID).StockQty)

	stored, err := s.Order(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
	assert.True(t, stored.TotalAmount.Equal(dec("306.50")))
}

func TestPlaceOrder_InsufficientStockLeavesNoTrace(t *testing.T) {
	db := newTestDB(t)
	s := NewOrderService(db, zaptest.NewLogger(t))
	ctx := context.Background()

	plenty := seedProduct(t, db, "10", 50)
	scarce := seedProduct(t, db, "100", 1)

	_, err := s.PlaceOrder(ctx, 7, []OrderLine{
		{ProdID: plenty.ProdID, Quantity: 5},
		{ProdID: scarce.ProdID, Quantity: 2},
	})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "Insufficient stock", err.Error())

	orders, items := countOrders(t, s)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Equal(t, 50, reload[Models.Product](t, db, "prod_id", plenty.ProdID).StockQty)
	assert.Equal(t, 1, reload[Models.Product](t, db, "prod_id", scarce.ProdID).StockQty)
}

func TestPlaceOrder_RepeatedLinesShareStock(t *testing.T) {
	db := newTestDB(t)
	s := NewOrderService(db, zaptest.NewLogger(t))
	product := seedProduct(t, db, "10", 3)

	_, err := s.PlaceOrder(context.Background(), 7, []OrderLine{
		{ProdID: product.ProdID, Quantity: 2},
		{ProdID: product.ProdID, Quantity: 2},
	})
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, 3, reload[Models.Product](t, db, "prod_id", product.ProdID).StockQty)
}

func TestPlaceOrder_Validation(t *testing.T) {
	db := newTestDB(t)
	s := NewOrderService(db, zaptest.NewLogger(t))
	ctx := context.Background()
	product := seedProduct(t, db, "10", 3)

	tests := []struct {
		name    string
		buyer   uint
		lines   []OrderLine
		kind    Kind
		message string
	}{
		{"no items", 7, nil, KindValidation, "BuyerID and Items are required"},
		{"no buyer", 0, []OrderLine{{ProdID: product.ProdID, Quantity: 1}}, KindValidation, "BuyerID and Items are required"},
		{"zero quantity", 7, []OrderLine{{ProdID: product.ProdID, Quantity: 0}}, KindValidation, "Invalid quantity"},
		{"negative quantity", 7, []OrderLine{{ProdID: product.ProdID, Quantity: -1}}, KindValidation, "Invalid quantity"},
		{"missing product", 7, []OrderLine{{ProdID: 999, Quantity: 1}}, KindNotFound, "Product not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.PlaceOrder(ctx, tt.buyer, tt.lines)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}

	orders, _ := countOrders(t, s)
	assert.Zero(t, orders)
	assert.Equal(t, 3, reload[Models.Product](t, db, "prod_id", product.ProdID).StockQty)
}

func TestPlaceOrder_RepeatWhenStockRunsOut(t *testing.T) {
	db := newTestDB(t)
	s := NewOrderService(db, zaptest.NewLogger(t))
	ctx := context.Background()
	product := seedProduct(t, db, "100.00", 10)

	order, err := s.PlaceOrder(ctx, 7, []OrderLine{{ProdID: product.ProdID, Quantity: 2}})
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(dec("200.00")))
	assert.Equal(t, 8, reload[Models.Product](t, db, "prod_id", product.ProdID).StockQty)

	require.NoError(t, db.Model(&Models.Product{}).Where("prod_id = ?", product.ProdID).Update("stock_qty", 1).Error)
	_, err = s.PlaceOrder(ctx, 7, []OrderLine{{ProdID: product.ProdID, Quantity: 2}})
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, 1, reload[Models.Product](t, db, "prod_id", product.ProdID).StockQty)
}

func TestPlaceOrder_ConcurrentBuyersForLastUnit(t *testing.T) {
	db := newTestDB(t)
	s := NewOrderService(db, zaptest.NewLogger(t))
	product := seedProduct(t, db, "25", 1)

	const buyers = 5
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(buyer uint) {
			defer wg.Done()
			_, err := s.PlaceOrder(context.Background(), buyer, []OrderLine{{ProdID: product.ProdID, Quantity: 1}})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(uint(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, reload[Models.Product](t, db, "prod_id", product.ProdID).StockQty)
	orders, items := countOrders(t, s)
	assert.EqualValues(t, 1, orders)
	assert.EqualValues(t, 1, items)
}
