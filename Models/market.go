package Models

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderPending = "PENDING"

type Product struct {
	ProdID       uint            `json:"ProdID" gorm:"primaryKey"`
	SellerID     uint            `json:"SellerID" gorm:"not null;index"`
	Category     string          `json:"Category" gorm:"size:64;not null"`
	PricePerUnit decimal.Decimal `json:"PricePerUnit" gorm:"type:decimal(12,2);not null"`
	StockQty     int             `json:"StockQty" gorm:"not null;default:0"`
}

func (Product) TableName() string {
	return "products"
}

type Order struct {
	OrderID     uint            `json:"OrderID" gorm:"primaryKey"`
	BuyerID     uint            `json:"BuyerID" gorm:"not null;index"`
	TotalAmount decimal.Decimal `json:"TotalAmount" gorm:"type:decimal(12,2);not null"`
	Status      string          `json:"Status" gorm:"size:20;not null;default:PENDING"`
	OrderDate   time.Time       `json:"OrderDate" gorm:"autoCreateTime;index"`

	Items []OrderItem `json:"Items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	OrderItemID uint            `json:"OrderItemID" gorm:"primaryKey"`
	OrderID     uint            `json:"OrderID" gorm:"not null;index"`
	ProdID      uint            `json:"ProdID" gorm:"not null;index"`
	Quantity    int             `json:"Quantity" gorm:"not null"`
	LineTotal   decimal.Decimal `json:"LineTotal" gorm:"type:decimal(12,2);not null"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
