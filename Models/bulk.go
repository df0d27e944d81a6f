package Models

import (
	"time"

	"github.com/shopspring/decimal"
)

const MasterOrderPending = "PENDING"

// Supplier sells in bulk once MinOrderQty units have been requested
type Supplier struct {
	SupplierID  uint   `json:"SupplierID" gorm:"primaryKey"`
	Name        string `json:"Name" gorm:"size:255;not null"`
	MinOrderQty int    `json:"MinOrderQty" gorm:"not null"`
	Category    string `json:"Category" gorm:"size:64;not null"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

// IndividualRequest is one member's share of a future bulk purchase.
// MasterID is set when the request is folded into a master order.
type IndividualRequest struct {
	ReqID      uint            `json:"ReqID" gorm:"primaryKey"`
	SupplierID uint            `json:"SupplierID" gorm:"not null;index"`
	UserID     uint            `json:"UserID" gorm:"not null;index"`
	ReqQty     int             `json:"ReqQty" gorm:"not null"`
	EstCost    decimal.Decimal `json:"EstCost" gorm:"type:decimal(12,2);not null"`
	MasterID   *uint           `json:"MasterID" gorm:"index"`
}

func (IndividualRequest) TableName() string {
	return "individual_requests"
}

type BulkMasterOrder struct {
	MasterID       uint            `json:"MasterID" gorm:"primaryKey"`
	SupplierID     uint            `json:"SupplierID" gorm:"not null;index"`
	TotalQty       int             `json:"TotalQty" gorm:"not null"`
	WholesalePrice decimal.Decimal `json:"WholesalePrice" gorm:"type:decimal(12,2);not null"`
	Status         string          `json:"Status" gorm:"size:20;not null;default:PENDING"`
	CreatedAt      time.Time       `json:"CreatedAt"`
}

func (BulkMasterOrder) TableName() string {
	return "bulk_master_orders"
}
