package Services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"MatirBank/Models"
)

// MasterOrderResult reports the outcome of an aggregation attempt.
// Created is false when the supplier's threshold was not met.
type MasterOrderResult struct {
	Created    bool
	MasterID   uint
	TotalQty   int
	Reassigned int64
}

type BulkService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewBulkService(db *gorm.DB, log *zap.Logger) *BulkService {
	return &BulkService{db: db, log: log}
}

type requestTotals struct {
	Requests int64
	TotalQty int64
}

// CreateMasterOrder folds a supplier's individual requests into one master
// order once their summed quantity reaches the supplier's MinOrderQty.
//
// The sum is taken before the transaction starts, and the reassignment
// covers every request referencing the supplier at commit time. Requests
// that arrive in between are folded in without being counted.
func (s *BulkService) CreateMasterOrder(ctx context.Context, supplierID uint, wholesalePrice decimal.Decimal) (*MasterOrderResult, error) {
	db := s.db.WithContext(ctx)

	var supplier Models.Supplier
	if err := db.First(&supplier, "supplier_id = ?", supplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Debug("master order threshold not met", zap.Uint("supplier_id", supplierID), zap.String("reason", "unknown supplier"))
			return &MasterOrderResult{}, nil
		}
		return nil, Persistence("Failed to load supplier", err)
	}

	var totals requestTotals
	if err := db.Model(&Models.IndividualRequest{}).
		Select("COUNT(*) AS requests, COALESCE(SUM(req_qty), 0) AS total_qty").
		Where("supplier_id = ?", supplierID).
		Scan(&totals).Error; err != nil {
		return nil, Persistence("Failed to sum requests", err)
	}
	if totals.Requests == 0 || totals.TotalQty < int64(supplier.MinOrderQty) {
		s.log.Debug("master order threshold not met",
			zap.Uint("supplier_id", supplierID),
			zap.Int64("total_qty", totals.TotalQty),
			zap.Int("min_order_qty", supplier.MinOrderQty))
		return &MasterOrderResult{TotalQty: int(totals.TotalQty)}, nil
	}

	master := &Models.BulkMasterOrder{
		SupplierID:     supplierID,
		TotalQty:       int(totals.TotalQty),
		WholesalePrice: wholesalePrice,
		Status:         Models.MasterOrderPending,
	}
	var reassigned int64

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(master).Error; err != nil {
			return Persistence("Failed to create master order", err)
		}
		result := tx.Model(&Models.IndividualRequest{}).
			Where("supplier_id = ?", supplierID).
			Update("master_id", master.MasterID)
		if result.Error != nil {
			return Persistence("Failed to assign requests", result.Error)
		}
		reassigned = result.RowsAffected
		return nil
	})
	if err != nil {
		s.log.Error("master order failed", zap.Uint("supplier_id", supplierID), zap.Error(err))
		return nil, err
	}

	s.log.Info("master order created",
		zap.Uint("master_id", master.MasterID),
		zap.Uint("supplier_id", supplierID),
		zap.Int("total_qty", master.TotalQty),
		zap.Int64("reassigned", reassigned))
	return &MasterOrderResult{
		Created:    true,
		MasterID:   master.MasterID,
		TotalQty:   master.TotalQty,
		Reassigned: reassigned,
	}, nil
}
