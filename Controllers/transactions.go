package Controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"MatirBank/Export"
	"MatirBank/Models"
	"MatirBank/Services"
)

// TransactionController handles ledger entry endpoints
type TransactionController struct {
	DB     *gorm.DB
	Ledger *Services.Ledger
}

func NewTransactionController(db *gorm.DB, ledger *Services.Ledger) *TransactionController {
	return &TransactionController{DB: db, Ledger: ledger}
}

type createTransactionInput struct {
	AccountID   *uint            `json:"AccountID" validate:"required"`
	Amount      *decimal.Decimal `json:"Amount" validate:"required"`
	Type        *string          `json:"Type" validate:"omitempty,max=32"`
	ReferenceID *string          `json:"ReferenceID" validate:"omitempty,max=64"`
}

type postedTransaction struct {
	Models.Transaction
	UpdatedBalance decimal.Decimal `json:"UpdatedBalance"`
}

// GetTransactions lists entries newest first, optionally for one account
func (c *TransactionController) GetTransactions(ctx *fiber.Ctx) error {
	if _, ok := resourceID(ctx); ok {
		return c.GetTransaction(ctx)
	}

	query := c.DB.WithContext(ctx.UserContext()).Order("timestamp DESC").Order("trans_id DESC")
	if accountID, ok := queryID(ctx, "accountId"); ok {
		query = query.Where("account_id = ?", accountID)
	}

	var entries []Models.Transaction
	if err := query.Find(&entries).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to fetch transactions", err))
	}
	return success(ctx, entries)
}

func (c *TransactionController) GetTransaction(ctx *fiber.Ctx) error {
	id, ok := resourceID(ctx)
	if !ok {
		return failStatus(ctx, fiber.StatusBadRequest, "TransID is required")
	}

	var entry Models.Transaction
	if err := c.DB.WithContext(ctx.UserContext()).First(&entry, "trans_id = ?", id).Error; err != nil {
		return fail(ctx, Services.Lookup(err, "Transaction not found", "Failed to fetch transaction"))
	}
	return success(ctx, entry)
}

// CreateTransaction records an entry and posts it to the account
func (c *TransactionController) CreateTransaction(ctx *fiber.Ctx) error {
	var input createTransactionInput
	if err := parseBody(ctx, &input, "AccountID and Amount are required"); err != nil {
		return fail(ctx, err)
	}

	in := Services.NewTransaction{
		AccountID:   *input.AccountID,
		Amount:      *input.Amount,
		ReferenceID: input.ReferenceID,
	}
	if input.Type != nil {
		in.Type = *input.Type
	}

	entry, balance, err := c.Ledger.CreateTransaction(ctx.UserContext(), in)
	if err != nil {
		return fail(ctx, err)
	}
	return created(ctx, "Transaction created successfully", postedTransaction{
		Transaction:    *entry,
		UpdatedBalance: balance,
	})
}

// DeleteTransaction removes an entry and reverses its posting
func (c *TransactionController) DeleteTransaction(ctx *fiber.Ctx) error {
	id, ok := resourceID(ctx)
	if !ok {
		return failStatus(ctx, fiber.StatusBadRequest, "TransID is required")
	}
	if _, err := c.Ledger.DeleteTransaction(ctx.UserContext(), id); err != nil {
		return fail(ctx, err)
	}
	return successMessage(ctx, "Transaction deleted successfully", nil)
}

// ExportStatement sends an account's entries as an xlsx workbook
func (c *TransactionController) ExportStatement(ctx *fiber.Ctx) error {
	accountID, ok := queryID(ctx, "accountId")
	if !ok {
		return failStatus(ctx, fiber.StatusBadRequest, "accountId is required")
	}

	db := c.DB.WithContext(ctx.UserContext())
	var account Models.Account
	if err := db.First(&account, "account_id = ?", accountID).Error; err != nil {
		return fail(ctx, Services.Lookup(err, "Account not found", "Failed to fetch account"))
	}

	var entries []Models.Transaction
	if err := db.Where("account_id = ?", accountID).
		Order("timestamp ASC").Order("trans_id ASC").
		Find(&entries).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to fetch transactions", err))
	}

	buf, err := Export.Statement(&account, entries)
	if err != nil {
		return fail(ctx, Services.Persistence("Failed to build statement", err))
	}

	filename := Export.StatementFilename(accountID, time.Now())
	ctx.Set(fiber.HeaderContentType, Export.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return ctx.Send(buf.Bytes())
}
