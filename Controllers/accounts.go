package Controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"MatirBank/Models"
	"MatirBank/Services"
)

// AccountController handles account endpoints
type AccountController struct {
	DB     *gorm.DB
	Ledger *Services.Ledger
}

func NewAccountController(db *gorm.DB, ledger *Services.Ledger) *AccountController {
	return &AccountController{DB: db, Ledger: ledger}
}

type createAccountInput struct {
	UserID         *uint            `json:"UserID" validate:"required"`
	AccountType    *string          `json:"AccountType" validate:"required"`
	CurrentBalance *decimal.Decimal `json:"CurrentBalance"`
	DateOpened     *string          `json:"DateOpened"`
}

type updateAccountInput struct {
	AccountType    *string          `json:"AccountType"`
	CurrentBalance *decimal.Decimal `json:"CurrentBalance"`
}

func validAccountType(t string) bool {
	return t == Models.AccountSavings || t == Models.AccountCurrent
}

const invalidAccountType = "Invalid AccountType. Allowed: Savings, Current"

// GetAccounts lists every account, or one when an id is given
func (c *AccountController) GetAccounts(ctx *fiber.Ctx) error {
	if _, ok := resourceID(ctx); ok {
		return c.GetAccount(ctx)
	}

	var accounts []Models.Account
	if err := c.DB.WithContext(ctx.UserContext()).
		Order("date_opened DESC").Order("account_id DESC").
		Find(&accounts).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to fetch accounts", err))
	}
	return success(ctx, accounts)
}

func (c *AccountController) GetAccount(ctx *fiber.Ctx) error {
	id, ok := resourceID(ctx)
	if !ok {
		return failStatus(ctx, fiber.StatusBadRequest, "AccountID is required")
	}

	var account Models.Account
	if err := c.DB.WithContext(ctx.UserContext()).First(&account, "account_id = ?", id).Error; err != nil {
		return fail(ctx, Services.Lookup(err, "Account not found", "Failed to fetch account"))
	}
	return success(ctx, account)
}

func (c *AccountController) CreateAccount(ctx *fiber.Ctx) error {
	var input createAccountInput
	if err := parseBody(ctx, &input, "UserID and AccountType are required"); err != nil {
		return fail(ctx, err)
	}
	if !validAccountType(*input.AccountType) {
		return failStatus(ctx, fiber.StatusBadRequest, invalidAccountType)
	}

	account := Models.Account{
		UserID:      *input.UserID,
		AccountType: *input.AccountType,
		DateOpened:  datatypes.Date(time.Now()),
	}
	if input.CurrentBalance != nil {
		account.CurrentBalance = *input.CurrentBalance
	}
	if input.DateOpened != nil {
		opened, err := parseDate("DateOpened", *input.DateOpened)
		if err != nil {
			return fail(ctx, err)
		}
		account.DateOpened = opened
	}

	if err := c.DB.WithContext(ctx.UserContext()).Create(&account).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to create account", err))
	}
	return created(ctx, "Account created successfully", account)
}

func (c *AccountController) UpdateAccount(ctx *fiber.Ctx) error {
	id, ok := resourceID(ctx)
	if !ok {
		return failStatus(ctx, fiber.StatusBadRequest, "AccountID is required")
	}

	var input updateAccountInput
	if err := parseBody(ctx, &input, ""); err != nil {
		return fail(ctx, err)
	}
	if input.AccountType != nil && !validAccountType(*input.AccountType) {
		return failStatus(ctx, fiber.StatusBadRequest, invalidAccountType)
	}

	patch := Services.NewPatch()
	Services.SetIf(patch, "account_type", input.AccountType)
	Services.SetIf(patch, "current_balance", input.CurrentBalance)
	if err := patch.Apply(ctx.UserContext(), c.DB, &Models.Account{}, "account_id", id, "account"); err != nil {
		return fail(ctx, err)
	}

	var account Models.Account
	if err := c.DB.WithContext(ctx.UserContext()).First(&account, "account_id = ?", id).Error; err != nil {
		return fail(ctx, Services.Lookup(err, "Account not found", "Failed to fetch account"))
	}
	return successMessage(ctx, "Account updated successfully", account)
}

// DeleteAccount removes the account with its goals and transactions
func (c *AccountController) DeleteAccount(ctx *fiber.Ctx) error {
	id, ok := resourceID(ctx)
	if !ok {
		return failStatus(ctx, fiber.StatusBadRequest, "AccountID is required")
	}
	if err := c.Ledger.DeleteAccount(ctx.UserContext(), id); err != nil {
		return fail(ctx, err)
	}
	return successMessage(ctx, "Account deleted successfully", nil)
}
