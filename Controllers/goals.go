package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"MatirBank/Models"
	"MatirBank/Services"
)

// GoalController handles savings goal endpoints
type GoalController struct {
	DB *gorm.DB
}

func NewGoalController(db *gorm.DB) *GoalController {
	return &GoalController{DB: db}
}

type createGoalInput struct {
	AccountID    *uint            `json:"AccountID" validate:"required"`
	TargetAmount *decimal.Decimal `json:"TargetAmount" validate:"required,gt=0"`
	SavedAmount  *decimal.Decimal `json:"SavedAmount" validate:"omitempty,gte=0"`
	Deadline     *string          `json:"Deadline"`
	Status       *string          `json:"Status" validate:"omitempty,max=20"`
}

type updateGoalInput struct {
	TargetAmount *decimal.Decimal `json:"TargetAmount" validate:"omitempty,gt=0"`
	SavedAmount  *decimal.Decimal `json:"SavedAmount"`
	Deadline     *string          `json:"Deadline"`
	Status       *string          `json:"Status" validate:"omitempty,max=20"`
}

// GetGoals lists goals ordered by deadline, optionally for one account
func (c *GoalController) GetGoals(ctx *fiber.Ctx) error {
	if _, ok := resourceID(ctx); ok {
		return c.GetGoal(ctx)
	}

	query := c.DB.WithContext(ctx.UserContext()).Order("deadline ASC").Order("goal_id ASC")
	if accountID, ok := queryID(ctx, "accountId"); ok {
		query = query.Where("account_id = ?", accountID)
	}

	var goals []Models.SavingsGoal
	if err := query.Find(&goals).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to fetch goals", err))
	}
	return success(ctx, goals)
}

func (c *GoalController) GetGoal(ctx *fiber.Ctx) error {
	id, ok := resourceID(ctx)
	if !ok {
		return failStatus(ctx, fiber.StatusBadRequest, "GoalID is required")
	}

	var goal Models.SavingsGoal
	if err := c.DB.WithContext(ctx.UserContext()).First(&goal, "goal_id = ?", id).Error; err != nil {
		return fail(ctx, Services.Lookup(err, "Goal not found", "Failed to fetch goal"))
	}
	return success(ctx, goal)
}

func (c *GoalController) CreateGoal(ctx *fiber.Ctx) error {
	var input createGoalInput
	if err := parseBody(ctx, &input, "AccountID and TargetAmount are required"); err != nil {
		return fail(ctx, err)
	}

	db := c.DB.WithContext(ctx.UserContext())
	var account Models.Account
	if err := db.Select("account_id").First(&account, "account_id = ?", *input.AccountID).Error; err != nil {
		return fail(ctx, Services.Lookup(err, "Account not found", "Failed to fetch account"))
	}

	goal := Models.SavingsGoal{
		AccountID:    *input.AccountID,
		TargetAmount: *input.TargetAmount,
		SavedAmount:  decimal.Zero,
		Status:       Models.GoalActive,
	}
	if input.SavedAmount != nil {
		goal.SavedAmount = *input.SavedAmount
	}
	if input.Status != nil && *input.Status != "" {
		goal.Status = *input.Status
	}
	if input.Deadline != nil {
		deadline, err := parseDate("Deadline", *input.Deadline)
		if err != nil {
			return fail(ctx, err)
		}
		goal.Deadline = &deadline
	}

	if err := db.Create(&goal).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to create goal", err))
	}
	return created(ctx, "Goal created successfully", goal)
}

func (c *GoalController) UpdateGoal(ctx *fiber.Ctx) error {
	id, ok := resourceID(ctx)
	if !ok {
		return failStatus(ctx, fiber.StatusBadRequest, "GoalID is required")
	}

	var input updateGoalInput
	if err := parseBody(ctx, &input, ""); err != nil {
		return fail(ctx, err)
	}

	patch := Services.NewPatch()
	Services.SetIf(patch, "target_amount", input.TargetAmount)
	Services.SetIf(patch, "saved_amount", input.SavedAmount)
	Services.SetIf(patch, "status", input.Status)
	if input.Deadline != nil {
		deadline, err := parseDate("Deadline", *input.Deadline)
		if err != nil {
			return fail(ctx, err)
		}
		patch.Set("deadline", deadline)
	}
	if err := patch.Apply(ctx.UserContext(), c.DB, &Models.SavingsGoal{}, "goal_id", id, "goal"); err != nil {
		return fail(ctx, err)
	}

	var goal Models.SavingsGoal
	if err := c.DB.WithContext(ctx.UserContext()).First(&goal, "goal_id = ?", id).Error; err != nil {
		return fail(ctx, Services.Lookup(err, "Goal not found", "Failed to fetch goal"))
	}
	return successMessage(ctx, "Goal updated successfully", goal)
}

func (c *GoalController) DeleteGoal(ctx *fiber.Ctx) error {
	id, ok := resourceID(ctx)
	if !ok {
		return failStatus(ctx, fiber.StatusBadRequest, "GoalID is required")
	}

	result := c.DB.WithContext(ctx.UserContext()).Delete(&Models.SavingsGoal{}, "goal_id = ?", id)
	if result.Error != nil {
		return fail(ctx, Services.Persistence("Failed to delete goal", result.Error))
	}
	if result.RowsAffected == 0 {
		return failStatus(ctx, fiber.StatusNotFound, "Goal not found")
	}
	return successMessage(ctx, "Goal deleted successfully", nil)
}
