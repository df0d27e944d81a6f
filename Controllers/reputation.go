package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"MatirBank/Services"
)

// ReputationController exposes credit scores and their tiers
type ReputationController struct {
	Reputation *Services.ReputationService
}

func NewReputationController(reputation *Services.ReputationService) *ReputationController {
	return &ReputationController{Reputation: reputation}
}

type scoreInput struct {
	UserID      *uint            `json:"UserID" validate:"required"`
	CreditScore *decimal.Decimal `json:"CreditScore" validate:"required"`
}

// GetReputation returns one user's standing with ?userId=, or every scored
// user with their tier
func (c *ReputationController) GetReputation(ctx *fiber.Ctx) error {
	if userID, ok := queryID(ctx, "userId"); ok {
		standing, err := c.Reputation.Standing(ctx.UserContext(), userID)
		if err != nil {
			return fail(ctx, err)
		}
		return success(ctx, standing)
	}

	rows, err := c.Reputation.List(ctx.UserContext())
	if err != nil {
		return fail(ctx, err)
	}
	return success(ctx, rows)
}

func (c *ReputationController) SetScore(ctx *fiber.Ctx) error {
	var input scoreInput
	if err := parseBody(ctx, &input, "UserID and CreditScore are required"); err != nil {
		return fail(ctx, err)
	}

	standing, err := c.Reputation.SetScore(ctx.UserContext(), *input.UserID, *input.CreditScore)
	if err != nil {
		return fail(ctx, err)
	}
	return successMessage(ctx, "Credit score set", standing)
}
