package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"MatirBank/Models"
	"MatirBank/Services"
)

// SamityController handles lending groups, dispatched on ?action=
type SamityController struct {
	DB     *gorm.DB
	Samity *Services.SamityService
}

func NewSamityController(db *gorm.DB, samity *Services.SamityService) *SamityController {
	return &SamityController{DB: db, Samity: samity}
}

type groupInput struct {
	GroupName *string `json:"GroupName" validate:"required,max=255"`
	LeaderID  *uint   `json:"LeaderID" validate:"required"`
}

type memberInput struct {
	GroupID *uint   `json:"GroupID" validate:"required"`
	UserID  *uint   `json:"UserID" validate:"required"`
	Role    *string `json:"Role" validate:"omitempty,max=20"`
}

type policyInput struct {
	GroupID       *uint            `json:"GroupID" validate:"required"`
	MaxLoanAmount *decimal.Decimal `json:"MaxLoanAmount" validate:"required"`
	InterestRate  *decimal.Decimal `json:"InterestRate" validate:"required"`
}

type eligibilityInput struct {
	UserID          *uint            `json:"UserID" validate:"required"`
	RequestedAmount *decimal.Decimal `json:"RequestedAmount" validate:"required"`
	RequestedRate   *decimal.Decimal `json:"RequestedRate" validate:"required"`
}

func (c *SamityController) Get(ctx *fiber.Ctx) error {
	switch ctx.Query("action") {
	case "":
		return failStatus(ctx, fiber.StatusBadRequest, "Action is required")
	case "groups":
		return c.getGroups(ctx)
	case "members":
		return c.getMembers(ctx)
	case "policies":
		return c.getPolicies(ctx)
	case "eligibility":
		return failStatus(ctx, fiber.StatusMethodNotAllowed, "Method not allowed")
	default:
		return failStatus(ctx, fiber.StatusNotFound, "Invalid action")
	}
}

func (c *SamityController) Post(ctx *fiber.Ctx) error {
	switch ctx.Query("action") {
	case "groups":
		return c.createGroup(ctx)
	case "members":
		return c.addMember(ctx)
	case "policies":
		return c.setPolicy(ctx)
	case "eligibility":
		return c.eligibility(ctx)
	default:
		return failStatus(ctx, fiber.StatusNotFound, "Invalid action")
	}
}

func (c *SamityController) Delete(ctx *fiber.Ctx) error {
	switch ctx.Query("action") {
	case "members":
		return c.removeMember(ctx)
	case "groups", "policies", "eligibility":
		return failStatus(ctx, fiber.StatusMethodNotAllowed, "Method not allowed")
	default:
		return failStatus(ctx, fiber.StatusNotFound, "Invalid action")
	}
}

func (c *SamityController) getGroups(ctx *fiber.Ctx) error {
	var groups []Models.SamityGroup
	if err := c.DB.WithContext(ctx.UserContext()).
		Order("creation_date DESC").Order("group_id DESC").
		Find(&groups).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to fetch groups", err))
	}
	return success(ctx, groups)
}

func (c *SamityController) createGroup(ctx *fiber.Ctx) error {
	var input groupInput
	if err := parseBody(ctx, &input, "GroupName and LeaderID are required"); err != nil {
		return fail(ctx, err)
	}

	group := Models.SamityGroup{GroupName: *input.GroupName, LeaderID: *input.LeaderID}
	if err := c.DB.WithContext(ctx.UserContext()).Create(&group).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to create group", err))
	}
	return created(ctx, "Group created", group)
}

func (c *SamityController) getMembers(ctx *fiber.Ctx) error {
	query := c.DB.WithContext(ctx.UserContext()).Order("join_date DESC").Order("membership_id DESC")
	if groupID, ok := queryID(ctx, "groupId"); ok {
		query = query.Where("group_id = ?", groupID)
	}

	var members []Models.GroupMember
	if err := query.Find(&members).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to fetch members", err))
	}
	return success(ctx, members)
}

func (c *SamityController) addMember(ctx *fiber.Ctx) error {
	var input memberInput
	if err := parseBody(ctx, &input, "GroupID and UserID are required"); err != nil {
		return fail(ctx, err)
	}

	member := Models.GroupMember{GroupID: *input.GroupID, UserID: *input.UserID, Role: "Member"}
	if input.Role != nil && *input.Role != "" {
		member.Role = *input.Role
	}
	if err := c.DB.WithContext(ctx.UserContext()).Create(&member).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to add member", err))
	}
	return created(ctx, "Member added", member)
}

func (c *SamityController) removeMember(ctx *fiber.Ctx) error {
	id, ok := queryID(ctx, "id")
	if !ok {
		return failStatus(ctx, fiber.StatusBadRequest, "MembershipID is required")
	}

	result := c.DB.WithContext(ctx.UserContext()).Delete(&Models.GroupMember{}, "membership_id = ?", id)
	if result.Error != nil {
		return fail(ctx, Services.Persistence("Failed to remove member", result.Error))
	}
	if result.RowsAffected == 0 {
		return failStatus(ctx, fiber.StatusNotFound, "Member not found")
	}
	return successMessage(ctx, "Member removed", nil)
}

func (c *SamityController) getPolicies(ctx *fiber.Ctx) error {
	query := c.DB.WithContext(ctx.UserContext()).Order("group_id")
	if groupID, ok := queryID(ctx, "groupId"); ok {
		query = query.Where("group_id = ?", groupID)
	}

	var policies []Models.GroupPolicy
	if err := query.Find(&policies).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to fetch policies", err))
	}
	return success(ctx, policies)
}

func (c *SamityController) setPolicy(ctx *fiber.Ctx) error {
	var input policyInput
	if err := parseBody(ctx, &input, "GroupID, MaxLoanAmount, InterestRate are required"); err != nil {
		return fail(ctx, err)
	}

	if err := c.Samity.SetPolicy(ctx.UserContext(), Models.GroupPolicy{
		GroupID:       *input.GroupID,
		MaxLoanAmount: *input.MaxLoanAmount,
		InterestRate:  *input.InterestRate,
	}); err != nil {
		return fail(ctx, err)
	}
	return successMessage(ctx, "Policy set", nil)
}

func (c *SamityController) eligibility(ctx *fiber.Ctx) error {
	var input eligibilityInput
	if err := parseBody(ctx, &input, "UserID, RequestedAmount, RequestedRate are required"); err != nil {
		return fail(ctx, err)
	}

	decision, err := c.Samity.CheckEligibility(ctx.UserContext(), Services.LoanRequest{
		UserID:          *input.UserID,
		RequestedAmount: *input.RequestedAmount,
		RequestedRate:   *input.RequestedRate,
	})
	if err != nil {
		return fail(ctx, err)
	}

	switch {
	case decision.Blocked:
		return ctx.JSON(fiber.Map{
			"success":  true,
			"eligible": false,
			"blocked":  true,
			"message":  decision.Message,
		})
	case decision.Policy == nil:
		return ctx.JSON(fiber.Map{
			"success":  true,
			"eligible": false,
			"message":  decision.Message,
		})
	default:
		return ctx.JSON(fiber.Map{
			"success":  true,
			"eligible": decision.Eligible,
			"blocked":  false,
			"policy":   decision.Policy,
		})
	}
}
