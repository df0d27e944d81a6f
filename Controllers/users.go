package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"MatirBank/Models"
	"MatirBank/Services"
)

// UserController handles user administration
type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// GetUsers lists users newest first. Password hashes never leave the store.
func (c *UserController) GetUsers(ctx *fiber.Ctx) error {
	var users []Models.User
	if err := c.DB.WithContext(ctx.UserContext()).
		Omit("password_hash").
		Order("created_at DESC").Order("user_id DESC").
		Find(&users).Error; err != nil {
		return fail(ctx, Services.Persistence("Failed to fetch users", err))
	}
	return success(ctx, users)
}

func (c *UserController) DeleteUser(ctx *fiber.Ctx) error {
	id, ok := resourceID(ctx)
	if !ok {
		return failStatus(ctx, fiber.StatusBadRequest, "User ID is required")
	}

	result := c.DB.WithContext(ctx.UserContext()).Delete(&Models.User{}, "user_id = ?", id)
	if result.Error != nil {
		return fail(ctx, Services.Persistence("Failed to delete user", result.Error))
	}
	if result.RowsAffected == 0 {
		return failStatus(ctx, fiber.StatusNotFound, "User not found")
	}
	return successMessage(ctx, "User deleted", nil)
}
