package Controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"MatirBank/Models"
	"MatirBank/Services"
	"MatirBank/middleware"
)

// AuthController handles registration and login
type AuthController struct {
	Auth *Services.AuthService
}

func NewAuthController(auth *Services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

type registerInput struct {
	Username *string `json:"username" validate:"required,max=64"`
	Password *string `json:"password" validate:"required"`
	FullName *string `json:"fullName" validate:"required,max=255"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	Address  *string `json:"address" validate:"omitempty,max=255"`
}

type loginInput struct {
	Username *string `json:"username" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

func (c *AuthController) Register(ctx *fiber.Ctx) error {
	var input registerInput
	if err := parseBody(ctx, &input, "Username, password, and full name are required"); err != nil {
		return fail(ctx, err)
	}

	user, err := c.Auth.Register(ctx.UserContext(), Services.Registration{
		Username: *input.Username,
		Password: *input.Password,
		FullName: *input.FullName,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
	})
	if err != nil {
		return fail(ctx, err)
	}
	return created(ctx, "User registered successfully", fiber.Map{
		"UserID":   user.UserID,
		"Username": user.Username,
		"FullName": user.FullName,
	})
}

// Login returns the user and a token, which is also set as the jwt cookie
func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var input loginInput
	if err := parseBody(ctx, &input, "Username and password are required"); err != nil {
		return fail(ctx, err)
	}

	user, token, err := c.Auth.Login(ctx.UserContext(), *input.Username, *input.Password)
	if err != nil {
		return fail(ctx, err)
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Expires:  time.Now().Add(c.Auth.TTL()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data":    user,
		"token":   token,
	})
}

func (c *AuthController) Logout(ctx *fiber.Ctx) error {
	ctx.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return successMessage(ctx, "Logged out", nil)
}

// Me returns the user behind the request's token
func (c *AuthController) Me(ctx *fiber.Ctx) error {
	user, ok := ctx.Locals(middleware.UserKey).(*Models.User)
	if !ok {
		return failStatus(ctx, fiber.StatusUnauthorized, "Not Logged In.")
	}
	return success(ctx, user)
}
