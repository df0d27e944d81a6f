package FiberConfig

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"MatirBank/Config"
	"MatirBank/Controllers"
	"MatirBank/Models"
	"MatirBank/Services"
	"MatirBank/middleware"
)

// Deps is what the app needs from the process
type Deps struct {
	Config     Config.Config
	DB         *gorm.DB
	Log        *zap.Logger
	RequestLog *middleware.RequestLog
}

// NewApp builds the fiber app with its middleware chain and every route
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "MatirBank",
		ErrorHandler:          Controllers.ErrorHandler,
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	metrics := middleware.NewMetrics()

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.LoggingMiddleware(d.RequestLog, middleware.LogConfig{
		LogFilePath:   d.Config.RequestLogPath(),
		IncludeUserID: true,
		SkipPaths:     []string{"/health", "/metrics"},
	}))
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(metrics.PrometheusMiddleware())
	app.Use(middleware.Preflight())
	app.Use(middleware.CORS())

	app.Get("/health", health(d.DB))
	app.Get("/metrics", metrics.Handler())

	SetupRoutes(app, d)
	return app
}

// SetupRoutes registers the /api surface
func SetupRoutes(app *fiber.App, d Deps) {
	ledger := Services.NewLedger(d.DB, d.Log)
	auth := Services.NewAuthService(d.DB, d.Log, d.Config.JWTSecret, d.Config.JWTTTL)

	accountController := Controllers.NewAccountController(d.DB, ledger)
	goalController := Controllers.NewGoalController(d.DB)
	transactionController := Controllers.NewTransactionController(d.DB, ledger)
	productController := Controllers.NewProductController(d.DB)
	orderController := Controllers.NewOrderController(Services.NewOrderService(d.DB, d.Log))
	userController := Controllers.NewUserController(d.DB)
	authController := Controllers.NewAuthController(auth)
	bulkController := Controllers.NewBulkController(d.DB, Services.NewBulkService(d.DB, d.Log))
	samityController := Controllers.NewSamityController(d.DB, Services.NewSamityService(d.DB, d.Log))
	reputationController := Controllers.NewReputationController(Services.NewReputationService(d.DB, d.Log))
	logController := Controllers.NewLogController(d.Config.RequestLogPath(), d.Log)

	api := app.Group("/api")

	// Accounts
	api.Get("/accounts", accountController.GetAccounts)
	api.Get("/accounts/:id", accountController.GetAccount)
	api.Post("/accounts", accountController.CreateAccount)
	api.Put("/accounts", accountController.UpdateAccount)
	api.Put("/accounts/:id", accountController.UpdateAccount)
	api.Delete("/accounts", accountController.DeleteAccount)
	api.Delete("/accounts/:id", accountController.DeleteAccount)

	// Savings goals
	api.Get("/goals", goalController.GetGoals)
	api.Get("/goals/:id", goalController.GetGoal)
	api.Post("/goals", goalController.CreateGoal)
	api.Put("/goals", goalController.UpdateGoal)
	api.Put("/goals/:id", goalController.UpdateGoal)
	api.Delete("/goals", goalController.DeleteGoal)
	api.Delete("/goals/:id", goalController.DeleteGoal)

	// Transactions; export goes before the ID route
	api.Get("/transactions/export", transactionController.ExportStatement)
	api.Get("/transactions", transactionController.GetTransactions)
	api.Get("/transactions/:id", transactionController.GetTransaction)
	api.Post("/transactions", transactionController.CreateTransaction)
	api.Delete("/transactions", transactionController.DeleteTransaction)
	api.Delete("/transactions/:id", transactionController.DeleteTransaction)

	// Marketplace
	api.Get("/products", productController.GetProducts)
	api.Get("/products/:id", productController.GetProduct)
	api.Post("/products", productController.CreateProduct)
	api.Put("/products", productController.UpdateProduct)
	api.Put("/products/:id", productController.UpdateProduct)
	api.Delete("/products", productController.DeleteProduct)
	api.Delete("/products/:id", productController.DeleteProduct)

	api.Get("/orders", orderController.GetOrders)
	api.Get("/orders/:id", orderController.GetOrder)
	api.Post("/orders", orderController.PlaceOrder)

	// Users and sessions
	api.Get("/users", userController.GetUsers)
	api.Delete("/users", userController.DeleteUser)
	api.Delete("/users/:id", userController.DeleteUser)

	api.Post("/register", authController.Register)
	api.Post("/login", authController.Login)
	api.Post("/logout", authController.Logout)
	api.Get("/me", middleware.Verify(auth), authController.Me)

	// Action-dispatched resources
	api.Get("/bulk", bulkController.Get)
	api.Post("/bulk", bulkController.Post)

	api.Get("/samity", samityController.Get)
	api.Post("/samity", samityController.Post)
	api.Delete("/samity", samityController.Delete)

	api.Get("/reputation", reputationController.GetReputation)
	api.Post("/reputation", reputationController.SetScore)

	// Request log viewer
	logs := api.Group("/logs", middleware.Verify(auth, Models.RoleAdmin))
	logs.Get("/", logController.GetLogs)
	logs.Get("/stats", logController.GetLogStats)
}

func health(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"status": "ok"}})
	}
}
