package transactionRoutes

import (
	transactionControllers "zbank/controllers/transaction"
	"zbank/middleware"
	transactionValidators "zbank/validators/transaction"

	"github.com/gofiber/fiber/v2"
)

func SetupTransactionRoutes(app *fiber.App) {
	transactionGroup := app.Group("/transactions")

	transactionGroup.Get("/", middleware.JWTMiddleware, transactionControllers.ListTransactions)
	transactionGroup.Get("/summary", middleware.JWTMiddleware, transactionControllers.GetSpendingSummary)
	transactionGroup.Post("/", transactionValidators.CreateTransaction(), middleware.JWTMiddleware, transactionControllers.CreateTransaction)
}
