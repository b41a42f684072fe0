package transferRoutes

import (
	transferControllers "zbank/controllers/transfer"
	"zbank/middleware"
	transferValidators "zbank/validators/transfer"

	"github.com/gofiber/fiber/v2"
)

func SetupTransferRoutes(app *fiber.App) {
	transferGroup := app.Group("/transfers")

	transferGroup.Post("/", transferValidators.Transfer(), middleware.JWTMiddleware, transferControllers.CreateTransfer)
	transferGroup.Get("/recipient-cards", middleware.JWTMiddleware, transferControllers.GetRecipientCards)
}
