package cardRoutes

import (
	cardControllers "zbank/controllers/card"
	"zbank/middleware"
	cardValidators "zbank/validators/card"

	"github.com/gofiber/fiber/v2"
)

func SetupCardRoutes(app *fiber.App) {
	cardGroup := app.Group("/cards")

	cardGroup.Get("/", middleware.JWTMiddleware, cardControllers.ListCards)
	cardGroup.Post("/", cardValidators.CreateCard(), middleware.JWTMiddleware, cardControllers.CreateCard)
	cardGroup.Delete("/:id", middleware.JWTMiddleware, cardControllers.DeleteCard)
	cardGroup.Patch("/:id/status", cardValidators.UpdateStatus(), middleware.JWTMiddleware, cardControllers.UpdateCardStatus)
}
