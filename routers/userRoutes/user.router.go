package userRoutes

import (
	userControllers "zbank/controllers/userControllers"
	"zbank/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/users")

	userGroup.Get("/search", middleware.JWTMiddleware, userControllers.SearchUsers)
	userGroup.Delete("/delete", middleware.JWTMiddleware, userControllers.DeleteUser)
	userGroup.Post("/delete-account", middleware.JWTMiddleware, userControllers.DeleteAccount)
}
