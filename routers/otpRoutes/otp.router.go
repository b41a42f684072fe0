package otpRoutes

import (
	authControllers "zbank/controllers/auth"
	"zbank/middleware"
	authValidators "zbank/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupOTPRoutes(app *fiber.App) {
	otpGroup := app.Group("/otp")

	// Optional auth: signup callers pass an email, signed-in callers rely on
	// their session identity.
	otpGroup.Post("/generate", authValidators.GenerateOTP(), middleware.OptionalJWTMiddleware, authControllers.GenerateOTP)
	otpGroup.Post("/verify", authValidators.VerifyOTP(), middleware.OptionalJWTMiddleware, authControllers.VerifyOTP)
}
