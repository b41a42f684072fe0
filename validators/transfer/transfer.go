package transferValidator

import (
	"regexp"

	"zbank/middleware"

	"github.com/gofiber/fiber/v2"
)

func isValidEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

func isValidOTPCode(code string) bool {
	re := regexp.MustCompile(`^\d{6}$`)
	return re.MatchString(code)
}

// TransferRequest is the validated peer-to-peer transfer payload
type TransferRequest struct {
	RecipientEmail  string  `json:"recipientEmail"`
	CardID          uint    `json:"cardId"`
	Amount          float64 `json:"amount"`
	Description     string  `json:"description"`
	OTP             string  `json:"otp"`
	RecipientCardID uint    `json:"recipientCardId"`
}

// Transfer validator middleware
func Transfer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(TransferRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.RecipientEmail == "" || !isValidEmail(reqData.RecipientEmail) {
			errors["recipientEmail"] = "Invalid recipient email!"
		}
		if reqData.CardID == 0 {
			errors["cardId"] = "Card is required!"
		}
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be positive!"
		}
		if reqData.OTP == "" {
			errors["otp"] = "OTP is required!"
		} else if !isValidOTPCode(reqData.OTP) {
			errors["otp"] = "OTP must be a 6-digit code!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTransfer", reqData)
		return c.Next()
	}
}
