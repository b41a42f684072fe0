package transactionValidator

import (
	"strings"

	"zbank/middleware"
	"zbank/models"

	"github.com/gofiber/fiber/v2"
)

// CreateTransactionRequest is the validated payment payload
type CreateTransactionRequest struct {
	CardID       uint                   `json:"cardId"`
	Amount       float64                `json:"amount"`
	Type         models.TransactionType `json:"type"`
	Description  string                 `json:"description"`
	MerchantName string                 `json:"merchantName"`
	Category     string                 `json:"category"`
}

// CreateTransaction validator middleware
func CreateTransaction() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateTransactionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.CardID == 0 {
			errors["cardId"] = "Card is required!"
		}
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be positive!"
		}
		if !models.IsValidTransactionType(reqData.Type) {
			errors["type"] = "Invalid transaction type!"
		}
		if len(strings.TrimSpace(reqData.Description)) == 0 {
			errors["description"] = "Description is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateTransaction", reqData)
		return c.Next()
	}
}
