package cardValidator

import (
	"zbank/middleware"
	"zbank/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateCardRequest is the validated card issuance payload
type CreateCardRequest struct {
	CardType       models.CardType `json:"cardType" validate:"required,oneof=PHYSICAL VIRTUAL"`
	Scheme         string          `json:"scheme" validate:"required"`
	CardholderName string          `json:"cardholderName" validate:"omitempty,min=2"`
	CreditLimit    float64         `json:"creditLimit" validate:"omitempty,min=0"`
	DailyLimit     float64         `json:"dailyLimit" validate:"required,min=100,max=10000"`
	PIN            string          `json:"pin" validate:"omitempty,len=4,numeric"`

	DeliveryAddress string `json:"deliveryAddress"`
	DeliveryCity    string `json:"deliveryCity"`
	DeliveryState   string `json:"deliveryState"`
	DeliveryZipCode string `json:"deliveryZipCode"`
	DeliveryCountry string `json:"deliveryCountry"`
}

// messages for validator tag failures, keyed by struct field
var createCardMessages = map[string]string{
	"CardType":       "Card type must be PHYSICAL or VIRTUAL!",
	"Scheme":         "Scheme is required!",
	"CardholderName": "Cardholder name must be at least 2 characters!",
	"CreditLimit":    "Credit limit cannot be negative!",
	"DailyLimit":     "Daily limit must be between 100 and 10000!",
	"PIN":            "PIN must be exactly 4 digits!",
}

// CreateCard validator middleware
func CreateCard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCardRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if err := validate.Struct(reqData); err != nil {
			if fieldErrors, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range fieldErrors {
					errors[fe.Field()] = createCardMessages[fe.Field()]
				}
			} else {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		// Delivery details are mandatory for physical cards only
		if reqData.CardType == models.CardTypePhysical {
			if reqData.DeliveryAddress == "" || reqData.DeliveryCity == "" || reqData.DeliveryState == "" ||
				reqData.DeliveryZipCode == "" || reqData.DeliveryCountry == "" {
				errors["deliveryAddress"] = "Delivery address is required for physical cards!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateCard", reqData)
		return c.Next()
	}
}

// UpdateStatusRequest is the validated card status payload
type UpdateStatusRequest struct {
	Status models.CardStatus `json:"status"`
}

// UpdateStatus validator middleware
func UpdateStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateStatusRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		switch reqData.Status {
		case models.CardStatusActive, models.CardStatusFrozen, models.CardStatusBlocked:
		default:
			errors["status"] = "Status must be one of ACTIVE, FROZEN, BLOCKED!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateStatus", reqData)
		return c.Next()
	}
}
