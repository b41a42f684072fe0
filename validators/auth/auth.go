package authValidator

import (
	"regexp"
	"strings"

	"zbank/middleware"
	"zbank/models"

	"github.com/gofiber/fiber/v2"
)

// Helper to validate email format
func isValidEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

// Helper to validate a 6-digit OTP code
func isValidOTPCode(code string) bool {
	re := regexp.MustCompile(`^\d{6}$`)
	return re.MatchString(code)
}

// RegisterRequest is the validated signup payload
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

// Register validator middleware
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RegisterRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Name)) < 2 {
			errors["name"] = "Name must be at least 2 characters long!"
		}
		if reqData.Email == "" || !isValidEmail(reqData.Email) {
			errors["email"] = "Invalid email!"
		}
		if len(strings.TrimSpace(reqData.Password)) < 8 {
			errors["password"] = "Password must be at least 8 characters long!"
		}
		if reqData.OTP == "" {
			errors["otp"] = "OTP is required!"
		} else if !isValidOTPCode(reqData.OTP) {
			errors["otp"] = "OTP must be a 6-digit code!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRegister", reqData)
		return c.Next()
	}
}

// LoginRequest is the validated signin payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Email == "" || !isValidEmail(reqData.Email) {
			errors["email"] = "Invalid email!"
		}
		if len(strings.TrimSpace(reqData.Password)) < 8 {
			errors["password"] = "Password must be at least 8 characters long!"
		}
		if reqData.OTP == "" {
			errors["otp"] = "OTP is required!"
		} else if !isValidOTPCode(reqData.OTP) {
			errors["otp"] = "OTP must be a 6-digit code!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

// GenerateOTPRequest is the validated OTP generation payload
type GenerateOTPRequest struct {
	Purpose models.OTPPurpose `json:"purpose"`
	Email   string            `json:"email"`
}

// GenerateOTP validator middleware. The email is optional here: authenticated
// callers get it from their session instead.
func GenerateOTP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(GenerateOTPRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Purpose == "" {
			reqData.Purpose = models.OTPPurposeTransfer
		}

		errors := make(map[string]string)

		if !models.IsValidOTPPurpose(reqData.Purpose) {
			errors["purpose"] = "Purpose must be one of signup, signin, transfer!"
		}
		if reqData.Email != "" && !isValidEmail(reqData.Email) {
			errors["email"] = "Invalid email!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGenerateOTP", reqData)
		return c.Next()
	}
}

// VerifyOTPRequest is the validated OTP verification payload. Both "code" and
// "otp" are accepted for the code field.
type VerifyOTPRequest struct {
	Code    string            `json:"code"`
	OTP     string            `json:"otp"`
	Purpose models.OTPPurpose `json:"purpose"`
	Email   string            `json:"email"`
}

// VerifyOTP validator middleware
func VerifyOTP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(VerifyOTPRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Code == "" {
			reqData.Code = reqData.OTP
		}
		if reqData.Purpose == "" {
			reqData.Purpose = models.OTPPurposeTransfer
		}

		errors := make(map[string]string)

		if reqData.Code == "" {
			errors["code"] = "OTP code is required!"
		}
		if !models.IsValidOTPPurpose(reqData.Purpose) {
			errors["purpose"] = "Purpose must be one of signup, signin, transfer!"
		}
		if reqData.Email != "" && !isValidEmail(reqData.Email) {
			errors["email"] = "Invalid email!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVerifyOTP", reqData)
		return c.Next()
	}
}
