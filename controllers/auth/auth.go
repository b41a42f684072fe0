package authController

import (
	"log"

	"zbank/config"
	"zbank/database"
	"zbank/middleware"
	"zbank/models"
	"zbank/utils"
	authValidator "zbank/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Register creates a new user after verifying a signup OTP
func Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRegister").(*authValidator.RegisterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// OTP gates account creation
	if !utils.VerifyOTPCode(db, reqData.Email, reqData.OTP, models.OTPPurposeSignup) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired OTP", nil)
	}

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User with this email already exists", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	utils.SendWelcomeEmail(newUser.Email, newUser.Name)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User created successfully", fiber.Map{
		"user": fiber.Map{
			"id":    newUser.ID,
			"email": newUser.Email,
		},
	})
}

// Login checks credentials plus a signin OTP and issues a session token
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if !utils.VerifyOTPCode(db, reqData.Email, reqData.OTP, models.OTPPurposeSignin) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired OTP", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// GenerateOTP issues a new code for the given purpose. Unauthenticated callers
// (signup) must supply an email; everyone else gets it from the session.
func GenerateOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedGenerateOTP").(*authValidator.GenerateOTPRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	email := reqData.Email
	if email == "" {
		sessionEmail, ok := middleware.SessionEmail(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
		}
		email = sessionEmail
	}

	code, err := utils.CreateAndSendOTP(database.Database.Db, email, reqData.Purpose)
	if err != nil {
		log.Printf("OTP generation error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send OTP", nil)
	}

	data := fiber.Map{}
	// Never leak codes in production responses
	if !config.IsProduction() {
		data["otp"] = code
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent successfully", data)
}

// VerifyOTP validates a code without any side effects beyond consuming it
func VerifyOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVerifyOTP").(*authValidator.VerifyOTPRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	email := reqData.Email
	if email == "" {
		sessionEmail, ok := middleware.SessionEmail(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
		}
		email = sessionEmail
	}

	if !utils.VerifyOTPCode(database.Database.Db, email, reqData.Code, reqData.Purpose) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired OTP", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP verified successfully", nil)
}
