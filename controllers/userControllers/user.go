package userController

import (
	"log"
	"strings"

	"zbank/database"
	"zbank/middleware"
	"zbank/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SearchUsers finds up to 10 users whose name or email contains the query,
// excluding the caller. Queries shorter than 2 characters return nothing.
func SearchUsers(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	query := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if len(query) < 2 {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched!", []fiber.Map{})
	}

	var users []models.User
	pattern := "%" + query + "%"
	if err := database.Database.Db.
		Where("(LOWER(email) LIKE ? OR LOWER(name) LIKE ?) AND id <> ?", pattern, pattern, userId).
		Limit(10).
		Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to search users!", nil)
	}

	results := make([]fiber.Map, 0, len(users))
	for _, user := range users {
		results = append(results, fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched!", results)
}

// deleteUserCascade removes the user and everything they own inside one
// database transaction: transactions, cards, OTP rows, then the user row.
func deleteUserCascade(db *gorm.DB, user *models.User) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Card{}).Error; err != nil {
			return err
		}
		if err := tx.Where("email = ?", user.Email).Delete(&models.OTP{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}

// DeleteUser removes the caller's account and all owned data
func DeleteUser(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	db := database.Database.Db

	var user models.User
	if err := db.First(&user, userId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
	}

	if err := deleteUserCascade(db, &user); err != nil {
		log.Printf("Account deletion error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete account", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Account deleted successfully", nil)
}

// DeleteAccount is the password-confirmed variant of account deletion
func DeleteAccount(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData := new(struct {
		Password string `json:"password"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Password == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Password is required to delete account", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, userId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid password", nil)
	}

	if err := deleteUserCascade(db, &user); err != nil {
		log.Printf("Account deletion error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete account", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Account deleted successfully", nil)
}
