package middleware

import (
	"fmt"
	"strings"
	"time"

	"zbank/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// GenerateJWT generates a JWT token for the user
func GenerateJWT(userID uint, name, email string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"name":   name,
		"email":  email,
		"iat":    time.Now().Unix(),                     // issued at
		"exp":    time.Now().Add(24 * time.Hour).Unix(), // expiry 24h
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	return token.SignedString(jwtSecret)
}

// parseToken validates the bearer token and returns its claims
func parseToken(authHeader string) (jwt.MapClaims, error) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, fmt.Errorf("invalid Authorization header format")
	}

	tokenString := authHeader[len("Bearer "):]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["userId"] == nil {
		return nil, fmt.Errorf("invalid token payload")
	}

	return claims, nil
}

// setSessionLocals stores the identity claims on the request context
func setSessionLocals(c *fiber.Ctx, claims jwt.MapClaims) {
	userID := claims["userId"].(float64) // JWT number claims decode as float64
	c.Locals("userId", uint(userID))

	if email, ok := claims["email"].(string); ok {
		c.Locals("email", email)
	}
	if name, ok := claims["name"].(string); ok {
		c.Locals("name", name)
	}
}

// JWTMiddleware is a middleware to check for valid JWT token in the request
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Missing or invalid Authorization header", nil)
	}

	claims, err := parseToken(authHeader)
	if err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, err.Error(), nil)
	}

	setSessionLocals(c, claims)
	return c.Next()
}

// OptionalJWTMiddleware populates session locals when a valid token is present
// but lets the request through either way. Used by routes that also accept an
// email in the body (OTP generation during signup).
func OptionalJWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Next()
	}

	if claims, err := parseToken(authHeader); err == nil {
		setSessionLocals(c, claims)
	}

	return c.Next()
}

// SessionEmail returns the authenticated user's email, if any
func SessionEmail(c *fiber.Ctx) (string, bool) {
	email, ok := c.Locals("email").(string)
	return email, ok && email != ""
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}
