package main

import (
	"log"

	"zbank/config"
	"zbank/database"
	authRoutes "zbank/routers/authRoutes"
	cardRoutes "zbank/routers/cardRoutes"
	otpRoutes "zbank/routers/otpRoutes"
	transactionRoutes "zbank/routers/transactionRoutes"
	transferRoutes "zbank/routers/transferRoutes"
	userRoutes "zbank/routers/userRoutes"
	"zbank/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	utils.InitMailer()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	otpRoutes.SetupOTPRoutes(app)
	cardRoutes.SetupCardRoutes(app)
	transactionRoutes.SetupTransactionRoutes(app)
	transferRoutes.SetupTransferRoutes(app)
	userRoutes.SetupUserRoutes(app)

	utils.StartOTPCleanup()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
