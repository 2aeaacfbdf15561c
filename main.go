package main

import (
	"log"

	"optic_manager/config"
	"optic_manager/database"
	"optic_manager/helper"
	"optic_manager/router"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	app := fiber.New()

	database.ConnectDB()

	helper.StartStockScheduler()
	defer helper.StopStockScheduler()
	helper.StartHearingServiceScheduler()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.Config("CORS_ORIGIN"),
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie",
		MaxAge:           600,
	}))

	router.SetupRoutes(app)

	log.Fatal(app.Listen(":" + config.Config("PORT")))
}
