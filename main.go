package main

import (
	"fmt"
	"os"

	"oficinapro-backend/config"
	"oficinapro-backend/controllers"
	"oficinapro-backend/models"
	"oficinapro-backend/routes"
	"oficinapro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Customer{},
		&models.Vehicle{},
		&models.ServiceOrder{},
		&models.OSItem{},
		&models.Diagnostic{},
		&models.NotificationLog{},
	)
}

func main() {
	notifier := services.NewNotificationService(config.DB)
	orders := services.NewOrderService(config.DB, notifier)
	diagnostics := services.NewDiagnosticService(config.DB, services.NewOpenAIFromEnv())
	vision := services.NewVisionFromEnv()

	controllers.Setup(orders, diagnostics, vision)
	notifier.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
