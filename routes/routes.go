package routes

import (
	"os"

	"oficinapro-backend/config"
	"oficinapro-backend/controllers"
	"oficinapro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		origins = append(origins, frontend)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.RequestLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api/v1")
	api.Use(utils.AuthMiddleware())
	{
		// Tenant routes
		tenants := api.Group("/tenants")
		{
			tenants.GET("/me", controllers.GetMyTenant)
			tenants.PUT("/me", controllers.UpdateMyTenant)
			tenants.GET("/me/stats", controllers.GetTenantStats)
		}

		// User routes
		users := api.Group("/users")
		{
			users.GET("/me", controllers.GetProfile)
			users.PUT("/me", controllers.UpdateProfile)
			users.PATCH("/me/password", controllers.ChangeMyPassword)

			users.POST("", controllers.CreateUser)
			users.GET("", controllers.GetUsers)
			users.GET("/:id", controllers.GetUser)
			users.PUT("/:id", controllers.UpdateUser)
			users.DELETE("/:id", controllers.DeleteUser)
		}

		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
		}

		// Vehicle routes
		vehicles := api.Group("/vehicles")
		{
			vehicles.POST("", controllers.CreateVehicle)
			vehicles.GET("", controllers.GetVehicles)
			vehicles.GET("/plate/:plate", controllers.GetVehicleByPlate)
			vehicles.POST("/ocr-plate", controllers.OCRPlate)
			vehicles.POST("/ocr-plate-and-lookup", controllers.OCRPlateAndLookup)
			vehicles.GET("/:id", controllers.GetVehicle)
			vehicles.PUT("/:id", controllers.UpdateVehicle)
			vehicles.DELETE("/:id", controllers.DeleteVehicle)
		}

		// Service order routes
		orders := api.Group("/service-orders")
		{
			orders.POST("", controllers.CreateServiceOrder)
			orders.GET("", controllers.GetServiceOrders)
			orders.GET("/:id", controllers.GetServiceOrder)
			orders.PUT("/:id", controllers.UpdateServiceOrder)
			orders.DELETE("/:id", controllers.DeleteServiceOrder)
			orders.PATCH("/:id/status", controllers.UpdateServiceOrderStatus)
			orders.POST("/:id/items", controllers.AddServiceOrderItem)
			orders.DELETE("/:id/items/:itemId", controllers.RemoveServiceOrderItem)
		}

		// Diagnostic routes
		diagnostics := api.Group("/diagnostics")
		{
			diagnostics.POST("", controllers.CreateDiagnostic)
			diagnostics.GET("/service-order/:serviceOrderId", controllers.GetDiagnosticsByOrder)
			diagnostics.POST("/upload-audio/:serviceOrderId", controllers.UploadDiagnosticAudio)
			diagnostics.POST("/text/:serviceOrderId", controllers.ProcessDiagnosticText)
			diagnostics.POST("/analyze-image/:serviceOrderId", controllers.AnalyzeDiagnosticImage)
			diagnostics.GET("/:id", controllers.GetDiagnostic)
			diagnostics.POST("/:id/transcribe", controllers.TranscribeDiagnostic)
			diagnostics.POST("/:id/process", controllers.ProcessDiagnostic)
			diagnostics.POST("/:id/create-items", controllers.CreateDiagnosticItems)
		}
	}

	return r
}
