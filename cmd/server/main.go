package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"healthtrack/backend/internal/auth"
	"healthtrack/backend/internal/config"
	"healthtrack/backend/internal/database"
	"healthtrack/backend/internal/handler"
	"healthtrack/backend/internal/notify"
	"healthtrack/backend/internal/relationship"

	// Swagger imports
	_ "healthtrack/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Healthtrack API
// @version         1.0
// @description     Backend for the personal health-tracking application.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	// The relationship core gets its collaborators injected; everything it
	// needs to enforce the friend-request invariants flows through here.
	users := database.NewUserDirectory(database.DB)
	store := relationship.NewStore(database.DB)
	svc := relationship.NewService(store, users, relationship.SystemClock(), notify.NewExpoNotifier())

	relations := handler.NewRelationHandler(svc)
	shares := handler.NewShareHandler(svc)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/verify", handler.VerifyEmail)
			authRoutes.POST("/login", handler.LoginUser)
			authRoutes.POST("/forgot-password", handler.ForgotPassword)
			authRoutes.POST("/reset-password", handler.ResetPassword)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.PUT("/me", handler.UpdateMe)
			userRoutes.POST("/me/push-token", handler.RegisterPushToken)
			userRoutes.GET("/me/medical", handler.GetMedicalProfile)
			userRoutes.PUT("/me/medical", handler.UpdateMedicalProfile)
			userRoutes.GET("/me/settings", handler.GetSettings)
			userRoutes.PUT("/me/settings", handler.UpdateSettings)
		}

		// Friendship routes (protected)
		friendRoutes := apiV1.Group("/friend")
		friendRoutes.Use(auth.AuthMiddleware())
		{
			friendRoutes.GET("/code", relations.GetInviteCode)
			friendRoutes.POST("/send", relations.SendInvite)
			friendRoutes.GET("/:id/accept", relations.AcceptInvite)
			friendRoutes.GET("/:id/refuse", relations.RefuseInvite)
			friendRoutes.POST("/:id/read", relations.MarkResultRead)
			friendRoutes.GET("/requests", relations.GetRequests)
			friendRoutes.GET("/results", relations.GetResults)
			friendRoutes.GET("/list", relations.GetFriendList)
			friendRoutes.POST("/remove", relations.RemoveFriends)
		}

		// Diary record routes (protected)
		recordRoutes := apiV1.Group("/records")
		recordRoutes.Use(auth.AuthMiddleware())
		{
			recordRoutes.GET("", handler.GetRecords)
			recordRoutes.DELETE("", handler.DeleteRecords)
			recordRoutes.POST("/blood-sugar", handler.AddBloodSugar)
			recordRoutes.POST("/blood-pressure", handler.AddBloodPressure)
			recordRoutes.POST("/weight", handler.AddWeight)
			recordRoutes.POST("/diet", handler.AddDiet)
			recordRoutes.POST("/a1c", handler.AddA1C)
			recordRoutes.GET("/a1c", handler.GetA1CRecords)
		}

		// Sharing routes (protected)
		shareRoutes := apiV1.Group("/share")
		shareRoutes.Use(auth.AuthMiddleware())
		{
			shareRoutes.POST("", shares.ShareRecord)
			shareRoutes.GET("", shares.GetSharedRecords)
		}

		// News (protected)
		apiV1.GET("/news", auth.AuthMiddleware(), handler.GetNews)
	}

	addr := ":" + config.AppConfig.Port
	logrus.WithField("addr", addr).Info("Server is running")
	logrus.Info("Swagger UI is available at http://localhost" + addr + "/swagger/index.html")
	logrus.Fatal(router.Run(addr))
}
