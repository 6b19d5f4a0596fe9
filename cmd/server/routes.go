package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"tracebloom.backend/internal/domain/entities"
	"tracebloom.backend/internal/interfaces/http/handlers"
	"tracebloom.backend/internal/interfaces/http/middleware"
)

const (
	serviceName    = "tracebloom-backend"
	serviceVersion = "1.0.0"
)

type routeDeps struct {
	authHandler        *handlers.AuthHandler
	farmerHandler      *handlers.FarmerHandler
	distributorHandler *handlers.DistributorHandler
	consumerHandler    *handlers.ConsumerHandler
	authMiddleware     gin.HandlerFunc
	idempotency        gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine, origins []string) {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader, middleware.IdempotencyHeader},
		ExposeHeaders: []string{"Content-Length", "X-Total-Count", "X-Total-Pages", "X-Page", "X-Limit", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerAPIRoutes(r *gin.Engine, d routeDeps) {
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", d.authHandler.Signup)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/wallet/nonce", d.authHandler.WalletNonce)
			auth.POST("/wallet/verify", d.authHandler.WalletVerify)
			auth.GET("/me", d.authMiddleware, d.authHandler.Me)
		}

		api.GET("/users/email/:email", d.authHandler.GetUserByEmail)

		// Farmer routes
		api.GET("/farmer/batches/:batchId", d.farmerHandler.GetBatch)
		farmer := api.Group("/farmer")
		farmer.Use(d.authMiddleware, middleware.RequireRole(string(entities.UserRoleFarmer)))
		{
			farmer.GET("/batches", d.farmerHandler.ListBatches)
			farmer.POST("/batches", d.farmerHandler.CreateBatch)
			farmer.GET("/payments", d.farmerHandler.ListPayments)
		}

		// Distributor routes
		distributor := api.Group("/distributor")
		distributor.Use(d.authMiddleware, middleware.RequireRole(string(entities.UserRoleDistributor)))
		{
			distributor.GET("/:email/batches", d.distributorHandler.ListBatches)
			distributor.GET("/:email/transactions", d.distributorHandler.Transactions)
			distributor.GET("/:email/shipments", d.distributorHandler.Shipments)
			distributor.POST("/accept", d.idempotency, d.distributorHandler.Accept)
			distributor.POST("/reject", d.idempotency, d.distributorHandler.Reject)
		}

		// Consumer routes
		api.GET("/consumer/reviews/:batchId", d.consumerHandler.Reviews)
		consumer := api.Group("/consumer")
		consumer.Use(d.authMiddleware, middleware.RequireRole(string(entities.UserRoleConsumer)))
		{
			consumer.GET("/batches/:consumerId", d.consumerHandler.ListBatches)
			consumer.GET("/payments/:consumerId", d.consumerHandler.Payments)
			consumer.GET("/accepted-batches/:consumerId", d.consumerHandler.AcceptedBatches)
			consumer.POST("/accept", d.idempotency, d.consumerHandler.Accept)
			consumer.POST("/reject", d.idempotency, d.consumerHandler.Reject)
			consumer.POST("/review", d.consumerHandler.CreateReview)
		}
	}
}
