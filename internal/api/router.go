package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires all routes. The handler layer stays thin; every
// route is one service call plus error mapping.
func NewRouter(h *Handler, logger *zap.Logger, allowOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/users", h.createUser)
		v1.GET("/users", h.listUsers)
		v1.GET("/users/:id", h.getUser)
		v1.POST("/users/:id/points", h.adjustPoints)
		v1.GET("/users/:id/transactions", h.listTransactions)

		v1.POST("/users/:id/tasks", h.createTask)
		v1.GET("/users/:id/tasks", h.listTasks)
		v1.POST("/users/:id/tasks/:taskID/start", h.startTask)
		v1.POST("/users/:id/tasks/:taskID/complete", h.completeTask)
		v1.DELETE("/users/:id/tasks/:taskID", h.deleteTask)

		v1.POST("/missions", h.createMission)
		v1.GET("/missions", h.listMissions)
		v1.GET("/users/:id/missions", h.listUserMissions)
		v1.POST("/users/:id/missions/:missionID/claim", h.claimMission)
		v1.POST("/users/:id/missions/:missionID/evaluate", h.evaluateMission)
		v1.POST("/users/:id/missions/:missionID/reward", h.claimMissionReward)

		v1.POST("/shop/items", h.createItem)
		v1.GET("/shop/items", h.listItems)
		v1.POST("/users/:id/purchases", h.purchase)
		v1.GET("/users/:id/purchases", h.listPurchases)
	}

	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
