package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"friendgraph/metrics"
	"friendgraph/middleware"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

func HealthCheck(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// SetupRouter wires every route. ws may be nil when push is disabled.
func SetupRouter(friendHandler *FriendHandler, db Pinger, ws gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORSMiddleware())

	r.GET("/health", HealthCheck(db))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	friends := r.Group("/api/friends")
	friends.Use(middleware.AuthMiddleware())
	{
		friends.GET("", friendHandler.GetFriends)
		friends.GET("/requests/outgoing", friendHandler.GetOutgoingRequests)
		friends.GET("/:user_id", friendHandler.GetFriend)
		friends.GET("/:user_id/mutual-count", friendHandler.GetMutualFriendCount)
		friends.POST("/mutual-counts", friendHandler.GetMutualFriendCounts)
		friends.POST("/request", friendHandler.SendFriendRequest)
		friends.POST("/accept/:user_id", friendHandler.AcceptFriendRequest)
		friends.POST("/decline/:user_id", friendHandler.DeclineFriendRequest)
	}

	if ws != nil {
		r.GET("/ws", ws)
	}

	return r
}
