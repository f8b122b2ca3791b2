package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"repair-order-backend/config"
	"repair-order-backend/internal/mw"
	"repair-order-backend/internal/order"
	"repair-order-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.ServerConfig, svc *order.Service, s store.Store, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(svc, s, webpushOptions)
	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		orders := api.Group("/repair-orders")
		orders.GET("", handler.ListOrders)

		// The late view is the only query worth caching; TTL 0 disables it.
		if cfg.CacheTTLSeconds > 0 {
			ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
			cacheStore := cache.New(ttl, 2*ttl)
			orders.GET("/late", mw.Cache(cacheStore, ttl), handler.ListLateOrders)
		} else {
			orders.GET("/late", handler.ListLateOrders)
		}

		orders.GET("/:id", handler.GetOrder)
		orders.POST("", handler.CreateOrder)
		orders.PUT("/:id", handler.UpdateOrder)
		orders.DELETE("/:id", handler.DeleteOrder)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
