// internal/api/router.go
package api

import (
	"context"
	"net/http"
	"time"

	"rank-boost/internal/common/config"
	apperrors "rank-boost/internal/common/errors"
	"rank-boost/internal/common/logger"
	"rank-boost/internal/common/validation"
	"rank-boost/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OrderService is the part of the order store the HTTP layer needs.
type OrderService interface {
	Create(ctx context.Context, req *models.OrderRequest) (*models.Order, error)
	List(ctx context.Context) []*models.Order
	UpdateStatus(ctx context.Context, id, status string) (*models.Order, error)
}

// ReadinessCheck reports whether storage is reachable.
type ReadinessCheck func(ctx context.Context) error

type RouterOptions struct {
	Server    config.ServerConfig
	Orders    OrderService
	Validator *validation.Validator
	Logger    logger.Logger
	Ready     ReadinessCheck
}

// NewRouter wires the order API, operational endpoints and static files.
func NewRouter(opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORS())
	r.Use(RequestID())
	r.Use(RequestLogger(opts.Logger))
	r.Use(RequestMetrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	r.GET("/ready", readyHandler(opts.Ready))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	orders := NewOrderHandler(
		opts.Orders,
		opts.Validator,
		apperrors.NewResponseHandler(opts.Logger),
		config.GetDuration(opts.Server.RequestTimeout),
	)
	r.POST("/submit-order", orders.SubmitOrder)

	admin := r.Group("/admin")
	{
		admin.GET("/orders", orders.ListOrders)
		admin.PUT("/orders/:id", orders.UpdateOrderStatus)
	}

	static := NewStaticHandler(opts.Server.StaticRoot, opts.Server.NotFoundPage, opts.Logger)
	r.NoRoute(static.Serve)

	return r
}

func readyHandler(check ReadinessCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
