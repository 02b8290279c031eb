package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/agrikart/fulfillment/internal/domains/fulfillment/adapters/http/middleware"
)

// NewRouter builds the gin engine with observability middleware and the
// fulfillment routes mounted.
func NewRouter(api *API, serviceName string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName), middleware.Metrics())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		v1.POST("/checkout/sessions", api.CreateSession)
		v1.POST("/checkout/sessions/:ref/confirm", api.ConfirmSession)

		v1.GET("/orders", api.ListOrders)
		v1.POST("/orders/:id/status", api.AdvanceStatus)
		v1.POST("/orders/:id/otp", api.GenerateOtp)
		v1.POST("/orders/:id/otp/verify", api.VerifyOtp)

		v1.GET("/delivery/jobs", api.ListDeliveryJobs)
		v1.POST("/delivery/jobs/:id/claim", api.ClaimDeliveryJob)
	}

	return router
}
