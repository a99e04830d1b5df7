package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iswift/iswift_backend/cmd/docs"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/middleware"
	"github.com/iswift/iswift_backend/internal/platform/config"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RateLimits holds the middlewares guarding brute-forceable routes.
// A nil entry leaves its route unlimited.
type RateLimits struct {
	Login gin.HandlerFunc
	OTP   gin.HandlerFunc
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	limits RateLimits,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	v1 := r.Group("/api/v1")
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer)

	// Public authentication routes
	auth := v1.Group("/auth")
	registerAuthRoutes(auth, services, orPassThrough(limits.Login), orPassThrough(limits.OTP))
	registerGoogleOAuthRoutes(auth, services)
	registerMeRoute(auth.Group("", authMiddleware), services.User)

	finance := v1.Group("/finance")
	registerCurrencyRoutes(finance, services.Currency)

	setupFinanceRoutes(finance.Group("", authMiddleware), services)

	setupSwaggerRoutes(r, cfg)
}

// setupFinanceRoutes delegates the authenticated /finance routes to the entity handlers.
func setupFinanceRoutes(finance *gin.RouterGroup, services *portssvc.ServiceContainer) {
	registerUserRoutes(finance, services.User)
	registerAccountRoutes(finance, services.Account)
	registerTransferRoutes(finance, services.Transfer, services.History)
	registerRateRoutes(finance, services.Currency)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func orPassThrough(h gin.HandlerFunc) gin.HandlerFunc {
	if h != nil {
		return h
	}
	return func(c *gin.Context) { c.Next() }
}
