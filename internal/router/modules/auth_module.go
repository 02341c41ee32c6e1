package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/inventory-order-api/internal/container"
	handlers "github.com/oksasatya/inventory-order-api/internal/interface/http"
	"github.com/oksasatya/inventory-order-api/internal/interface/middleware"
	"github.com/oksasatya/inventory-order-api/pkg/helpers"
)

// AuthModule wires registration, login, session and verification routes.
// Public: POST /api/auth/register, /api/auth/login, /api/auth/refresh, GET /api/auth/user/verify/:tokenId
// Protected: POST /api/auth/logout, /api/auth/verify/resend, GET /api/profile
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	// Public endpoints with IP-based rate limits
	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIPAndPath(), nil)
	verifyLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/refresh", refreshLimiter, m.Handler.Refresh)
	rg.GET("/auth/user/verify/:tokenId", verifyLimiter, m.Handler.VerifyEmail)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, m.JWT))
	{
		auth.POST("/auth/logout", m.Handler.Logout)
		auth.POST("/auth/verify/resend", middleware.RateLimit(rdb, 3, time.Minute, middleware.KeyByUserID(), nil), m.Handler.ResendVerification)
		auth.GET("/profile", m.Handler.Profile)
	}
}
