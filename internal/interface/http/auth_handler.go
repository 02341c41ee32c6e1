package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/inventory-order-api/internal/application"
	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	"github.com/oksasatya/inventory-order-api/internal/interface/middleware"
	"github.com/oksasatya/inventory-order-api/pkg/helpers"
	"github.com/oksasatya/inventory-order-api/pkg/response"
	"github.com/oksasatya/inventory-order-api/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Verify  *application.VerificationService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, verify *application.VerificationService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Verify: verify, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	User        userView `json:"user"`
	AccessToken string   `json:"access_token"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res := h.Svc.Register(c.Request.Context(), req.Username, req.Password, req.Email)
	writeResult(c, res, "registered, check your email to verify the account", toUserView)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	h.writeSession(c, res, "login successful")
}

// Refresh POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshCookie)
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	res := h.Svc.Refresh(c.Request.Context(), refresh)
	h.writeSession(c, res, "token refreshed")
}

func (h *AuthHandler) writeSession(c *gin.Context, res application.Result[*application.Session], message string) {
	if !res.Succeeded() {
		response.Error[any](c, statusOf(res.Kind()), res.Message(), nil)
		return
	}
	s := res.Value()
	pair := s.Tokens
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, loginResponse{User: toUserView(s.User), AccessToken: pair.AccessToken}, message,
		map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	res := h.Svc.Logout(c.Request.Context(), middleware.UserID(c))
	h.Cookies.Clear(c)
	writeResult(c, res, "logged out", func(bool) gin.H { return gin.H{"logged_out": true} })
}

// VerifyEmail GET /api/auth/user/verify/:tokenId
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	res := h.Verify.Verify(c.Request.Context(), c.Param("tokenId"))
	writeResult(c, res, "email verified", func(u *entity.User) gin.H {
		return gin.H{"verified": true, "user_id": u.ID}
	})
}

// ResendVerification POST /api/auth/verify/resend
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	res := h.Svc.ResendVerification(c.Request.Context(), middleware.UserID(c))
	writeResult(c, res, "verification email sent", func(sent bool) gin.H {
		return gin.H{"sent": sent}
	})
}

// Profile GET /api/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	res := h.Svc.Profile(c.Request.Context(), middleware.UserID(c))
	writeResult(c, res, "profile", toUserView)
}
