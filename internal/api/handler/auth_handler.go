package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartschool/backend/internal/dto"
	"smartschool/backend/internal/service"
	"smartschool/backend/pkg/response"
)

// AuthHandler 认证接口
type AuthHandler struct {
	auth   service.AuthService
	logger *zap.Logger
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(auth service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "请求参数错误")
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// Refresh POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "请求参数错误")
		return
	}
	resp, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// Logout POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := mustGetClaims(c)
	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OKMessage(c, "已退出登录")
}

// Me GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	p := mustGetPrincipal(c)
	resp, err := h.auth.Me(c.Request.Context(), p.UserID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}
