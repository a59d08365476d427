package handler

import (
	"github.com/gin-gonic/gin"

	"smartschool/backend/internal/api/middleware"
	"smartschool/backend/internal/model"
	"smartschool/backend/pkg/jwt"
)

// mustGetPrincipal 取当前请求主体，认证中间件保证其存在
func mustGetPrincipal(c *gin.Context) model.Principal {
	return c.MustGet(middleware.ContextKeyPrincipal).(model.Principal)
}

// mustGetClaims 取当前请求的 JWT 声明
func mustGetClaims(c *gin.Context) *jwt.Claims {
	return c.MustGet(middleware.ContextKeyClaims).(*jwt.Claims)
}
