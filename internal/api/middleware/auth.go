package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"smartschool/backend/internal/model"
	"smartschool/backend/pkg/jwt"
	"smartschool/backend/pkg/redis"
	"smartschool/backend/pkg/response"
)

const (
	// ContextKeyPrincipal 请求主体在 gin.Context 中的键
	ContextKeyPrincipal = "principal"
	// ContextKeyClaims JWT 声明在 gin.Context 中的键
	ContextKeyClaims = "claims"
)

// JWTAuth 认证中间件：解析 Bearer Token，构建请求主体
// 凭证角色限定字段缺失时整个请求以 401 拒绝，而非带着残缺身份继续
func JWTAuth(jwtManager *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, response.CodeUnauthorized, "缺少认证信息")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, response.CodeUnauthorized, "认证格式错误")
			c.Abort()
			return
		}

		claims, err := jwtManager.ParseToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Unauthorized(c, response.CodeUnauthorized, "登录已过期，请重新登录")
			} else {
				response.Unauthorized(c, response.CodeUnauthorized, "无效的认证信息")
			}
			c.Abort()
			return
		}
		if claims.TokenType != "access" {
			response.Unauthorized(c, response.CodeUnauthorized, "无效的认证信息")
			c.Abort()
			return
		}

		if rdb != nil {
			revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Unauthorized(c, response.CodeTokenRevoked, "令牌已失效")
				c.Abort()
				return
			}
		}

		principal, err := model.NewPrincipal(claims.Role, claims.UserID, claims.TeacherID, claims.StudentID, claims.ClassID)
		if err != nil {
			response.Unauthorized(c, response.CodeUnauthorized, "凭证身份信息不完整")
			c.Abort()
			return
		}

		c.Set(ContextKeyPrincipal, principal)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RoleAuth 角色白名单中间件，须在 JWTAuth 之后使用
func RoleAuth(roles ...model.Role) gin.HandlerFunc {
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		v, exists := c.Get(ContextKeyPrincipal)
		if !exists {
			response.Unauthorized(c, response.CodeUnauthorized, "缺少认证信息")
			c.Abort()
			return
		}
		p := v.(model.Principal)
		if _, ok := allowed[p.Role]; !ok {
			response.Forbidden(c, response.CodeForbidden, "无权访问该接口")
			c.Abort()
			return
		}
		c.Next()
	}
}
