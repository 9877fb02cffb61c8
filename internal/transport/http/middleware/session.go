package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-inventory-api/internal/core/auth"
	resp "go-inventory-api/internal/transport/http/response"
)

// SessionCookie 会话 cookie 名
const SessionCookie = "token"

// Session 从 HTTP-only cookie 取会话令牌（兼容 Bearer 头），校验后注入 userId/role
func Session(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := sessionToken(c)
		if tok == "" {
			resp.AbortError(c, http.StatusUnauthorized, "Not authorized, please login")
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			resp.AbortError(c, http.StatusUnauthorized, "Not authorized, please login")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			resp.AbortError(c, http.StatusForbidden, "Forbidden")
			return
		}
		c.Set("userId", claims.UID)
		c.Set("role", claims.Role)
		c.Set("claims", claims)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if tok, err := c.Cookie(SessionCookie); err == nil && tok != "" {
		return tok
	}
	if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
		return strings.TrimPrefix(ah, "Bearer ")
	}
	return ""
}

// SetSession 下发 HTTP-only 会话 cookie，path "/"。
// secure 模式下 SameSite=None + Secure，跨站前端才能带 cookie
func SetSession(c *gin.Context, token string, maxAgeSec int, secure bool) {
	c.SetSameSite(sameSiteMode(secure))
	c.SetCookie(SessionCookie, token, maxAgeSec, "/", "", secure, true)
}

// ClearSession 用已过期的空值覆盖会话 cookie
func ClearSession(c *gin.Context, secure bool) {
	c.SetSameSite(sameSiteMode(secure))
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}

func sameSiteMode(secure bool) http.SameSite {
	if secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
