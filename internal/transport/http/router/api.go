package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-inventory-api/internal/core/auth"
	"go-inventory-api/internal/core/server"
	"go-inventory-api/internal/service"
	mdw "go-inventory-api/internal/transport/http/middleware"
)

type APIOptions struct {
	Auth            *service.AuthService
	Products        *service.ProductService
	JWTer           *auth.JWTer
	CookieMaxAgeSec int  // 会话 cookie 寿命（秒）
	SecureCookie    bool // 生产环境置 true：Secure + SameSite=None
	CORSOrigins     []string
}

func NewAPIEngine(l *zap.Logger, o APIOptions) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(l),
		server.CORS(o.CORSOrigins),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	var reg Registry
	reg.Register(&userModule{svc: o.Auth, jwter: o.JWTer, cookieMaxAge: o.CookieMaxAgeSec, secureCookie: o.SecureCookie})
	reg.Register(&productModule{svc: o.Products, jwter: o.JWTer})
	reg.Register(&contactModule{svc: o.Auth, jwter: o.JWTer})
	reg.MountAPI(api)

	return r
}
