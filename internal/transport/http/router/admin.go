package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-inventory-api/internal/core/auth"
	"go-inventory-api/internal/core/server"
	"go-inventory-api/internal/domain"
	mdw "go-inventory-api/internal/transport/http/middleware"
)

// NewAdminEngine 管理端：ginzap 基础链 + 统一 admin 角色
func NewAdminEngine(l *zap.Logger, users domain.UserRepository, jwter *auth.JWTer, corsOrigins []string) *gin.Engine {
	r := server.NewRouter(l, corsOrigins)
	r.Use(mdw.RequestID(), mdw.Metrics())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := r.Group("/admin/v1")
	admin.Use(mdw.Session(jwter, "admin"))

	mountAdminActions(admin, users)

	return r
}
