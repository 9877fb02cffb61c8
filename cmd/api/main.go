package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-inventory-api/internal/core/auth"
	"go-inventory-api/internal/core/cache"
	"go-inventory-api/internal/core/config"
	"go-inventory-api/internal/core/database"
	"go-inventory-api/internal/core/logger"
	"go-inventory-api/internal/core/mail"
	"go-inventory-api/internal/core/server"
	"go-inventory-api/internal/core/upload"
	"go-inventory-api/internal/domain"
	"go-inventory-api/internal/repo"
	"go-inventory-api/internal/service"
	"go-inventory-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	// 自动迁移
	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}, &domain.ResetToken{}, &domain.Product{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// JWT：uid 载荷，24 小时会话
	sessionTTL := time.Duration(cfg.JWT.SessionTTLHours) * time.Hour
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    sessionTTL,
	}

	// 外部协作方
	mailer := mail.NewSMTP(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password)
	uploader, err := upload.NewCloudinary(cfg.Upload.CloudName, cfg.Upload.APIKey, cfg.Upload.APISecret, cfg.Upload.Folder)
	if err != nil {
		log.Fatal("uploader init", zap.Error(err))
	}
	rdb := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// 服务
	authSvc := service.NewAuthService(repo.NewUserRepo(db), repo.NewTokenRepo(db), mailer, jwter)
	authSvc.AppName = cfg.App.Name
	authSvc.FrontendURL = cfg.App.FrontendURL
	authSvc.FromAddr = cfg.Mail.From
	authSvc.SupportAddr = cfg.Mail.Support
	productSvc := service.NewProductService(repo.NewProductRepo(db), uploader, rdb)

	// 路由（用户端）；本地/开发环境外 cookie 走 Secure + SameSite=None
	secureCookie := cfg.App.Env != "local" && cfg.App.Env != "dev"
	r := router.NewAPIEngine(log, router.APIOptions{
		Auth:            authSvc,
		Products:        productSvc,
		JWTer:           jwter,
		CookieMaxAgeSec: int(sessionTTL.Seconds()),
		SecureCookie:    secureCookie,
		CORSOrigins:     cfg.CORS.Origins,
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("inventory api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("inventory api start FAILED", zap.Error(err))
		}
	}()
	log.Info("inventory api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("inventory api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
