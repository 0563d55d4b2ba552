package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"expensetracker/api"
	"expensetracker/config"
	_ "expensetracker/docs"
	"expensetracker/middleware"
	"expensetracker/service"
	"expensetracker/sessionauth"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, svc *service.Services, log *slog.Logger) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	signer := sessionauth.NewSigner(cfg.Session.Secret)
	tokens := sessionauth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer)
	flash := api.NewFlashStore(signer, cfg.IsRelease())

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLog(log),
		middleware.Recovery(log),
		middleware.Prometheus(),
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.SecurityHeaders(cfg.IsRelease()),
		middleware.SessionAuth(svc.Auth, signer, tokens, cfg.Session.CookieName, log),
	)

	authHandler := api.NewAuthHandler(cfg, svc.Auth, signer, tokens, flash)
	expenseHandler := api.NewExpenseHandler(cfg, svc.Expenses, svc.Categories, flash)
	categoryHandler := api.NewCategoryHandler(cfg, svc.Categories, flash)
	profileHandler := api.NewProfileHandler(cfg, svc.Profiles, flash)
	exportHandler := api.NewExportHandler(cfg, svc.Expenses)

	// 无需登录
	r.GET("/", expenseHandler.Index)
	r.GET("/register", authHandler.RegisterPage)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	// 需要登录
	authorized := r.Group("")
	authorized.Use(middleware.RequireLogin())
	{
		authorized.POST("/", expenseHandler.Create)
		authorized.GET("/edit_expense/:id", expenseHandler.EditPage)
		authorized.POST("/edit_expense/:id", expenseHandler.Update)
		authorized.POST("/delete_expense/:id", expenseHandler.Delete)

		authorized.GET("/categories", categoryHandler.List)
		authorized.POST("/add_category", categoryHandler.Add)

		authorized.GET("/profile", profileHandler.Profile)

		authorized.GET("/export/csv", exportHandler.ExportCSV)
		authorized.GET("/export/excel", exportHandler.ExportExcel)
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus 指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := svc.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unavailable",
				"database": cfg.SafeErrorMessage(err, "unreachable"),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	return r
}
