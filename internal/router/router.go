package router

import (
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"channel_admin_v1/internal/controller"
	"channel_admin_v1/internal/middleware"
)

// Controllers 所有控制器
type Controllers struct {
	Session     *controller.SessionController
	Channel     *controller.ChannelController
	Customer    *controller.CustomerController
	Maintenance *controller.MaintenanceController
}

// Options 路由依赖
type Options struct {
	Session     middleware.SessionChecker
	Limiter     *middleware.CooldownLimiter
	Logger      *zap.Logger
	CORSOrigins []string // 为空或包含 "*" 时允许所有来源
}

// SetupRouter 创建引擎并注册所有路由
func SetupRouter(ctrls *Controllers, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog(opts.Logger))
	r.Use(middleware.Metrics())
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	InitRoutes(r, ctrls, opts)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.HeaderRequestID}
	cfg.ExposeHeaders = []string{middleware.HeaderRequestID}
	return cfg
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctrls *Controllers, opts Options) {
	limiter := opts.Limiter
	if limiter == nil {
		limiter = middleware.NewCooldownLimiter()
	}

	// 1. 健康检查与指标
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "channel-admin"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 2. API 路由组
	api := r.Group("/api")
	{
		// auth 登录相关，无需登录
		auth := api.Group("/auth")
		{
			auth.POST("/login", ctrls.Session.Login)
			auth.POST("/logout", ctrls.Session.Logout)
			auth.GET("/status", ctrls.Session.Status)
			auth.GET("/demo", ctrls.Session.Demo)
		}

		// 以下需要登录
		protected := api.Group("")
		protected.Use(middleware.RequireLogin(opts.Session))

		channels := protected.Group("/channels")
		{
			channels.GET("", ctrls.Channel.List)
			channels.GET("/:id", ctrls.Channel.Get)
			channels.POST("", ctrls.Channel.Create)
			channels.DELETE("/:id", ctrls.Channel.Delete)
		}

		customers := protected.Group("/customers")
		{
			customers.GET("", ctrls.Customer.List)
			customers.GET("/:id", ctrls.Customer.Get)
			customers.POST("", ctrls.Customer.Create)
			customers.DELETE("/:id", ctrls.Customer.Delete)
			// GET /api/customers/:id/access/:channel_id
			customers.GET("/:id/access/:channel_id", ctrls.Customer.Access)
		}

		// 维护：清理与导出有冷却
		protected.GET("/integrity", ctrls.Maintenance.Integrity)
		protected.POST("/integrity/prune",
			middleware.Cooldown(limiter, middleware.OpPrune, 0),
			ctrls.Maintenance.Prune,
		)
		protected.POST("/snapshots",
			middleware.Cooldown(limiter, middleware.OpSnapshot, 0),
			ctrls.Maintenance.ExportSnapshot,
		)
		protected.POST("/snapshots/restore", ctrls.Maintenance.RestoreSnapshot)
	}
}
