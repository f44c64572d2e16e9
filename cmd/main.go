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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"channel_admin_v1/internal/config"
	"channel_admin_v1/internal/controller"
	"channel_admin_v1/internal/middleware"
	"channel_admin_v1/internal/repository"
	"channel_admin_v1/internal/router"
	"channel_admin_v1/internal/service"
	"channel_admin_v1/internal/task"
	"channel_admin_v1/pkg/database"
	"channel_admin_v1/pkg/kvstore"
	"channel_admin_v1/pkg/logger"
)

func main() {
	// 1. 读取配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	log, err := initLogger(cfg)
	if err != nil {
		// 日志文件打不开时退回标准输出
		log = logger.Default()
		log.Warn("初始化日志失败，使用默认配置", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	// 3. 打开存储
	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("打开存储失败", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	// 4. 初始化依赖
	deps, err := initDependencies(cfg, store, log)
	if err != nil {
		log.Fatal("初始化依赖失败", zap.Error(err))
	}

	// 5. 写入默认数据
	if _, err := deps.Services.Bootstrap.Initialize(ctx); err != nil {
		log.Fatal("初始化数据失败", zap.Error(err))
	}

	// 6. 启动定时任务
	tasks, err := initTasks(cfg, deps)
	if err != nil {
		log.Fatal("启动定时任务失败", zap.Error(err))
	}
	defer tasks.Stop()

	// 7. 初始化路由并启动服务
	middleware.RegisterMetrics()
	task.RegisterMetrics()
	gin.SetMode(cfg.Server.Mode)
	r := router.SetupRouter(deps.Controllers, router.Options{
		Session:     deps.Services.User,
		Limiter:     deps.Limiter,
		Logger:      log,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	startServer(r, cfg.Server.Port, log)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	Store       kvstore.Store
	Uow         *repository.UnitOfWork
	Limiter     *middleware.CooldownLimiter
	Controllers *router.Controllers
	Services    *Services
	Logger      *zap.Logger
}

// Services 服务集合
type Services struct {
	Bootstrap *service.BootstrapService
	User      *service.UserService
	Channel   *service.ChannelService
	Customer  *service.CustomerService
	Access    *service.AccessService
	Integrity *service.IntegrityService
	Snapshot  *service.SnapshotService
}

// ==================== 初始化函数 ====================

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		FilePath:    cfg.Log.FilePath,
		Development: cfg.Log.Development,
	})
}

// openStore 按配置的驱动打开文档存储
func openStore(ctx context.Context, cfg *config.Config) (kvstore.Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		return kvstore.NewMemoryStore(), nil
	case "sqlite", "postgres":
		db, err := database.InitDB(database.Options{
			Driver:   cfg.Store.Driver,
			DSN:      cfg.Store.DSN,
			LogLevel: gormlogger.Warn,
		})
		if err != nil {
			return nil, err
		}
		return kvstore.NewGormStore(db)
	case "redis":
		return kvstore.NewRedisStore(ctx, kvstore.RedisOptions{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
			Prefix:   cfg.Store.RedisPrefix,
		})
	default:
		return nil, fmt.Errorf("不支持的存储驱动: %s", cfg.Store.Driver)
	}
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, store kvstore.Store, log *zap.Logger) (*Dependencies, error) {
	uow := repository.NewUnitOfWork(store)

	// -------- 快照存储 --------
	provider, err := initStorageProvider(cfg)
	if err != nil {
		return nil, err
	}

	// -------- 业务服务 --------
	services := &Services{
		Bootstrap: service.NewBootstrapService(uow, log),
		Channel:   service.NewChannelService(uow, log),
		Customer:  service.NewCustomerService(uow, log),
		Access:    service.NewAccessService(uow),
		Integrity: service.NewIntegrityService(uow, log),
		Snapshot:  service.NewSnapshotService(uow, provider, log),
	}
	services.User = service.NewUserService(uow, services.Bootstrap, service.Credentials{
		Email:    cfg.Auth.FallbackEmail,
		Password: cfg.Auth.FallbackPassword,
	}, log)

	// -------- Controller 层 --------
	return &Dependencies{
		Store:       store,
		Uow:         uow,
		Limiter:     middleware.NewCooldownLimiter(),
		Controllers: initControllers(services),
		Services:    services,
		Logger:      log,
	}, nil
}

// initStorageProvider 未开启快照时返回 nil，此时手动导出返回 503
func initStorageProvider(cfg *config.Config) (service.StorageProvider, error) {
	if !cfg.Snapshot.Enabled {
		return nil, nil
	}
	return service.NewStorageProvider(&service.StorageConfig{
		Provider:  cfg.Snapshot.Provider,
		Bucket:    cfg.Snapshot.Bucket,
		Region:    cfg.Snapshot.Region,
		AccessKey: cfg.Snapshot.AccessKey,
		SecretKey: cfg.Snapshot.SecretKey,
		Endpoint:  cfg.Snapshot.Endpoint,
		BasePath:  cfg.Snapshot.BasePath,
		LocalDir:  cfg.Snapshot.LocalDir,
	})
}

// initControllers 初始化所有控制器
func initControllers(svc *Services) *router.Controllers {
	return &router.Controllers{
		Session:     controller.NewSessionController(svc.User),
		Channel:     controller.NewChannelController(svc.Channel),
		Customer:    controller.NewCustomerController(svc.Customer, svc.Access),
		Maintenance: controller.NewMaintenanceController(svc.Integrity, svc.Snapshot),
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务，启动时先巡检一次
func initTasks(cfg *config.Config, deps *Dependencies) (*task.TaskManager, error) {
	tm := task.NewTaskManager(&task.TaskManagerDeps{
		Integrity: deps.Services.Integrity,
		Snapshot:  deps.Services.Snapshot,
		Limiter:   deps.Limiter,
		Logger:    deps.Logger,
	}, &task.TaskManagerConfig{
		IntegrityEnabled: cfg.Integrity.Enabled,
		IntegritySpec:    cfg.Integrity.Spec,
		PruneOrphans:     cfg.Integrity.PruneOrphans,
		SnapshotEnabled:  cfg.Snapshot.Enabled,
		SnapshotSpec:     cfg.Snapshot.Spec,
	})
	if err := tm.Start(); err != nil {
		return nil, err
	}

	if tm.Status()["integrity"] {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		_, _ = tm.TriggerIntegrity(ctx)
	}
	return tm, nil
}

// ==================== 服务启动 ====================

// startServer 启动服务，收到退出信号后优雅关闭
func startServer(r *gin.Engine, port string, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("服务强制关闭", zap.Error(err))
		return
	}
	log.Info("服务已退出")
}
