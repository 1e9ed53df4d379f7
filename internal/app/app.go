package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"failure_bank_backend/internal/config"
	"failure_bank_backend/internal/controller"
	"failure_bank_backend/internal/mailer"
	"failure_bank_backend/internal/period"
	"failure_bank_backend/internal/repository"
	"failure_bank_backend/internal/service"
	"failure_bank_backend/pkg/database"
	"failure_bank_backend/pkg/logger"
	"failure_bank_backend/pkg/monitoring"
	"failure_bank_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user      *repository.UserRepository
	challenge *repository.ChallengeRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	challenge    *service.ChallengeService
	stats        *service.StatsService
	notification *service.NotificationService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	challenge    *controller.ChallengeController
	stats        *controller.StatsController
	notification *controller.NotificationController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新入口，由 configwatcher 回调
func (a *App) ApplyConfig(cfg *config.Config) {
	if a.services != nil && a.services.notification != nil {
		a.services.notification.ApplyConfig(&cfg.Notification)
	}
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		challenge: repository.NewChallengeRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	window := period.NewWindow(cfg.Time.OffsetHours)

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.stats = service.NewStatsService(repos.challenge, window, rdb)
	s.challenge = service.NewChallengeService(repos.challenge, s.stats)

	// 未配置邮件密钥时 mailer 为 nil，批处理会把每次投递记为失败而不是启动失败
	var mail mailer.Mailer
	if cfg.Notification.ResendAPIKey != "" {
		m, err := mailer.NewResend(mailer.ResendConfig{
			APIKey:  cfg.Notification.ResendAPIKey,
			BaseURL: cfg.Notification.ResendBaseURL,
			Timeout: time.Duration(cfg.Notification.SendTimeoutSec) * time.Second,
		})
		if err != nil {
			logger.Log.Warn("mailer init failed, notifications disabled", zap.Error(err))
		} else {
			mail = m
		}
	} else {
		logger.Log.Warn("resend api key not set, notifications disabled")
	}

	s.notification = service.NewNotificationService(
		repos.user,
		repos.challenge,
		mail,
		mailer.NewDirTemplateSource(cfg.Notification.TemplateDir),
		window,
		&cfg.Notification,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		challenge:    controller.NewChallengeController(s.challenge),
		stats:        controller.NewStatsController(s.stats),
		notification: controller.NewNotificationController(s.notification, s.auth),
		health:       controller.NewHealthController(db, rdb),
	}
}

// startBackgroundTasks 内置整点批处理。外部调度器场景下通过配置关闭，改走 /notifications/send。
func (a *App) startBackgroundTasks(s *services) {
	if !a.Config.Notification.SchedulerEnabled {
		return
	}
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			if _, err := s.notification.RunBatch(ctx); err != nil {
				logger.Log.Error("notification batch error", zap.Error(err))
			}
			cancel()
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.Server.Mode != "release" || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 缓存是可选依赖，连不上只降级
		logger.Log.Warn("Failed to initialize redis, caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("failure-bank", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
