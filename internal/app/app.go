package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecolearn_backend/internal/config"
	"ecolearn_backend/internal/controller"
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/internal/service"
	"ecolearn_backend/pkg/database"
	"ecolearn_backend/pkg/logger"
	"ecolearn_backend/pkg/monitoring"
	"ecolearn_backend/pkg/security"
	"ecolearn_backend/pkg/tracing"

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
	user         *repository.UserRepository
	content      *repository.ContentRepository
	progress     *repository.ProgressRepository
	levelTest    *repository.LevelTestRepository
	badge        *repository.BadgeRepository
	notification *repository.NotificationRepository
	message      *repository.MessageRepository
}

type services struct {
	auth         *service.AuthService
	storage      *service.StorageService
	user         *service.UserService
	content      *service.ContentService
	exercise     *service.ExerciseService
	levelTest    *service.LevelTestService
	badge        *service.BadgeService
	notification *service.NotificationService
	message      *service.MessageService
	dashboard    *service.DashboardService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	content      *controller.ContentController
	exercise     *controller.ExerciseController
	levelTest    *controller.LevelTestController
	notification *controller.NotificationController
	message      *controller.MessageController
	dashboard    *controller.DashboardController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig propagates a reloaded configuration to every registered
// callback. Wiring-level settings (ports, database) need a restart; the
// callbacks cover the hot-reloadable rest.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db, rdb),
		content:      repository.NewContentRepository(db),
		progress:     repository.NewProgressRepository(db),
		levelTest:    repository.NewLevelTestRepository(db),
		badge:        repository.NewBadgeRepository(db),
		notification: repository.NewNotificationRepository(db, rdb),
		message:      repository.NewMessageRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.notification = service.NewNotificationService(repos.notification)
	s.badge = service.NewBadgeService(repos.badge, repos.user, s.notification)
	s.content = service.NewContentService(repos.content, s.storage, cfg)
	s.exercise = service.NewExerciseService(repos.content, repos.progress, repos.user, s.badge)
	s.levelTest = service.NewLevelTestService(repos.levelTest, repos.user, s.badge)
	s.message = service.NewMessageService(repos.message, repos.user, s.notification)
	s.dashboard = service.NewDashboardService(repos.user, repos.content, repos.progress, repos.badge, repos.levelTest)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		content:      controller.NewContentController(s.content),
		exercise:     controller.NewExerciseController(s.exercise),
		levelTest:    controller.NewLevelTestController(s.levelTest),
		notification: controller.NewNotificationController(s.notification),
		message:      controller.NewMessageController(s.message, s.auth),
		dashboard:    controller.NewDashboardController(s.dashboard),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db)

	// token signing picks up rotated secrets without a restart
	app.RegisterConfigCallback(func(c *config.Config) {
		services.auth.Cfg = c
		services.content.Cfg = c
	})

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("ecolearn-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
		router.Static("/api/uploads", cfg.Storage.LocalPath)
	}

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

	logger.Sync()
	log.Println("Server exiting")
}
