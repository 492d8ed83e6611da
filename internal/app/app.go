package app

import (
	"context"
	"cybertrain_backend/internal/config"
	"cybertrain_backend/internal/controller"
	"cybertrain_backend/internal/repository"
	"cybertrain_backend/internal/service"
	"cybertrain_backend/pkg/database"
	"cybertrain_backend/pkg/logger"
	"cybertrain_backend/pkg/monitoring"
	"cybertrain_backend/pkg/security"
	"cybertrain_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user           *repository.UserRepository
	skill          *repository.SkillRepository
	userSkill      *repository.UserSkillRepository
	quiz           *repository.QuizRepository
	practice       *repository.PracticeRepository
	repetition     *repository.RepetitionRepository
	analytics      *repository.AnalyticsRepository
	recommendation *repository.RecommendationRepository
}

type services struct {
	auth           *service.AuthService
	user           *service.UserService
	skill          *service.SkillService
	agent          *service.AgentService
	practice       *service.PracticeService
	repetition     *service.RepetitionService
	analytics      *service.AnalyticsService
	quiz           *service.QuizService
	recommendation *service.RecommendationService
}

type controllers struct {
	auth           *controller.AuthController
	user           *controller.UserController
	skill          *controller.SkillController
	practice       *controller.PracticeController
	repetition     *controller.RepetitionController
	analytics      *controller.AnalyticsController
	quiz           *controller.QuizController
	recommendation *controller.RecommendationController
	health         *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:           repository.NewUserRepository(db),
		skill:          repository.NewSkillRepository(db),
		userSkill:      repository.NewUserSkillRepository(db),
		quiz:           repository.NewQuizRepository(db),
		practice:       repository.NewPracticeRepository(db),
		repetition:     repository.NewRepetitionRepository(db),
		analytics:      repository.NewAnalyticsRepository(db),
		recommendation: repository.NewRecommendationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.agent = service.NewAgentService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.skill = service.NewSkillService(repos.skill, repos.userSkill)
	s.practice = service.NewPracticeService(repos.practice, repos.skill, repos.userSkill, repos.repetition, s.agent, db)
	s.repetition = service.NewRepetitionService(repos.repetition, repos.skill, db)
	s.analytics = service.NewAnalyticsService(repos.analytics, repos.user, rdb, cfg)
	s.quiz = service.NewQuizService(repos.quiz, repos.userSkill, db)
	s.recommendation = service.NewRecommendationService(repos.recommendation, repos.userSkill, s.agent)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:           controller.NewAuthController(s.auth),
		user:           controller.NewUserController(s.user),
		skill:          controller.NewSkillController(s.skill),
		practice:       controller.NewPracticeController(s.practice, s.analytics),
		repetition:     controller.NewRepetitionController(s.repetition),
		analytics:      controller.NewAnalyticsController(s.analytics),
		quiz:           controller.NewQuizController(s.quiz),
		recommendation: controller.NewRecommendationController(s.recommendation),
		health:         controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// ReloadConfig 配置热更新回调，只刷新可在线调整的部分。
func (a *App) ReloadConfig(cfg *config.Config) {
	a.services.agent.UpdateConfig(cfg)
	a.Config.Agent = cfg.Agent
	a.Config.Analytics = cfg.Analytics
	a.Config.RateLimit = cfg.RateLimit
	logger.Log.Info("Config reloaded")
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode != "release" || cfg.ForceMigrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
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

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("cybertrain-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
