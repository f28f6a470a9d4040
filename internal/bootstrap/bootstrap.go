package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/campuslink/backend/internal/app/auth"
	appControllers "github.com/campuslink/backend/internal/app/controllers"
	appMigrations "github.com/campuslink/backend/internal/app/migrations"
	appRepos "github.com/campuslink/backend/internal/app/repositories"
	appRoutes "github.com/campuslink/backend/internal/app/routes"
	appServices "github.com/campuslink/backend/internal/app/services"
	"github.com/campuslink/backend/internal/config"
	"github.com/campuslink/backend/internal/db"
	appMiddleware "github.com/campuslink/backend/internal/middleware"
	pkgAuth "github.com/campuslink/backend/internal/pkg/auth"
	"github.com/campuslink/backend/internal/pkg/cache"
	"github.com/campuslink/backend/internal/pkg/helpers"
	"github.com/campuslink/backend/internal/pkg/logger"
	"github.com/campuslink/backend/internal/pkg/websocket"
	"github.com/campuslink/backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          appServices.AuthService
	ProfileService       appServices.ProfileService
	CommunityService     appServices.CommunityService
	PostService          appServices.PostService
	ProjectService       appServices.ProjectService
	StartupService       appServices.StartupService
	MembershipService    appServices.MembershipService
	TokenCleaner         *appServices.TokenCleaner
	AuthController       *appControllers.AuthController
	ProfileController    *appControllers.ProfileController
	CommunityController  *appControllers.CommunityController
	PostController       *appControllers.PostController
	ProjectController    *appControllers.ProjectController
	StartupController    *appControllers.StartupController
	MembershipController *appControllers.MembershipController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	AuthzService         *appAuth.AuthorizationService
	MembershipCache      cache.MembershipCache
	RedisClient          *redis.Client // nil when no redis is configured
	WSHub                *websocket.Hub
	WSHandler            *websocket.Handler
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Startup continues, default communities can be created later by hand
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)
	txManager := appServices.NewTxManager(dbPool, deps.Repos)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthzService = appAuth.NewAuthorizationService(
		deps.Repos.CommunityRepository,
		deps.Repos.CommunityMemberRepository,
		deps.Repos.ProjectMemberRepository,
		deps.Repos.StartupMemberRepository,
	)

	// Membership cache is optional, everything works without redis
	if cfg.Redis.Addr != "" {
		deps.RedisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := deps.RedisClient.Ping(ctx).Err(); err != nil {
			lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to redis")
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		ttl := helpers.ParseDuration(cfg.Redis.MembershipTTL, 5*time.Minute)
		deps.MembershipCache = cache.NewRedisMembershipCache(deps.RedisClient, ttl, lgr)
		lgr.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", ttl).Msg("Membership cache enabled")
	} else {
		deps.MembershipCache = cache.NoopMembershipCache{}
		lgr.Info().Msg("No redis address configured, membership cache disabled")
	}

	deps.WSHub = websocket.NewHub(lgr)
	go deps.WSHub.Run()
	deps.WSHandler = websocket.NewHandler(deps.WSHub, deps.Repos.CommunityMemberRepository, lgr)

	// Initialize services
	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.ProfileRepository,
		deps.Repos.TokenRepository,
		txManager,
		deps.JWTService,
		lgr,
	)
	deps.ProfileService = appServices.NewProfileService(deps.Repos.UserRepository, deps.Repos.ProfileRepository, lgr)
	deps.CommunityService = appServices.NewCommunityService(
		deps.Repos.CommunityRepository,
		deps.Repos.CommunityMemberRepository,
		txManager,
		deps.AuthzService,
		deps.MembershipCache,
		lgr,
	)
	deps.PostService = appServices.NewPostService(
		deps.Repos.PostRepository,
		deps.Repos.UserRepository,
		deps.Repos.ProfileRepository,
		deps.AuthzService,
		deps.WSHub,
		lgr,
	)
	deps.ProjectService = appServices.NewProjectService(
		deps.Repos.ProjectRepository,
		deps.Repos.ProjectMemberRepository,
		txManager,
		deps.AuthzService,
		deps.MembershipCache,
		lgr,
	)
	deps.StartupService = appServices.NewStartupService(
		deps.Repos.StartupRepository,
		deps.Repos.StartupMemberRepository,
		txManager,
		deps.AuthzService,
		deps.MembershipCache,
		lgr,
	)
	deps.MembershipService = appServices.NewMembershipService(
		deps.Repos.CommunityMemberRepository,
		deps.Repos.ProjectMemberRepository,
		deps.Repos.StartupMemberRepository,
		deps.MembershipCache,
		lgr,
	)

	deps.TokenCleaner = appServices.NewTokenCleaner(deps.Repos.TokenRepository, time.Hour, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.ProfileController = appControllers.NewProfileController(deps.ProfileService)
	deps.CommunityController = appControllers.NewCommunityController(deps.CommunityService)
	deps.PostController = appControllers.NewPostController(deps.PostService)
	deps.ProjectController = appControllers.NewProjectController(deps.ProjectService)
	deps.StartupController = appControllers.NewStartupController(deps.StartupService)
	deps.MembershipController = appControllers.NewMembershipController(deps.MembershipService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.Recovery(lgr))

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ProfileController,
		deps.CommunityController,
		deps.PostController,
		deps.ProjectController,
		deps.StartupController,
		deps.MembershipController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
