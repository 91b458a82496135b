package container

import (
	"context"
	"fmt"
	"time"

	"clubsite-backend/internal/config"
	infraCache "clubsite-backend/internal/infrastructure/cache"
	"clubsite-backend/internal/infrastructure/database"
	"clubsite-backend/internal/infrastructure/email"
	"clubsite-backend/internal/infrastructure/queue"
	"clubsite-backend/internal/infrastructure/storage"
	"clubsite-backend/internal/shared/crud"
	"clubsite-backend/internal/shared/middleware"
	"clubsite-backend/pkg/cache"
	"clubsite-backend/pkg/jwt"
	"clubsite-backend/pkg/logger"

	articleModel "clubsite-backend/internal/domains/article/model"
	articleRepo "clubsite-backend/internal/domains/article/repository"
	articleService "clubsite-backend/internal/domains/article/service"
	authHandler "clubsite-backend/internal/domains/auth/handler"
	authRepo "clubsite-backend/internal/domains/auth/repository"
	authService "clubsite-backend/internal/domains/auth/service"
	coachModel "clubsite-backend/internal/domains/coach/model"
	coachRepo "clubsite-backend/internal/domains/coach/repository"
	coachService "clubsite-backend/internal/domains/coach/service"
	contactHandler "clubsite-backend/internal/domains/contact/handler"
	contactRepo "clubsite-backend/internal/domains/contact/repository"
	contactService "clubsite-backend/internal/domains/contact/service"
	fixtureModel "clubsite-backend/internal/domains/fixture/model"
	fixtureRepo "clubsite-backend/internal/domains/fixture/repository"
	fixtureService "clubsite-backend/internal/domains/fixture/service"
	galleryHandler "clubsite-backend/internal/domains/gallery/handler"
	galleryModel "clubsite-backend/internal/domains/gallery/model"
	galleryRepo "clubsite-backend/internal/domains/gallery/repository"
	galleryService "clubsite-backend/internal/domains/gallery/service"
	mediaHandler "clubsite-backend/internal/domains/media/handler"
	mediaRepo "clubsite-backend/internal/domains/media/repository"
	mediaService "clubsite-backend/internal/domains/media/service"
	pageviewHandler "clubsite-backend/internal/domains/pageview/handler"
	pageviewRepo "clubsite-backend/internal/domains/pageview/repository"
	pageviewService "clubsite-backend/internal/domains/pageview/service"
	playerModel "clubsite-backend/internal/domains/player/model"
	playerRepo "clubsite-backend/internal/domains/player/repository"
	playerService "clubsite-backend/internal/domains/player/service"
	trainingModel "clubsite-backend/internal/domains/training/model"
	trainingRepo "clubsite-backend/internal/domains/training/repository"
	trainingService "clubsite-backend/internal/domains/training/service"

	"github.com/hibiken/asynq"
)

// Container holds the dependency graph shared by cmd/api and cmd/worker.
// Build order: config, infrastructure, services, handlers.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager
	Storage    *storage.MinIOStorage
	Queue      *queue.Client
	Mailer     email.EmailService

	MediaService        *mediaService.Service
	ArticleService      *articleService.Service
	FixtureService      *fixtureService.Service
	PlayerService       *playerService.Service
	CoachService        *coachService.Service
	TrainingService     *trainingService.Service
	GalleryService      *galleryService.Service
	GalleryImageService *galleryService.ImageService
	PageViewService     *pageviewService.Service
	ContactService      *contactService.Service
	AuthService         *authService.Service

	MediaHandler        *mediaHandler.MediaHandler
	ArticleHandler      *crud.Handler[articleModel.Article, articleModel.Draft, articleModel.Patch]
	FixtureHandler      *crud.Handler[fixtureModel.Fixture, fixtureModel.Draft, fixtureModel.Patch]
	PlayerHandler       *crud.Handler[playerModel.Player, playerModel.Draft, playerModel.Patch]
	CoachHandler        *crud.Handler[coachModel.Coach, coachModel.Draft, coachModel.Patch]
	TrainingHandler     *crud.Handler[trainingModel.Session, trainingModel.Draft, trainingModel.Patch]
	GalleryHandler      *crud.Handler[galleryModel.Gallery, galleryModel.Draft, galleryModel.Patch]
	GalleryImageHandler *galleryHandler.ImageHandler
	PageViewHandler     *pageviewHandler.PageViewHandler
	ContactHandler      *contactHandler.ContactHandler
	AuthHandler         *authHandler.AuthHandler

	PublicLimiter *middleware.RateLimiter
}

// NewContainer loads config and connects every backing service.
// Postgres and MinIO are required; Redis failures only disable caching.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	logger.Init(logger.Options{Env: cfg.App.Environment, Level: cfg.Log.Level, File: cfg.Log.File})
	logger.Info("Configuration loaded", map[string]interface{}{"environment": cfg.App.Environment})

	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}
	c.initServices()
	c.initHandlers()

	logger.Info("Container initialized", nil)
	return c, nil
}

func (c *Container) initInfrastructure() error {
	cfg := c.Config

	dbConfig, err := config.LoadDatabaseConfig(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if cfg.Database.AutoMigrate {
		if err := c.ApplySchema(ctx); err != nil {
			return err
		}
	}

	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		logger.Warn("Redis connection failed, public cache disabled", map[string]interface{}{"error": err.Error()})
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)

	store, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = store

	c.Queue = queue.NewClient(c.RedisOpt())
	c.Mailer = email.NewSMTPService(cfg.SMTP)
	return nil
}

func (c *Container) initServices() {
	cfg := c.Config
	pool := c.DB.Pool

	c.MediaService = mediaService.NewService(
		c.Storage,
		storage.NewImageProcessor(cfg.Media.MaxWidth, cfg.Media.Quality),
		c.Queue,
		mediaRepo.NewReferenceRepository(pool),
		cfg.Media,
	)
	media := c.MediaService

	c.ArticleService = articleService.NewService(articleRepo.NewPostgresRepository(pool), media, c.Cache)
	c.FixtureService = fixtureService.NewService(fixtureRepo.NewPostgresRepository(pool), media, c.Cache)
	c.PlayerService = playerService.NewService(playerRepo.NewPostgresRepository(pool), media, c.Cache)
	c.CoachService = coachService.NewService(coachRepo.NewPostgresRepository(pool), media, c.Cache)
	c.TrainingService = trainingService.NewService(trainingRepo.NewPostgresRepository(pool), media, c.Cache)

	galleries := galleryRepo.NewPostgresRepository(pool)
	c.GalleryService = galleryService.NewService(galleries, media, c.Cache)
	c.GalleryImageService = galleryService.NewImageService(galleries, media, media, c.GalleryService)

	c.PageViewService = pageviewService.NewService(pageviewRepo.NewPostgresRepository(pool))
	c.ContactService = contactService.NewService(contactRepo.NewPostgresRepository(pool), c.Mailer, cfg.SMTP.NotifyTo)
	c.AuthService = authService.NewService(authRepo.NewPostgresRepository(pool), c.JWTManager, cfg.Admin.AllowedEmails)
}

func (c *Container) initHandlers() {
	c.MediaHandler = mediaHandler.NewMediaHandler(c.MediaService)
	c.ArticleHandler = crud.NewHandler(c.ArticleService)
	c.FixtureHandler = crud.NewHandler(c.FixtureService)
	c.PlayerHandler = crud.NewHandler(c.PlayerService)
	c.CoachHandler = crud.NewHandler(c.CoachService)
	c.TrainingHandler = crud.NewHandler(c.TrainingService)
	c.GalleryHandler = crud.NewHandler(c.GalleryService)
	c.GalleryImageHandler = galleryHandler.NewImageHandler(c.GalleryImageService, c.MediaService)
	c.PageViewHandler = pageviewHandler.NewPageViewHandler(c.PageViewService)
	c.ContactHandler = contactHandler.NewContactHandler(c.ContactService)

	c.AuthHandler = authHandler.NewAuthHandler(c.AuthService)
	if c.Config.IsDevelopment() {
		c.AuthHandler.WithSetup(c.ApplySchema, c.Config.Admin.BootstrapEmail, c.Config.Admin.BootstrapPassword)
	}

	c.PublicLimiter = middleware.NewRateLimiter(c.Config.RateLimit.PublicPerMinute)
}

// ApplySchema runs the embedded DDL through database/sql.
func (c *Container) ApplySchema(ctx context.Context) error {
	sqlDB, err := database.OpenSQL(c.DB.DSN())
	if err != nil {
		return fmt.Errorf("failed to open schema connection: %w", err)
	}
	defer sqlDB.Close()

	if err := database.ApplySchema(ctx, sqlDB); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// RedisOpt is the asynq connection shared by the client, server and scheduler.
func (c *Container) RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
}

// HealthCheck reports the status of each dependency.
func (c *Container) HealthCheck(ctx context.Context) map[string]string {
	status := map[string]string{"database": "ok", "cache": "ok", "storage": "ok"}
	if err := c.DB.HealthCheck(ctx); err != nil {
		status["database"] = err.Error()
	}
	if err := c.Cache.Ping(ctx); err != nil {
		status["cache"] = err.Error()
	}
	if err := c.Storage.HealthCheck(ctx); err != nil {
		status["storage"] = err.Error()
	}
	return status
}

// Cleanup closes connections on shutdown.
func (c *Container) Cleanup() {
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			logger.Warn("Failed to close queue client", map[string]interface{}{"error": err.Error()})
		}
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Warn("Failed to close Redis", map[string]interface{}{"error": err.Error()})
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	logger.Info("Container cleanup completed", nil)
}
