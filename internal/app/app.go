package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GuoYangtuo/potato-timer/internal/clock"
	"github.com/GuoYangtuo/potato-timer/internal/config"
	"github.com/GuoYangtuo/potato-timer/internal/db"
	"github.com/GuoYangtuo/potato-timer/internal/identity"
	"github.com/GuoYangtuo/potato-timer/internal/repository"
	"github.com/GuoYangtuo/potato-timer/internal/service"
	"github.com/GuoYangtuo/potato-timer/internal/storage"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	AuthService       *service.AuthService
	GoalService       *service.GoalService
	CompletionService *service.CompletionService
	MotivationService *service.MotivationService
	EngagementService *service.EngagementService
	TagService        *service.TagService
	UploadService     *service.UploadService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	completionRepository := repository.NewCompletionRepository(database)
	motivationRepository := repository.NewMotivationRepository(database)
	tagRepository := repository.NewTagRepository(database)
	engagementRepository := repository.NewEngagementRepository(database)

	// Storage
	mediaStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Phone resolver: the carrier service in production, a passthrough in
	// development where no Aliyun credentials exist.
	var resolver identity.Resolver
	if cfg.AliyunAccessKeyID != "" && cfg.AliyunAccessKeySecret != "" {
		resolver = identity.NewAliyunResolver(cfg.AliyunAccessKeyID, cfg.AliyunAccessKeySecret)
	} else {
		resolver = identity.StaticResolver{}
	}

	// Services
	authService := service.NewAuthService(userRepository, resolver, cfg.JWTSecret, cfg.JWTExpiry)
	goalService := service.NewGoalService(goalRepository, completionRepository, motivationRepository)
	completionService := service.NewCompletionService(goalRepository, completionRepository, clock.System())
	motivationService := service.NewMotivationService(motivationRepository, engagementRepository)
	engagementService := service.NewEngagementService(engagementRepository, motivationRepository)
	tagService := service.NewTagService(tagRepository)
	uploadService := service.NewUploadService(mediaStorage, cfg.UploadMaxBytes)

	return &App{
		Cfg:               cfg,
		DB:                database,
		AuthService:       authService,
		GoalService:       goalService,
		CompletionService: completionService,
		MotivationService: motivationService,
		EngagementService: engagementService,
		TagService:        tagService,
		UploadService:     uploadService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
