package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/memoapp/memo-server/internal/config"
	"github.com/memoapp/memo-server/internal/handler"
	"github.com/memoapp/memo-server/internal/middleware"
	"github.com/memoapp/memo-server/internal/migration"
	"github.com/memoapp/memo-server/internal/repository"
	"github.com/memoapp/memo-server/internal/service"
	pkgjwt "github.com/memoapp/memo-server/pkg/jwt"
	pkglogger "github.com/memoapp/memo-server/pkg/logger"
	pkgredis "github.com/memoapp/memo-server/pkg/redis"
	pkgstorage "github.com/memoapp/memo-server/pkg/storage"
)

func main() {
	dotenvFiles := config.LoadDotEnv()

	cfg := config.Load()
	pkglogger.Init(cfg.Env)
	pkglogger.GetLogger().Info().
		Str("env", cfg.Env).
		Strs("env_files", dotenvFiles).
		Msg("starting memo-server")

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	pkglogger.GetLogger().Info().Msg("connected to MySQL")

	// Redis is optional; rate limiting is skipped without it
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("Redis unavailable, continuing without rate limiting")
		redisClient = nil
	}

	files, err := newAttachmentStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize attachment storage: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	memoRepo := repository.NewMemoRepository(db)

	jwtManager := pkgjwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	authService := service.NewAuthService(userRepo, jwtManager)
	memoService := service.NewMemoService(memoRepo, groupRepo, files)
	groupService := service.NewGroupService(groupRepo, memoService)

	router := setupRouter(cfg, redisClient, jwtManager, authService, memoService, groupService)

	addr := fmt.Sprintf(":%d", cfg.Port)
	pkglogger.GetLogger().Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// initDB opens the MySQL connection with a bounded pool
func initDB(cfg *config.Config) (*gorm.DB, error) {
	mc := mysqldriver.Config{
		User:                 cfg.DB.User,
		Passwd:               cfg.DB.Password,
		Net:                  "tcp",
		Addr:                 fmt.Sprintf("%s:%d", cfg.DB.Host, cfg.DB.Port),
		DBName:               cfg.DB.Name,
		ParseTime:            true,
		Loc:                  time.Local,
		AllowNativePasswords: true,
		Params: map[string]string{
			"charset": "utf8mb4",
		},
	}

	db, err := gorm.Open(mysql.Open(mc.FormatDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// newAttachmentStore selects the attachment backend from config
func newAttachmentStore(cfg *config.Config) (service.AttachmentStore, error) {
	if cfg.Storage.Driver == "s3" {
		client, err := pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.S3Endpoint,
			Region:          cfg.Storage.S3Region,
			AccessKeyID:     cfg.Storage.S3AccessKeyID,
			SecretAccessKey: cfg.Storage.S3SecretAccessKey,
			Bucket:          cfg.Storage.S3Bucket,
			CDNURL:          cfg.Storage.S3CDNURL,
			ForcePathStyle:  cfg.Storage.S3ForcePathStyle,
		})
		if err != nil {
			return nil, err
		}
		return service.NewS3AttachmentStore(client), nil
	}
	return service.NewLocalAttachmentStore(cfg.Storage.UploadDir, cfg.Storage.BaseURL), nil
}

func setupRouter(
	cfg *config.Config,
	redisClient *redisv9.Client,
	jwtManager *pkgjwt.Manager,
	authService *service.AuthService,
	memoService *service.MemoService,
	groupService *service.GroupService,
) *gin.Engine {
	if cfg.Env != "local" && cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	authHandler := handler.NewAuthHandler(authService)
	memoHandler := handler.NewMemoHandler(memoService)
	groupHandler := handler.NewGroupHandler(groupService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Locally stored attachments are served straight from the uploads dir
	if cfg.Storage.Driver == "local" {
		router.Static(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
	}

	api := router.Group("/api")
	api.Use(middleware.RateLimit(redisClient, middleware.DefaultRateLimitConfig()))

	users := api.Group("/users")
	{
		users.POST("/signup", authHandler.Signup)
		users.POST("/login", authHandler.Login)
	}

	memos := api.Group("/memos")
	memos.Use(middleware.JWTAuth(jwtManager))
	{
		memos.GET("/:user_idx", memoHandler.List)
		memos.POST("", memoHandler.Create)
		memos.POST("/upload", memoHandler.Upload)
		memos.PUT("/:id", memoHandler.Update)
		memos.PATCH("/:id/pin", memoHandler.SetPinned)
		memos.DELETE("/:id", memoHandler.Delete)
		memos.DELETE("/group/:group_idx", memoHandler.DeleteByGroup)
	}

	groups := api.Group("/groups")
	groups.Use(middleware.JWTAuth(jwtManager))
	{
		groups.GET("/:user_idx", groupHandler.List)
		groups.POST("", groupHandler.Create)
		groups.PUT("/:id", groupHandler.Rename)
		groups.DELETE("/:id", groupHandler.Delete)
	}

	return router
}
