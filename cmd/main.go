package main

import (
	"context"
	"net/http"
	"time"

	"github.com/facebookgo/clock"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/examdesk/config"
	"github.com/lshigami/examdesk/database"
	_ "github.com/lshigami/examdesk/docs" // Swagger docs
	"github.com/lshigami/examdesk/internal/cache"
	adminctrl "github.com/lshigami/examdesk/internal/controller/admin"
	userctrl "github.com/lshigami/examdesk/internal/controller/user"
	"github.com/lshigami/examdesk/internal/logger"
	"github.com/lshigami/examdesk/internal/middleware"
	"github.com/lshigami/examdesk/internal/model"
	"github.com/lshigami/examdesk/internal/notify"
	"github.com/lshigami/examdesk/internal/repository"
	"github.com/lshigami/examdesk/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Examdesk Timed Assessment API
// @version 1.0
// @description Timed test sessions with autosave, countdown expiry, grading and rankings.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			cache.NewRedisClient,
			cache.NewStore,
			notify.NewNotifier,
			func() clock.Clock { return clock.New() },
			middleware.NewAuthenticator,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewTestRepository,
			repository.NewQuestionRepository,
			repository.NewAttemptRepository,
			repository.NewAnswerRepository,
		),

		fx.Provide(
			service.NewScoreConverterService,
			service.NewAdminTestService,
			service.NewUserTestService,
			service.NewAttemptService,
			service.NewAttemptLoaderService,
			service.NewAnswerSyncService,
			service.NewEvaluationService,
			service.NewRankingService,
			service.NewSessionManager,
		),

		fx.Provide(
			adminctrl.NewAdminTestController,
			userctrl.NewUserTestController,
			userctrl.NewAttemptController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Application stopped with errors")
	}
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		requestID, _ := param.Keys["request_id"].(string)
		log.Info().
			Str("request_id", requestID).
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	auth *middleware.Authenticator,
	sessions service.SessionManager,
	rdb *redis.Client,
	adminTestCtrl *adminctrl.AdminTestController,
	userTestCtrl *userctrl.UserTestController,
	attemptCtrl *userctrl.AttemptController,
) {
	api := router.Group("/api/v1", auth.Authenticate())

	adminAPIGroup := api.Group("/admin", middleware.RequireCapability(middleware.CapabilityAuthorTests))
	{
		adminAPIGroup.POST("/tests", adminTestCtrl.CreateTest)
	}

	{
		api.GET("/tests", userTestCtrl.GetAllTests)
		api.GET("/tests/:test_id", userTestCtrl.GetTestDetails)
		api.GET("/tests/:test_id/rankings", userTestCtrl.GetRankings)

		api.POST("/tests/:test_id/attempts", attemptCtrl.StartAttempt)
		api.GET("/tests/:test_id/attempts", attemptCtrl.ListAttempts)
		api.GET("/tests/:test_id/attempts/:attempt_id/session", attemptCtrl.OpenSession)

		api.PUT("/attempts/:attempt_id/answers/:question_id", attemptCtrl.SetAnswer)
		api.POST("/attempts/:attempt_id/flush", attemptCtrl.Flush)
		api.POST("/attempts/:attempt_id/submit", attemptCtrl.Submit)
		api.DELETE("/attempts/:attempt_id/session", attemptCtrl.CloseSession)
		api.GET("/attempts/:attempt_id/result", attemptCtrl.GetResult)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Examdesk API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("HTTP server shutdown failed")
			}
			// Live sessions flush after the server stops accepting answers.
			if err := sessions.Shutdown(ctx); err != nil {
				log.Error().Err(err).Msg("Some sessions could not be flushed on shutdown")
			}
			if rdb != nil {
				return rdb.Close()
			}
			return nil
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Test{},
		&model.Question{},
		&model.TestAttempt{},
		&model.Answer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
