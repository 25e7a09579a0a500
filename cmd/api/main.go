package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"burnout-assess/internal/classifier"
	"burnout-assess/internal/config"
	"burnout-assess/internal/db"
	apihttp "burnout-assess/internal/http"
	"burnout-assess/internal/llm"
	"burnout-assess/internal/repository"
	"burnout-assess/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	checks := map[string]apihttp.HealthCheck{}

	var (
		userRepo    repository.UserRepository
		sessionRepo repository.SessionRepository
		messageRepo repository.MessageRepository
	)
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		if err := db.MigratePostgres(ctx, pool); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
		userRepo = repository.NewPgUserRepository(pool)
		sessionRepo = repository.NewPgSessionRepository(pool)
		messageRepo = repository.NewPgMessageRepository(pool)
		checks["postgres"] = func(ctx context.Context) error { return db.Ping(ctx, pool) }
	default:
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Fatal("sqlite open", zap.Error(err), zap.String("path", cfg.SQLitePath))
		}
		defer conn.Close()
		userRepo = repository.NewSqliteUserRepository(conn)
		sessionRepo = repository.NewSqliteSessionRepository(conn)
		messageRepo = repository.NewSqliteMessageRepository(conn)
		checks["sqlite"] = conn.PingContext
	}

	var (
		loginLimiter service.LoginRateLimiter
		tokenStore   service.RefreshTokenStore
		locker       service.SessionLocker
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, cfg.LoginWindow, cfg.LoginMaxAttempts)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
			locker = service.NewRedisSessionLocker(redisClient, 0)
			checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		}
		cancel()
	}
	if loginLimiter == nil {
		loginLimiter = service.NewMemoryLoginRateLimiter(cfg.LoginWindow, cfg.LoginMaxAttempts)
	}
	if locker == nil {
		locker = service.NewMemorySessionLocker()
	}

	flow, err := service.NewDefaultConversationFlow()
	if err != nil {
		logger.Fatal("question catalog", zap.Error(err))
	}
	lexicon, err := service.NewDefaultLexicon()
	if err != nil {
		logger.Fatal("lexicon", zap.Error(err))
	}

	var clf classifier.Classifier
	if cfg.ClassifierURL != "" {
		httpClf := classifier.NewHTTPClassifier(cfg.ClassifierURL, cfg.ClassifierTimeout)
		ctxProbe, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := httpClf.Probe(ctxProbe); err != nil {
			logger.Warn("classifier unavailable, using lexical scoring", zap.Error(err))
		} else {
			clf = httpClf
			checks["classifier"] = httpClf.Probe
		}
		cancel()
	}
	oracle := service.NewScoringOracle(flow, lexicon, clf, logger)

	llmClient := llm.NewOpenAIClient(llm.Config{
		BaseURL:     cfg.LLMBaseURL,
		APIKey:      cfg.LLMAPIKey,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		TopP:        cfg.LLMTopP,
		MaxTokens:   cfg.LLMMaxTokens,
		Timeout:     cfg.LLMTimeout,
	})
	if !llmClient.Configured() {
		logger.Warn("llm api key not configured, recommendations use local templates")
	}
	engine := service.NewRecommendationEngine(llmClient, lexicon, service.RecommendationEngineOptions{
		RatePerMinute: cfg.LLMRatePerMinute,
		Timeout:       cfg.LLMTimeout,
	}, logger)

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	userSvc := service.NewUserService(logger, userRepo, loginLimiter)
	assessSvc := service.NewAssessmentService(
		logger,
		flow,
		oracle,
		engine,
		sessionRepo,
		service.NewMessageService(messageRepo),
		locker,
	)

	router := apihttp.NewRouter(
		logger,
		jwtSvc,
		apihttp.NewHealthHandler(logger, checks),
		apihttp.NewUserHandler(logger, userSvc, jwtSvc),
		apihttp.NewAssessmentHandler(logger, assessSvc),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("storage", cfg.StorageDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down server")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
