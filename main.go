package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aiimpact-uk/impact/api/audit"
	"github.com/aiimpact-uk/impact/api/config"
	"github.com/aiimpact-uk/impact/api/controller"
	"github.com/aiimpact-uk/impact/api/corpus"
	"github.com/aiimpact-uk/impact/api/db"
	"github.com/aiimpact-uk/impact/api/engine"
	"github.com/aiimpact-uk/impact/api/llm"
	logger "github.com/aiimpact-uk/impact/api/logging"
	"github.com/aiimpact-uk/impact/api/router"
	"github.com/aiimpact-uk/impact/api/search"
	"github.com/aiimpact-uk/impact/api/service"
	"github.com/aiimpact-uk/impact/api/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize Neo4j
	if err := db.InitNeo4j(); err != nil {
		logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
	}
	defer db.CloseNeo4j()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Load the policy clause corpus and build the rule evaluator
	store, err := loadCorpus(config.GetString("corpus.path"))
	if err != nil {
		logger.Fatal("Failed to load policy corpus", zap.Error(err))
	}
	logger.Info("Policy corpus loaded",
		zap.String("version", store.Version()),
		zap.Int("clauses", store.Len()))

	evaluator, err := engine.New(store)
	if err != nil {
		logger.Fatal("Failed to build rule evaluator", zap.Error(err))
	}

	// Initialize services and utilities
	validationUtil := util.NewValidationUtil()
	cacheService := util.NewCacheService()
	notificationService := util.NewNotificationService()
	auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Fatal("Failed to initialize audit repository", zap.Error(err))
	}
	auditService := audit.NewService(auditRepository)

	searchRepo, err := search.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Fatal("Failed to initialize search repository", zap.Error(err))
	}
	// Index the corpus at startup. Search degrades if Elasticsearch is
	// unavailable; the rule engine does not depend on it.
	if err := searchRepo.IndexClauses(ctx, store.Clauses(), store.Version()); err != nil {
		logger.Warn("Failed to index policy clauses, clause search degraded", zap.Error(err))
	}

	// The LLM drafting path is optional
	var drafter service.LLMDrafter
	if config.GetBool("llm.enabled") {
		client := llm.NewClient(config.GetConfig().LLM)
		drafter = client
		logger.Info("LLM flag drafting enabled", zap.String("model", client.ModelName()))
	}

	// Initialize services
	services, err := service.InitializeServices(
		db.Neo4jDriver,
		store,
		evaluator,
		searchRepo,
		drafter,
		auditService,
		validationUtil,
		cacheService,
		notificationService,
		eventBus,
	)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	// Initialize controllers
	controllers := controller.InitializeControllers(services, searchRepo, store, validationUtil)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	rateLimitWindow, err := time.ParseDuration(config.GetString("ratelimit.window"))
	if err != nil {
		rateLimitWindow = time.Minute
	}
	r := router.SetupRouter(controllers, config.GetInt("ratelimit.requests"), rateLimitWindow)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: r,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}

func loadCorpus(path string) (*corpus.Store, error) {
	if path == "" {
		return corpus.LoadDefault()
	}
	return corpus.Load(path)
}
