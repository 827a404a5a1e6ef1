package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/MMN3003/bridgeswap/src/Infrastructure/coingecko"
	kafkaInfra "github.com/MMN3003/bridgeswap/src/Infrastructure/kafka"
	"github.com/MMN3003/bridgeswap/src/Infrastructure/telemetry"
	"github.com/MMN3003/bridgeswap/src/clock"
	"github.com/MMN3003/bridgeswap/src/config"
	cronRepo "github.com/MMN3003/bridgeswap/src/cron/repository"
	cronUsecase "github.com/MMN3003/bridgeswap/src/cron/usecase"
	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/MMN3003/bridgeswap/src/persistence"
	pricingHD "github.com/MMN3003/bridgeswap/src/pricing/delivery/http"
	pricing "github.com/MMN3003/bridgeswap/src/pricing/usecase"
	quoteHD "github.com/MMN3003/bridgeswap/src/quote/delivery/http"
	quote "github.com/MMN3003/bridgeswap/src/quote/usecase"
	statsCron "github.com/MMN3003/bridgeswap/src/stats/adapter/cron"
	statsHD "github.com/MMN3003/bridgeswap/src/stats/delivery/http"
	statsRepo "github.com/MMN3003/bridgeswap/src/stats/repository"
	stats "github.com/MMN3003/bridgeswap/src/stats/usecase"
	tokenHD "github.com/MMN3003/bridgeswap/src/token/delivery/http"
	tokenDomain "github.com/MMN3003/bridgeswap/src/token/domain"
	tokenRepo "github.com/MMN3003/bridgeswap/src/token/repository"
	token "github.com/MMN3003/bridgeswap/src/token/usecase"
	"github.com/MMN3003/bridgeswap/src/transaction/adapter/events"
	transactionHD "github.com/MMN3003/bridgeswap/src/transaction/delivery/http"
	transactionDomain "github.com/MMN3003/bridgeswap/src/transaction/domain"
	transactionRepo "github.com/MMN3003/bridgeswap/src/transaction/repository"
	transaction "github.com/MMN3003/bridgeswap/src/transaction/usecase"

	_ "github.com/MMN3003/bridgeswap/docs" // Swagger docs

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	eventQueueSize       = 1024
	eventDeliveryTimeout = 5 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the processing scheduler and cron jobs",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.LoadFromEnv()
	logg := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Tracing ---
	shutdownTracer, err := telemetry.InitTracer(ctx, "bridgeswap", cfg.OtelEndpoint)
	if err != nil {
		logg.Warnf("tracing disabled: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(sctx)
	}()

	// --- Database connection ---
	logg.Infof("Connecting to database")

	gormDB, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		logg.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logg.Fatalf("Failed to get generic DB handle: %v", err)
	}
	defer sqlDB.Close()

	// Connection pool tuning
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)

	// --- Repositories ---
	tokens := tokenRepo.NewTokenRepo(gormDB, logg)
	if err := tokens.Seed(ctx, tokenDomain.FallbackTokens()); err != nil {
		logg.Warnf("token seed failed: %v", err)
	}
	transactions := transactionRepo.NewTransactionRepo(gormDB, logg)
	store := persistence.NewAdapter(tokens, transactions, logg)
	crons := cronRepo.NewCronRepo(gormDB, logg)
	volumes := statsRepo.NewPostgresStatsRepo(sqlDB, logg)

	// --- Token catalog ---
	var tokenCache tokenDomain.TokenCache = token.NewMemoryCache(clock.Real{}, cfg.TokenCacheTTL)
	if cfg.RedisAddr != "" {
		rdb, err := tokenRepo.DialRedis(ctx, cfg.RedisAddr)
		if err != nil {
			logg.Warnf("redis unavailable, using in-memory token cache: %v", err)
		} else {
			defer rdb.Close()
			tokenCache = tokenRepo.NewRedisTokenCache(rdb, cfg.TokenCacheTTL, logg)
		}
	}
	catalog := token.NewService(store, tokenCache, logg)

	// --- Rate oracle ---
	feed, err := coingecko.NewClient(cfg.PriceFeed.BaseURL,
		coingecko.WithAPIKey(cfg.PriceFeed.APIKey),
		coingecko.WithLogger(logg.Zerolog()),
	)
	if err != nil {
		logg.Fatalf("Failed to create price feed client: %v", err)
	}
	prices := pricing.NewService(feed, clock.Real{}, cfg.PriceFeed.CacheTTL, logg)
	quotes := quote.NewService(prices, logg)

	// --- Lifecycle events ---
	var publisher transactionDomain.EventPublisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafkaInfra.NewProducer(kafkaInfra.ProducerConfig{
			Brokers:     cfg.Kafka.Brokers,
			TopicPrefix: cfg.Kafka.TopicPrefix,
			Logger:      logg,
		})
		if err != nil {
			logg.Warnf("kafka disabled: %v", err)
		} else {
			defer producer.Close()
			kp := events.NewKafkaPublisher(producer)
			dispatch := events.NewAsync(kp, eventQueueSize, eventDeliveryTimeout, logg)
			defer dispatch.Close()
			publisher = dispatch
			logg.Infof("publishing transaction events to %s", kp.Topic())
		}
	}

	// --- Transactions ---
	deposits := transactionDomain.NewDepositBook(cfg.DepositAddress)
	lifecycle := transaction.NewService(store, deposits, logg, transaction.WithEvents(publisher))
	defer lifecycle.Close()
	tracker := transaction.NewTracker(lifecycle.Book(), store, logg)

	// --- Stats + cron ---
	statsSvc := stats.NewService(volumes, prices, clock.Real{}, logg)
	cronSvc := cronUsecase.NewService(crons, clock.Real{}, cronUsecase.DefaultLease, logg)
	c := cron.New(cron.WithSeconds())
	if _, err := stats.NewCronService(c, cfg.StatsCron, statsSvc, statsCron.NewLeaseLock(cronSvc, logg)); err != nil {
		logg.Fatalf("Invalid STATS_CRON %q: %v", cfg.StatsCron, err)
	}
	c.Start()
	defer c.Stop()

	// --- Router ---
	r := gin.New()

	// Core middleware
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logg.Infof("%s %s status:%d duration:%s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
		)
	})

	// --- Healthcheck ---
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/store", func(c *gin.Context) {
		if !store.CheckConnection(c.Request.Context()) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Swagger ---
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// --- API routes ---
	tokenHD.NewHandler(catalog, logg).RegisterRoutes(r)
	pricingHD.NewHandler(prices, logg).RegisterRoutes(r)
	quoteHD.NewHandler(quotes, catalog, logg).RegisterRoutes(r)
	transactionHD.NewHandler(lifecycle, tracker, quotes, catalog, deposits, logg).RegisterRoutes(r)
	statsHD.NewHandler(statsSvc, logg).RegisterRoutes(r)

	// --- Start server ---
	logg.Infof("Starting service on %s (env=%s)", cfg.ListenAddr, cfg.Env)
	logg.Infof("Swagger UI available at http://localhost%s/swagger/index.html", cfg.ListenAddr)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Errorf("Server terminated unexpectedly: %v", err)
			return err
		}
	case <-ctx.Done():
		logg.Infof("Shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logg.Errorf("Graceful shutdown failed: %v", err)
			return err
		}
	}
	return nil
}
