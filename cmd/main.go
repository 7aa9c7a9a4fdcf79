package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/RomanEsin/candle-shop-backend/internal/events"
	"github.com/RomanEsin/candle-shop-backend/internal/handler"
	"github.com/RomanEsin/candle-shop-backend/internal/notify"
	"github.com/RomanEsin/candle-shop-backend/internal/repository"
	"github.com/RomanEsin/candle-shop-backend/internal/service"
	"github.com/RomanEsin/candle-shop-backend/pkg/config"
	"github.com/RomanEsin/candle-shop-backend/pkg/metrics"
	"github.com/RomanEsin/candle-shop-backend/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to create database pool:", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}
	if err := repository.EnsureSchema(ctx, pool); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}
	cancel()

	store := repository.NewPostgresStore(pool)

	producer := events.NewProducer(cfg.KafkaBrokers, logger)
	defer producer.Close()

	basketService := service.NewBasketService(store, store, logger)
	productService := service.NewProductService(store, logger)
	orderService := service.NewOrderService(store, basketService, logger)
	telegramService := service.NewTelegramService(store, logger)

	botCtx, stopBot := context.WithCancel(context.Background())
	defer stopBot()

	var notifier notify.StatusNotifier = notify.NopNotifier{}
	if cfg.TelegramToken != "" {
		// the send itself is time-bounded by the bot client, not by any
		// store transaction
		botClient := &http.Client{Timeout: 10 * time.Second}
		bot, err := tgbotapi.NewBotAPIWithClient(cfg.TelegramToken, tgbotapi.APIEndpoint, botClient)
		if err != nil {
			logger.Error("Failed to connect telegram bot, notifications disabled", zap.Error(err))
		} else {
			notifier = notify.NewTelegramNotifier(bot, store, logger)
			go notify.RunDeeplinkListener(botCtx, bot, telegramService, logger)
		}
	}

	productHandler := handler.NewProductHandler(productService, logger)
	basketHandler := handler.NewBasketHandler(basketService, logger)
	orderHandler := handler.NewOrderHandler(orderService, notifier, producer, logger)
	telegramHandler := handler.NewTelegramHandler(telegramService, logger)

	srvMetrics := metrics.NewServerMetrics("backend")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(srvMetrics.Middleware())

	handler.RegisterRoutes(router, productHandler, basketHandler, orderHandler, telegramHandler)
	router.GET("/health", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "kafka": producer.Enabled()})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	stopBot()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
