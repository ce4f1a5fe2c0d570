package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"huddle/chat"
	"huddle/config"
	"huddle/database"
	"huddle/handles"
	"huddle/realtime"
	"huddle/router"
	"huddle/session"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := log.New("huddle")
	logger.SetLevel(cfg.Level())
	logger.SetHeader("${time_rfc3339} ${level} ${prefix} ${short_file}:${line}")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 启动数据库
	db, err := database.InitDatabase(cfg)
	if err != nil {
		logger.Fatalf("database: %v", err)
	}

	var (
		broker realtime.Broker
		rdb    *redis.Client
	)
	switch cfg.Broker {
	case "redis":
		// 启动redis数据库
		rdb, err = database.InitRedis(ctx, cfg)
		if err != nil {
			logger.Fatalf("redis: %v", err)
		}
		broker = realtime.NewRedisBroker(rdb, cfg.RedisPrefix, logger)
	default:
		broker = realtime.NewLocalBroker()
	}

	hub := realtime.NewHub(logger)
	h := &handles.Handler{
		Chat: chat.NewService(db, broker, logger),
		Sessions: session.NewStore(session.Options{
			CookieName: cfg.SessionCookie,
			Secret:     cfg.SessionSecret,
			TTL:        cfg.SessionTTL,
			Secure:     cfg.CookieSecure,
		}),
		Tokens: realtime.NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL),
		Hub:    hub,
		DB:     db,
		Redis:  rdb,
		Log:    logger,
	}
	server := router.NewServer(h, cfg.RateLimit)

	go func() {
		if err := hub.Run(ctx, broker); err != nil {
			logger.Errorf("realtime subscription stopped: %v", err)
		}
	}()

	// 启动服务器
	go func() {
		if err := server.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server: %v", err)
		}
	}()
	logger.Infof("huddle listening on %s (%s, broker=%s)", cfg.Addr, cfg.Env, cfg.Broker)

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
	hub.Close()
	if rdb != nil {
		rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
