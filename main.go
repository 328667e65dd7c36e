package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		logger.WithError(err).Fatal("config")
	}
	initLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.HashPassword != "" {
		hash, err := HashAdminPassword(cfg.HashPassword)
		if err != nil {
			logger.WithError(err).Fatal("hash password")
		}
		fmt.Println(hash)
		return
	}

	var analytics *Analytics
	if cfg.DBDriver != "" {
		db, err := OpenDB(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			logger.WithError(err).Fatal("open telemetry store")
		}
		defer db.Close()
		analytics = NewAnalytics(db)
		defer analytics.Stop()
	}

	auth := NewAdminAuth(cfg.AdminPasswordHash, cfg.AdminJWTSecret, cfg.AllowAdmin)
	hub := NewHub(auth, analytics)
	game := NewGame(hub, GameOptions{Seed: cfg.Seed, DebugEvents: cfg.DebugEvents, Analytics: analytics})
	hub.SetGame(game)
	go hub.Run()
	go game.Run()
	defer game.Stop()

	mux := SetupRoutes(hub, cfg.ClientDir, cfg.PublicURL)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		logger.WithField("addr", cfg.Addr).Info("server starting")
		if cfg.ClientDir != "" {
			logger.WithField("dir", cfg.ClientDir).Info("serving client files")
		}
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("ListenAndServe")
		}
	}()

	if cfg.Bots > 0 {
		go startBots(ctx, cfg)
	}

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)
}

// startBots connects cfg.Bots headless players to this server
func startBots(ctx context.Context, cfg Config) {
	addr := cfg.Addr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	wsURL := "ws://" + addr + "/ws"
	time.Sleep(200 * time.Millisecond) // let the listener come up

	for i := 0; i < cfg.Bots; i++ {
		bot, err := DialBot(ctx, wsURL, cfg.Seed+int64(i)+1)
		if err != nil {
			logger.WithError(err).Warn("bot dial failed")
			continue
		}
		go func() {
			if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err).Warn("bot stopped")
			}
		}()
	}
}
