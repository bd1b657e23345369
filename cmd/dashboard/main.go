package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mir2x/herpill-dashboard/internal/config"
	"github.com/mir2x/herpill-dashboard/internal/db"
	"github.com/mir2x/herpill-dashboard/internal/delivery"
	mainServer "github.com/mir2x/herpill-dashboard/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer cancel()

	l, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("error on create logger: %v", err)
	}
	logger := l.Sugar()
	defer logger.Sync()

	// .env is optional, envs may come from the environment itself
	_ = godotenv.Load()

	cnfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("failed to parse config: %v", err)
	}
	storage, err := db.NewStorage(cnfg.DBURL, ctx, logger)
	if err != nil {
		logger.Fatalf("failed to create storage: %v", err)
	}

	wg := &sync.WaitGroup{}

	delivery.RunDaemon(http.Client{}, cnfg.CourierAddress, storage, logger, ctx, wg)
	mainServer.Run(storage, cnfg, logger, ctx)

	wg.Wait()
}
