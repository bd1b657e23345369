package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"

	"github.com/mir2x/herpill-dashboard/internal/auth"
	"github.com/mir2x/herpill-dashboard/internal/config"
	"github.com/mir2x/herpill-dashboard/internal/db"
	"github.com/mir2x/herpill-dashboard/internal/request"
	"github.com/mir2x/herpill-dashboard/internal/stats"
	"github.com/mir2x/herpill-dashboard/internal/user"
)

func Run(db db.Storage, cfg *config.Config, logger *zap.SugaredLogger, ctx context.Context) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	authHandler := auth.NewHandler(db, cfg.AuthSecret, logger)
	userHandler := user.NewHandler(db, cfg.AuthSecret, logger)
	requestHandler := request.NewHandler(db, cfg.AuthSecret, logger)
	statsHandler := stats.NewHandler(db, cfg.AuthSecret, logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/admin/register", authHandler.Register)
		r.Post("/admin/login", authHandler.Auth)

		r.Get("/users", userHandler.GetUsers)
		r.Get("/users/{id}", userHandler.GetUser)
		r.Get("/users/{id}/requests", userHandler.GetUserRequests)

		r.Get("/stats", statsHandler.GetStats)

		r.Route("/requests/{type}", func(r chi.Router) {
			r.Get("/", requestHandler.GetRequests)
			r.Get("/{id}", requestHandler.GetRequest)
			r.Patch("/{id}/status", requestHandler.SetStatus)
			r.Delete("/{id}", requestHandler.DeleteRequest)
		})
	})

	server := &http.Server{Addr: cfg.Address, Handler: r}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server start error: %v", err)
		}
	}()
	logger.Info("server started successfuly")

	<-ctx.Done()
	logger.Info("get stop signal, start shutdown server")
	if err := server.Shutdown(context.Background()); err != nil {
		logger.Errorf("server shutdown failed: %v", err)
	} else {
		logger.Info("server stopped successfully")
	}
}
