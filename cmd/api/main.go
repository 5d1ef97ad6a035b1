package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/NextStop-25-26J/nextstop-gateway/config"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/agent"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/bootstrap"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/moderation"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/notifications"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/places"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/snapshot"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/solicitudes"
	gwsync "github.com/NextStop-25-26J/nextstop-gateway/internal/sync"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/users"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	redisClient, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()

	store := snapshot.NewRedisStore(redisClient)

	usersClient := users.NewClient(cfg.Services.Users)
	registryClient := users.NewRegistryClient(cfg.Services.Registry)
	placesClient := places.NewClient(cfg.Services.Places)
	notificationsClient := notifications.NewClient(cfg.Services.Notifications)
	moderationClient := moderation.NewClient(cfg.Services.Moderation)
	solicitudesClient := solicitudes.NewClient(cfg.Services.Requests)
	agentClient := agent.NewClient(cfg.Services.Bridge)

	userService := users.NewService(usersClient, registryClient, store)
	if err := userService.SeedDemo(ctx); err != nil {
		log.Printf("Warning: demo seed failed: %v", err)
	}

	synchronizer := gwsync.New(placesClient, solicitudesClient, usersClient, notificationsClient, store, gwsync.Options{
		PlacesInterval:        cfg.Sync.PlacesInterval,
		RequestsInterval:      cfg.Sync.RequestsInterval,
		RosterInterval:        cfg.Sync.RosterInterval,
		NotificationsInterval: cfg.Sync.NotificationsInterval,
	})
	synchronizer.Start()
	defer synchronizer.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:   "nextstop-gateway",
		Version:       cfg.App.Version,
		Redis:         redisClient,
		Store:         store,
		Sync:          synchronizer,
		Badge:         synchronizer,
		UserService:   userService,
		Users:         usersClient,
		Places:        placesClient,
		Notifications: notificationsClient,
		Moderation:    moderationClient,
		Solicitudes:   solicitudesClient,
		Agent:         agentClient,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("nextstop-gateway %s listening on :%s", cfg.App.Version, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: forced shutdown: %v", err)
	}
}
