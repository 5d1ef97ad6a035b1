// The worker is the refresh daemon for deployments that scale the HTTP
// gateway separately from the snapshot refresher. It runs the same sync
// passes the embedded synchronizer runs, on a cron schedule, without the
// HTTP surface.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/NextStop-25-26J/nextstop-gateway/config"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/bootstrap"
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
	synchronizer := gwsync.New(
		places.NewClient(cfg.Services.Places),
		solicitudes.NewClient(cfg.Services.Requests),
		users.NewClient(cfg.Services.Users),
		notifications.NewClient(cfg.Services.Notifications),
		store,
		gwsync.Options{},
	)

	c := cron.New(cron.WithSeconds())
	_, err = c.AddFunc("*/10 * * * * *", func() {
		passCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		synchronizer.SyncAll(passCtx)
	})
	if err != nil {
		log.Fatalf("cron: %v", err)
	}

	log.Println("Refresh worker started (sync passes every 10s)")
	c.Start()

	<-ctx.Done()
	cronCtx := c.Stop()
	<-cronCtx.Done()
	log.Println("Refresh worker stopped")
}
