package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/agent"
	agenthttp "github.com/NextStop-25-26J/nextstop-gateway/internal/agent/http"
	httpapi "github.com/NextStop-25-26J/nextstop-gateway/internal/api/http"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/api/http/middleware"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/moderation"
	moderationhttp "github.com/NextStop-25-26J/nextstop-gateway/internal/moderation/http"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/notifications"
	notificationshttp "github.com/NextStop-25-26J/nextstop-gateway/internal/notifications/http"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/places"
	placeshttp "github.com/NextStop-25-26J/nextstop-gateway/internal/places/http"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/snapshot"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/solicitudes"
	solicitudeshttp "github.com/NextStop-25-26J/nextstop-gateway/internal/solicitudes/http"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/users"
	usershttp "github.com/NextStop-25-26J/nextstop-gateway/internal/users/http"
)

// Kicker is the slice of the synchronizer the handlers need.
type Kicker interface {
	Kick()
}

type RouterDeps struct {
	ServiceName string
	Version     string
	Redis       *redis.Client
	Store       snapshot.Store
	Sync        Kicker
	Badge       notificationshttp.BadgeSource

	UserService   *users.Service
	Users         *users.Client
	Places        *places.Client
	Notifications *notifications.Client
	Moderation    *moderation.Client
	Solicitudes   *solicitudes.Client
	Agent         *agent.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestID())
	api.Use(middleware.WithSession(dep.Store))

	authHandler := usershttp.NewAuthHandler(dep.UserService)
	authHandler.RegisterRoutes(api.Group("/auth"))

	userHandler := usershttp.NewUserHandler(dep.UserService, dep.Users)
	userHandler.Register(api.Group("/users"))

	placeHandler := placeshttp.NewHandler(dep.Places, dep.Store, dep.Sync)
	placeHandler.Register(api.Group("/places"))

	notificationHandler := notificationshttp.NewHandler(dep.Notifications, dep.Badge)
	notificationHandler.Register(api.Group("/notifications"))

	moderationHandler := moderationhttp.NewHandler(dep.Moderation, dep.Sync)
	moderationHandler.Register(api.Group("/moderation"))

	requestHandler := solicitudeshttp.NewHandler(dep.Solicitudes, dep.Store, dep.Sync)
	requestHandler.Register(api.Group("/requests"))

	agentHandler := agenthttp.NewHandler(dep.Agent)
	agentHandler.Register(api.Group("/agent"))

	return r
}
