package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fastskeleton/backend/internal/adapters/transport/http/middleware"
	"github.com/fastskeleton/backend/internal/infra/ratelimit"
)

type RouterDeps struct {
	Handler      *Handler
	Resolver     middleware.Resolver
	APIPrefix    string
	Gatherer     prometheus.Gatherer
	LoginLimiter *ratelimit.PerKey
	Logger       *zap.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", d.Handler.Root)
	r.GET("/health", d.Handler.Health)
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group(d.APIPrefix)

	login := []gin.HandlerFunc{d.Handler.Login}
	if d.LoginLimiter != nil {
		login = append([]gin.HandlerFunc{middleware.RateLimitPerIP(d.LoginLimiter)}, login...)
	}
	api.POST("/auth/login", login...)

	users := api.Group("/users")
	users.POST("/", d.Handler.CreateUser)
	users.GET("/me", middleware.RequireUser(d.Resolver, d.Logger), d.Handler.Me)

	return r
}
