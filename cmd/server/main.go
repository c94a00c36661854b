package main

import (
	"log"
	"net/http"

	_ "courierdash/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"courierdash/internal/api"
	"courierdash/internal/cache"
	"courierdash/internal/config"
	"courierdash/internal/guard"
	"courierdash/internal/handler"
	"courierdash/internal/render"
	"courierdash/internal/router"
	"courierdash/internal/session"
)

// @title Courier Dashboard Gateway
// @version 1.0
// @description Server-rendered dashboards for the courier tracking service, with a JSON proxy for the data loaders.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	renderer, err := render.New()
	if err != nil {
		log.Fatalf("template init: %v", err)
	}
	e.Renderer = renderer

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sessions := session.NewRedisStore(cacheClient, cfg.SessionTTL)
	cookies := session.Cookies{
		Name:   cfg.SessionCookie,
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
	}

	courier := api.NewClient(cfg.APIBaseURL)
	sessionGuard := guard.New(sessions, cookies)

	pageHandler := handler.NewPageHandler(courier, sessions, cookies)
	dashboardHandler := handler.NewDashboardHandler(courier)
	mutationHandler := handler.NewMutationHandler(courier)
	apiHandler := handler.NewAPIHandler(courier)

	router.Register(
		e,
		sessionGuard,
		pageHandler,
		dashboardHandler,
		mutationHandler,
		apiHandler,
	)

	log.Printf("courier API at %s", cfg.APIBaseURL)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
