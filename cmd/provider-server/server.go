package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/doctorwapp/provider-api/internal/config"
	"github.com/doctorwapp/provider-api/internal/domain/provider"
	"github.com/doctorwapp/provider-api/internal/platform/apierror"
	"github.com/doctorwapp/provider-api/internal/platform/db"
	"github.com/doctorwapp/provider-api/internal/platform/middleware"
	"github.com/doctorwapp/provider-api/internal/platform/openapi"
)

type serverDeps struct {
	pinger db.Pinger
	// pool backs /health/db; the route is omitted when nil.
	pool *pgxpool.Pool
	repo provider.Repository
}

func newServer(cfg *config.Config, logger zerolog.Logger, deps serverDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apierror.Handler(logger)

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, middleware.RequestIDHeader},
	}))

	// Health checks
	e.GET("/health", db.HealthHandler(deps.pinger, db.HealthInfo{
		Environment: cfg.Env,
		Version:     cfg.Version,
	}))
	if deps.pool != nil {
		e.GET("/health/db", db.PoolHealthHandler(deps.pool))
	}

	api := e.Group("/api/providers", middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
		IdleTTL:           middleware.DefaultRateLimitConfig().IdleTTL,
	}))
	svc := provider.NewService(deps.repo, cfg.ComplexQueryTimeout)
	provider.NewHandler(svc, logger).RegisterRoutes(api)

	if cfg.EnableSwagger {
		baseURL := fmt.Sprintf("http://localhost:%s", cfg.Port)
		openapi.NewGenerator(cfg.Version, baseURL).RegisterRoutes(e)
	}

	return e
}

func printInventory(w io.Writer, inv *provider.Inventory) error {
	fmt.Fprintf(w, "Providers:          %d\n", inv.Providers)
	fmt.Fprintf(w, "Medicare services:  %d\n", inv.Services)
	fmt.Fprintf(w, "Taxonomies:         %d\n", inv.Taxonomies)
	if inv.Sample == nil {
		fmt.Fprintln(w, "No provider with billed Medicare services found.")
		return nil
	}

	d := provider.NewDetail(inv.Sample)
	fmt.Fprintf(w, "\nSample provider %s (%s)\n", d.NPI, d.ProviderName)
	fmt.Fprintf(w, "  taxonomies: %d, services: %d\n", len(d.Taxonomies), len(d.Medicare.Services))
	s := d.Medicare.Summary
	fmt.Fprintf(w, "  total services: %.2f, beneficiaries: %d, payments: %.2f\n",
		s.TotalServices, s.TotalBeneficiaries, s.TotalPayments)
	return nil
}
