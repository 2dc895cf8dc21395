// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package app assembles and runs the linkrace server: corpus store,
// pathfinder, room registry, and the HTTP/WebSocket surface. Both the
// service binary and the CLI's serve command boot through Run.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/AleutianAI/linkrace/pkg/logging"
	"github.com/AleutianAI/linkrace/services/game"
	"github.com/AleutianAI/linkrace/services/graph"
	"github.com/AleutianAI/linkrace/services/pathfind"
	"github.com/AleutianAI/linkrace/services/server/config"
	"github.com/AleutianAI/linkrace/services/server/handlers"
	"github.com/AleutianAI/linkrace/services/server/middleware"
	"github.com/AleutianAI/linkrace/services/server/routes"
)

const serviceName = "linkrace-server"

// initTracer wires the OTLP gRPC exporter and installs the global tracer
// provider. The returned function flushes and shuts the exporter down.
func initTracer(ctx context.Context, endpoint string) (func(context.Context), error) {
	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(serviceName)))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

// Run boots the server and blocks until ctx is cancelled or the listener
// fails. A missing or unreadable corpus database is fatal.
func Run(ctx context.Context, cfg *config.Config) error {
	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.LogLevel),
		LogDir:  cfg.LogDir,
		Service: serviceName,
		JSON:    true,
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	if cfg.OTLPEndpoint != "" {
		cleanup, err := initTracer(ctx, cfg.OTLPEndpoint)
		if err != nil {
			return fmt.Errorf("setup OTLP tracer: %w", err)
		}
		defer cleanup(context.Background())
	}

	store, err := graph.OpenSQLite(cfg.DatabasePath, logger.Slog())
	if err != nil {
		return fmt.Errorf("open corpus database: %w", err)
	}
	defer store.Close()

	finder := pathfind.NewFinder(store, logger.Slog())
	registry := game.NewRegistry(logger)
	session := game.NewSession(registry, finder, logger)
	hub := handlers.NewHub()

	go registry.RunReaper(ctx, cfg.ReapInterval)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.RequestLogger(logger.Slog()))

	routes.SetupRoutes(router, store, finder, registry, session, hub,
		handlers.GameSocketLimits{Rate: cfg.CommandRate, Burst: cfg.CommandBurst})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "port", cfg.Port, "database", cfg.DatabasePath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
