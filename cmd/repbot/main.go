package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"tailscale.com/tsnet"

	"github.com/rapidroutines/render-repbot/internal/config"
	"github.com/rapidroutines/render-repbot/internal/engine"
	"github.com/rapidroutines/render-repbot/internal/mcp"
	"github.com/rapidroutines/render-repbot/internal/metrics"
	"github.com/rapidroutines/render-repbot/internal/server"
	"github.com/rapidroutines/render-repbot/internal/session"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (optional; defaults + env otherwise)")
	mcpMode := flag.Bool("mcp", false, "serve MCP over stdio instead of HTTP")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("RepBot starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	met := metrics.NewManager("repbot", registry)
	store := session.NewMemoryStore()
	eng := engine.New(store, cfg, met, log)

	if *mcpMode {
		log.Info("serving MCP over stdio")
		if err := mcpserver.ServeStdio(mcp.New(eng, Version, log)); err != nil {
			log.Error("mcp server error", "error", err)
			os.Exit(1)
		}
		return
	}

	srv := server.New(eng, registry, log)

	// Background sweep keeps the unbounded in-memory store in check.
	sweepDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Detection.SweepIntervalMS) * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				eng.CleanupSessions(cfg.Detection.SessionMaxIdleMS)
			case <-sweepDone:
				return
			}
		}
	}()

	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr)
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)
	close(sweepDone)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
