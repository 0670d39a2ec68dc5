package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/emutab/emutab/internal/bridge"
	"github.com/emutab/emutab/internal/config"
	"github.com/emutab/emutab/internal/emulate"
	"github.com/emutab/emutab/internal/handlers"
	"github.com/emutab/emutab/internal/session"
)

var version = "dev"

func main() {
	cfg := config.Load()

	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("emutab %s\n", version)
		os.Exit(0)
	}

	if len(os.Args) > 1 && os.Args[1] == "config" {
		config.HandleConfigCommand(cfg)
		os.Exit(0)
	}

	if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
		slog.Error("cannot create state dir", "err", err)
		os.Exit(1)
	}

	// Start Chrome eagerly so the first request does not pay the startup
	// cost. On failure the bridge falls back to lazy initialization and
	// retries when a request arrives.
	var b *bridge.Bridge
	allocCtx, allocCancel, browserCtx, browserCancel, err := bridge.InitChrome(cfg)
	if err != nil {
		slog.Warn("Chrome startup failed; will retry on first request", "err", err)
		b = bridge.New(nil, nil, cfg)
	} else {
		b = bridge.New(allocCtx, browserCtx, cfg)
		b.AllocCancel = allocCancel
		b.BrowserCancel = browserCancel

		// In CDP_URL mode the initial target may not exist yet; tabs are
		// registered as they are discovered.
		if cfg.CdpURL == "" {
			if c := chromedp.FromContext(browserCtx); c != nil && c.Target != nil {
				initTargetID := string(c.Target.TargetID)
				b.RegisterTab(initTargetID, browserCtx)
				slog.Info("initial tab", "id", initTargetID)
			}
		}
	}

	state := session.New()
	orch := emulate.New(b, state)

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go b.CleanStaleTabs(cleanupCtx, 30*cfg.ActionTimeout)

	mux := http.NewServeMux()
	h := handlers.New(b, cfg, orch, state)

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownOnce := &sync.Once{}
	doShutdown := func() {
		shutdownOnce.Do(func() {
			slog.Info("shutting down")
			cleanupCancel()
			if b.BrowserCancel != nil {
				b.BrowserCancel()
			}
			if b.AllocCancel != nil {
				b.AllocCancel()
			}
			slog.Info("chrome closed")

			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(ctx)
		})
	}

	h.RegisterRoutes(mux, doShutdown)

	srv.Handler = handlers.LoggingMiddleware(
		handlers.RequestIDMiddleware(
			handlers.CorsMiddleware(
				handlers.AuthMiddleware(cfg,
					handlers.RateLimitMiddleware(mux)))))

	setupSignalHandler(doShutdown, func() {
		cleanupCancel()
		if b.BrowserCancel != nil {
			b.BrowserCancel()
		}
		if b.AllocCancel != nil {
			b.AllocCancel()
		}
	})

	slog.Info("emutab ready", "version", version, "port", cfg.Port, "cdp", cfg.CdpURL)
	if cfg.Token != "" {
		slog.Info("auth enabled")
	} else {
		slog.Info("auth disabled (set EMUTAB_TOKEN to enable)")
	}

	go runStartupHealthCheck(cfg)

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		slog.Error("server", "err", err)
		os.Exit(1)
	}
}

func setupSignalHandler(shutdownFn func(), forceFn func()) {
	go func() {
		sig := make(chan os.Signal, 2)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		go shutdownFn()
		<-sig
		slog.Warn("force shutdown requested")
		forceFn()
		os.Exit(130)
	}()
}

func runStartupHealthCheck(cfg *config.RuntimeConfig) {
	time.Sleep(500 * time.Millisecond)
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%s/health", cfg.Port))
	if err != nil {
		slog.Error("startup health check failed", "err", err)
		return
	}
	_ = resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		slog.Info("startup health check passed")
	} else {
		slog.Warn("startup health check unexpected status", "status", resp.StatusCode)
	}
}
