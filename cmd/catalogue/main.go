package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/ceramics-catalogue/pkg/api"
	"github.com/hazyhaar/ceramics-catalogue/pkg/images"
	"github.com/hazyhaar/ceramics-catalogue/pkg/sources"
	"github.com/hazyhaar/ceramics-catalogue/pkg/telemetry"
)

const version = "0.3.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	args := os.Args[2:]
	switch os.Args[1] {
	case "serve":
		cmdServe(args)
	case "report":
		cmdReport(args)
	case "sources":
		cmdSources(args)
	case "check":
		cmdCheck(args)
	case "mcp":
		cmdMCP(args)
	case "compile-dicts":
		cmdCompileDicts(args)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: catalogue <command> [flags]

Commands:
  serve          Start the HTTP server
  report         Print the lacuna aggregates of a collection
  sources        List dataset sources or override a dataset URL
  check          Check that every dataset is reachable
  mcp            Serve the catalogue tools over MCP (stdio)
  compile-dicts  Compile CSV dictionaries to gob
`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Erreur: "+format+"\n", args...)
	os.Exit(1)
}

func mustConfig(path string) config {
	cfg, err := loadConfig(path)
	if err != nil {
		fatal("%v", err)
	}
	return cfg
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	cfg := mustConfig(*cfgPath)
	logger := cfg.logger()

	env, reg, cols, err := setup(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer env.Sources.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if telemetry.Enabled() {
		shutdown, err := telemetry.Init(ctx, "catalogue", version)
		if err != nil {
			logger.Warn("telemetry disabled", "error", err)
		} else {
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(sctx); err != nil {
					logger.Warn("telemetry shutdown", "error", err)
				}
			}()
		}
	}

	store := api.NewStore(env, cols, logger)
	if err := store.Load(ctx); err != nil {
		logger.Warn("some collections failed to load; serving the rest", "error", err)
	}

	imgs := images.NewResolver(images.DirProber{Root: cfg.AssetsDir}, cfg.ImageMaxAttempts, logger)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.NewRouter(store, reg, api.Options{AssetsDir: cfg.AssetsDir, Images: imgs}),
	}

	// SIGHUP: reload dictionaries, then rebuild every collection.
	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, reloading")
			if err := reg.Reload(); err != nil {
				logger.Error("dictionary reload failed", "error", err)
				continue
			}
			if err := store.Load(ctx); err != nil {
				logger.Error("collection reload incomplete", "error", err)
			}
		}
	}()

	if interval, _ := cfg.checkInterval(); interval > 0 {
		go sources.NewChecker(env.Sources, logger, interval, cfg.Root).Start(ctx)
	}

	go func() {
		logger.Info("catalogue listening", "addr", cfg.Addr, "collections", len(cols))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	srv.Shutdown(context.Background())
}

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	cfg := mustConfig(*cfgPath)
	logger := cfg.logger()

	env, reg, cols, err := setup(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer env.Sources.Close()

	store := api.NewStore(env, cols, logger)
	if err := store.Load(context.Background()); err != nil {
		logger.Warn("some collections failed to load", "error", err)
	}

	srv := server.NewMCPServer("catalogue", version, server.WithToolCapabilities(false))
	api.RegisterMCPTools(srv, store, reg)
	if err := server.ServeStdio(srv); err != nil {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
