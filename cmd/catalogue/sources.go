package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hazyhaar/ceramics-catalogue/pkg/catalogue"
	"github.com/hazyhaar/ceramics-catalogue/pkg/sources"
)

func cmdSources(args []string) {
	fs := flag.NewFlagSet("sources", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	cfg := mustConfig(*cfgPath)
	sdb := openSources(cfg)
	defer sdb.Close()

	rest := fs.Args()
	if len(rest) == 0 || rest[0] == "list" {
		printSources(os.Stdout, sdb)
		return
	}
	if rest[0] == "set-url" && len(rest) == 3 {
		if err := sdb.SetURL(rest[1], rest[2]); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("[%s] dataset -> %s\n", rest[1], rest[2])
		return
	}
	if rest[0] == "reset-url" && len(rest) == 2 {
		c, err := catalogue.Get(rest[1])
		if err != nil {
			fatal("%v", err)
		}
		if err := sdb.ResetURL(c); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("[%s] dataset -> %s\n", c.ID, c.Dataset)
		return
	}
	fmt.Fprintln(os.Stderr, "Usage:\n  catalogue sources [list]\n  catalogue sources set-url <collection> <url-or-path>\n  catalogue sources reset-url <collection>")
	os.Exit(1)
}

func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	cfg := mustConfig(*cfgPath)
	sdb := openSources(cfg)
	defer sdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	_, failed := sources.NewChecker(sdb, cfg.logger(), time.Hour, cfg.Root).CheckAll(ctx)
	printSources(os.Stdout, sdb)
	if failed > 0 {
		os.Exit(1)
	}
}

func openSources(cfg config) *sources.DB {
	sdb, err := sources.Open(cfg.SourcesDB)
	if err != nil {
		fatal("ouverture %s: %v", cfg.SourcesDB, err)
	}
	if err := sdb.Seed(cfg.collections()); err != nil {
		sdb.Close()
		fatal("seed sources: %v", err)
	}
	return sdb
}

func printSources(w io.Writer, sdb *sources.DB) {
	list, err := sdb.List()
	if err != nil {
		slog.Error("list sources", "error", err)
		return
	}
	for _, src := range list {
		status := ""
		if src.LastStatus != nil {
			status = fmt.Sprintf("  [%d]", *src.LastStatus)
		}
		load := ""
		switch {
		case src.LoadError != nil:
			load = "  load failed: " + *src.LoadError
		case src.LastRows != nil:
			load = fmt.Sprintf("  %d items", *src.LastRows)
		}
		override := ""
		if src.Overridden {
			override = " (set-url)"
		}
		fmt.Fprintf(w, "  %-10s %-6s %s%s%s%s\n", src.CollectionID, src.Schema, src.DatasetURL, override, status, load)
	}
}
