package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hazyhaar/ceramics-catalogue/pkg/aggregate"
	"github.com/hazyhaar/ceramics-catalogue/pkg/catalogue"
	"github.com/hazyhaar/ceramics-catalogue/pkg/render"
)

func cmdReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	collection := fs.String("collection", "unified", "collection ID")
	xlsx := fs.String("xlsx", "", "also write the aggregates to this workbook")
	chartDir := fs.String("charts", "", "also write SVG charts to this directory")
	unprocessed := fs.Bool("unprocessed", false, "list rows left out of aggregation")
	fs.Parse(args)

	cfg := mustConfig(*cfgPath)
	logger := cfg.logger()

	env, _, _, err := setup(cfg, logger)
	if err != nil {
		fatal("%v", err)
	}
	defer env.Sources.Close()

	c, err := catalogue.Get(*collection)
	if err != nil {
		fatal("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	snap, err := env.Build(ctx, c)
	if err != nil {
		fatal("%v", err)
	}

	if err := aggregate.WriteText(os.Stdout, c.Description, snap.Result); err != nil {
		fatal("%v", err)
	}
	if *unprocessed {
		fmt.Println("\n-- unprocessed")
		for _, u := range snap.Result.Unprocessed {
			fmt.Printf("  line %-6d %-20s %s\n", u.Line, u.Inventory, u.Reason)
		}
	}

	if *xlsx != "" {
		f, err := render.Workbook(snap.Result)
		if err != nil {
			fatal("%v", err)
		}
		if err := f.SaveAs(*xlsx); err != nil {
			fatal("write %s: %v", *xlsx, err)
		}
		f.Close()
		fmt.Printf("\nworkbook written to %s\n", *xlsx)
	}

	if *chartDir != "" {
		if err := writeCharts(*chartDir, snap.Result); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("charts written to %s\n", *chartDir)
	}
}

func writeCharts(dir string, r *aggregate.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	names := []string{"raw", "approx", "average"}
	for _, m := range r.Materials {
		names = append(names, "material-"+catalogue.Slug(m))
	}
	for _, name := range names {
		path := filepath.Join(dir, name+".svg")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = render.Chart(f, r, name, render.SVG)
		f.Close()
		if errors.Is(err, render.ErrNoData) {
			os.Remove(path)
			continue
		}
		if err != nil {
			return fmt.Errorf("chart %s: %w", name, err)
		}
	}
	return nil
}
