package main

import (
	"flag"
	"fmt"
	"sort"

	"github.com/hazyhaar/ceramics-catalogue/pkg/dict"
)

func cmdCompileDicts(args []string) {
	fs := flag.NewFlagSet("compile-dicts", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	dir := fs.String("dicts-dir", "", "dictionaries directory (default from config)")
	fs.Parse(args)

	if *dir == "" {
		*dir = mustConfig(*cfgPath).DictsDir
	}
	counts, err := dict.CompileAll(*dir)
	if err != nil {
		fatal("%v", err)
	}
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Printf("[%s] %d entries -> %s\n", id, counts[id], dict.GobFile)
	}
}
