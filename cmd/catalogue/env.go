package main

import (
	"fmt"
	"log/slog"

	"github.com/hazyhaar/ceramics-catalogue/pkg/catalogue"
	"github.com/hazyhaar/ceramics-catalogue/pkg/dict"
	"github.com/hazyhaar/ceramics-catalogue/pkg/lacuna"
	"github.com/hazyhaar/ceramics-catalogue/pkg/pipeline"
	"github.com/hazyhaar/ceramics-catalogue/pkg/sources"
)

// setup loads dictionaries, schemas, lacuna tables and the sources database.
// The caller closes the returned database.
func setup(cfg config, logger *slog.Logger) (*pipeline.Env, *dict.Registry, []catalogue.Collection, error) {
	reg := dict.NewRegistry(cfg.DictsDir)
	if err := reg.Load(); err != nil {
		return nil, nil, nil, fmt.Errorf("load dictionaries: %w", err)
	}
	logger.Info("dictionaries loaded", "count", reg.DictCount(), "entries", reg.TotalEntries())

	schemas, err := catalogue.Schemas(cfg.SchemasDir)
	if err != nil {
		return nil, nil, nil, err
	}
	tables, err := lacuna.LoadTables(cfg.LacunaTables)
	if err != nil {
		return nil, nil, nil, err
	}

	cols := cfg.collections()
	sdb, err := sources.Open(cfg.SourcesDB)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := sdb.Seed(cols); err != nil {
		sdb.Close()
		return nil, nil, nil, err
	}

	env := &pipeline.Env{
		Dicts:   reg,
		Schemas: schemas,
		Tables:  tables,
		Sources: sdb,
		Root:    cfg.Root,
		Logger:  logger,
	}
	return env, reg, cols, nil
}
