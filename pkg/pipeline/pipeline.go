// Package pipeline loads a collection's dataset and derives everything the
// catalogue serves from it: aggregates, material groups and map markers.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/hazyhaar/ceramics-catalogue/pkg/aggregate"
	"github.com/hazyhaar/ceramics-catalogue/pkg/catalogue"
	"github.com/hazyhaar/ceramics-catalogue/pkg/dict"
	"github.com/hazyhaar/ceramics-catalogue/pkg/geo"
	"github.com/hazyhaar/ceramics-catalogue/pkg/lacuna"
	"github.com/hazyhaar/ceramics-catalogue/pkg/sources"
)

const scopeName = "github.com/hazyhaar/ceramics-catalogue/pkg/pipeline"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)

	loadCounter, _ = meter.Int64Counter("catalogue.collection.loads",
		metric.WithDescription("Dataset loads by collection and outcome"))
	unprocessedGauge, _ = meter.Int64Gauge("catalogue.collection.unprocessed",
		metric.WithDescription("Rows left out of aggregation in the last load"),
		metric.WithUnit("{row}"))
)

// Snapshot is the immutable outcome of loading one collection.
type Snapshot struct {
	Collection catalogue.Collection
	Source     string
	LoadedAt   time.Time
	// Rows is the dataset size before the collection filter.
	Rows    int
	Items   []catalogue.Item
	Result  *aggregate.Result
	Groups  []catalogue.Group
	Markers []geo.Marker
	Skipped []geo.Skipped
}

// Env holds what a build needs besides the collection itself.
type Env struct {
	Dicts   *dict.Registry
	Schemas map[string]*catalogue.Schema
	Tables  lacuna.Tables
	// Sources, when set, overrides dataset locations and records loads.
	Sources *sources.DB
	// Root resolves relative dataset paths.
	Root   string
	Logger *slog.Logger
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func (e *Env) dict(id string) *dict.Dictionary {
	if e.Dicts != nil {
		if d, ok := e.Dicts.Get(id); ok {
			return d
		}
	}
	return dict.Builtin()[id]
}

// Translator returns the material translator of the current dictionaries.
func (e *Env) Translator() *dict.Translator {
	return dict.NewTranslator(e.dict(dict.MaterialsID))
}

// Geo returns a country resolver over the current dictionaries.
func (e *Env) Geo() *geo.Resolver {
	return geo.NewResolver(e.dict(dict.CountriesID), e.dict(dict.ConservatorImagesID), e.logger())
}

// MaterialImage returns the card image of a translated material.
func (e *Env) MaterialImage(material string) string {
	if d := e.dict(dict.MaterialImagesID); d != nil {
		if entry, ok := d.Lookup(material); ok && entry.Value != "" {
			return entry.Value
		}
	}
	return "assets/materials/" + catalogue.Slug(material) + ".jpg"
}

// Location returns where the dataset of c is read from.
func (e *Env) Location(c catalogue.Collection) string {
	loc := c.Dataset
	if e.Sources != nil {
		if u, err := e.Sources.GetURL(c.ID); err == nil && u != "" {
			loc = u
		} else if err != nil && !errors.Is(err, sources.ErrNotFound) {
			e.logger().Warn("source lookup failed", "collection", c.ID, "error", err)
		}
	}
	return sources.Resolve(e.Root, loc)
}

// Build loads and folds the dataset of c. A load failure is recorded in the
// sources database and returned; no partial snapshot is produced.
func (e *Env) Build(ctx context.Context, c catalogue.Collection) (_ *Snapshot, err error) {
	ctx, span := tracer.Start(ctx, "pipeline.Build")
	span.SetAttributes(attribute.String("collection", c.ID))
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		loadCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("collection", c.ID), attribute.String("outcome", outcome)))
		span.End()
	}()

	log := e.logger().With("collection", c.ID)
	loc := e.Location(c)

	schema, ok := e.Schemas[c.Schema]
	if !ok {
		schema, ok = catalogue.BuiltinSchema(c.Schema)
	}
	if !ok {
		return nil, fmt.Errorf("collection %s: unknown schema %q", c.ID, c.Schema)
	}

	table, err := catalogue.Load(ctx, loc, schema.Format)
	if err != nil {
		e.recordLoad(c.ID, 0, err)
		return nil, fmt.Errorf("collection %s: %w", c.ID, err)
	}
	if missing := schema.Missing(table.Header); len(missing) > 0 {
		log.Warn("dataset lacks columns", "schema", schema.Version, "missing", missing)
	}

	items := c.Filter(schema.BindAll(table))
	tr := e.Translator()
	result := aggregate.Build(items, aggregate.Options{
		Translator: tr,
		Approx:     e.Tables.Approx,
		Numeric:    e.Tables.Numeric,
	})
	if n := len(result.Unprocessed); n > 0 {
		first := make([]int, 0, 5)
		for _, u := range result.Unprocessed[:min(n, 5)] {
			first = append(first, u.Line)
		}
		log.Warn("rows left out of aggregation", "count", n, "first_lines", first)
	}

	markers, skipped := e.Geo().Markers(items, c)

	snap := &Snapshot{
		Collection: c,
		Source:     loc,
		LoadedAt:   time.Now(),
		Rows:       len(table.Rows),
		Items:      items,
		Result:     result,
		Groups:     catalogue.GroupByMaterial(items, tr),
		Markers:    markers,
		Skipped:    skipped,
	}
	e.recordLoad(c.ID, len(items), nil)
	unprocessedGauge.Record(ctx, int64(len(result.Unprocessed)), metric.WithAttributes(attribute.String("collection", c.ID)))
	span.SetAttributes(attribute.Int("items", len(items)), attribute.Int("processed", result.Processed))
	log.Info("collection loaded",
		"source", loc,
		"rows", snap.Rows,
		"items", len(items),
		"processed", result.Processed,
		"markers", len(markers),
	)
	return snap, nil
}

func (e *Env) recordLoad(id string, rows int, loadErr error) {
	if e.Sources == nil {
		return
	}
	if err := e.Sources.UpdateLoad(id, rows, loadErr); err != nil {
		e.logger().Error("record load failed", "collection", id, "error", err)
	}
}
