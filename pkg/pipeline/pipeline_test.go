package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazyhaar/ceramics-catalogue/pkg/catalogue"
	"github.com/hazyhaar/ceramics-catalogue/pkg/lacuna"
	"github.com/hazyhaar/ceramics-catalogue/pkg/sources"
)

const dataset = "inventaire clean,matériau simplifié,% lacunaire,provenance (country code),provenance@en,Ente conservatore,pictures filenames,provenance_file\n" +
	"MIC 1,terre cuite,<10,250,France,MIC Museo Internazionale della Ceramica in Faenza,F1.JPG,faenza_a.csv\n" +
	"MIC 2,faïence,(?),999,Nowhere,MIC Museo Internazionale della Ceramica in Faenza,F2.JPG,faenza_a.csv\n" +
	"MIC 3,,10,380,Italy,MIC Museo Internazionale della Ceramica in Faenza,,faenza_a.csv\n" +
	"S 1,grés,15-20,250,France,Sèvres - Manufacture et Musée nationaux,S1.JPG,sevres_b.csv\n"

func testEnv(t *testing.T) (*Env, catalogue.Collection) {
	t.Helper()
	root := t.TempDir()
	os.MkdirAll(filepath.Join(root, "data"), 0o755)
	os.WriteFile(filepath.Join(root, "data", "ds.csv"), []byte(dataset), 0o644)

	db, err := sources.Open(filepath.Join(root, "sources.db"))
	if err != nil {
		t.Fatalf("sources.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	c := catalogue.Collection{
		ID:          "mic-test",
		Schema:      "ver9",
		Dataset:     "data/ds.csv",
		FilePrefix:  "faenza_",
		ImageBase:   "assets/faenza",
		Placeholder: "assets/faenza/alt.png",
	}
	if err := db.Seed([]catalogue.Collection{c}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return &Env{
		Tables:  lacuna.DefaultTables(),
		Sources: db,
		Root:    root,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, c
}

func TestBuild(t *testing.T) {
	env, c := testEnv(t)
	snap, err := env.Build(context.Background(), c)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if snap.Rows != 4 || len(snap.Items) != 3 {
		t.Errorf("rows = %d, items = %d, want 4, 3", snap.Rows, len(snap.Items))
	}
	if snap.Result.Processed != 2 || len(snap.Result.Unprocessed) != 1 {
		t.Errorf("processed = %d, unprocessed = %d", snap.Result.Processed, len(snap.Result.Unprocessed))
	}
	if got := snap.Result.Approx.Count("10", "Terracotta"); got != 1 {
		t.Errorf("approx[10][Terracotta] = %d, want 1", got)
	}
	if len(snap.Markers) != 2 || len(snap.Skipped) != 1 {
		t.Errorf("markers = %d, skipped = %d, want 2, 1", len(snap.Markers), len(snap.Skipped))
	}
	if snap.Markers[0].Image != "assets/faenza/F1.JPG" {
		t.Errorf("marker image = %q", snap.Markers[0].Image)
	}
	if len(snap.Groups) != 3 || snap.Groups[2].Material != catalogue.UnknownMaterial {
		t.Errorf("groups = %+v", snap.Groups)
	}

	list, _ := env.Sources.List()
	if list[0].LastRows == nil || *list[0].LastRows != 3 || list[0].LoadError != nil {
		t.Errorf("source after load = %+v", list[0])
	}
}

func TestBuild_LoadFailureRecorded(t *testing.T) {
	env, c := testEnv(t)
	if err := env.Sources.SetURL(c.ID, filepath.Join(env.Root, "missing.csv")); err != nil {
		t.Fatalf("SetURL: %v", err)
	}
	if _, err := env.Build(context.Background(), c); err == nil {
		t.Fatal("expected load error")
	}
	list, _ := env.Sources.List()
	if list[0].LoadError == nil || !strings.Contains(*list[0].LoadError, "missing.csv") {
		t.Errorf("load_error = %v", list[0].LoadError)
	}
}

func TestBuild_ConfigDatasetChange(t *testing.T) {
	env, c := testEnv(t)
	if _, err := env.Build(context.Background(), c); err != nil {
		t.Fatalf("first Build: %v", err)
	}

	lines := strings.SplitAfter(dataset, "\n")
	os.WriteFile(filepath.Join(env.Root, "data", "ds2.csv"), []byte(lines[0]+lines[1]), 0o644)
	c.Dataset = "data/ds2.csv"
	if err := env.Sources.Seed([]catalogue.Collection{c}); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	snap, err := env.Build(context.Background(), c)
	if err != nil {
		t.Fatalf("Build after config change: %v", err)
	}
	if snap.Source != filepath.Join(env.Root, "data", "ds2.csv") || len(snap.Items) != 1 {
		t.Errorf("source = %s, items = %d, want ds2.csv with 1 item", snap.Source, len(snap.Items))
	}
}

func TestBuild_UnknownSchema(t *testing.T) {
	env, c := testEnv(t)
	c.Schema = "ver99"
	if _, err := env.Build(context.Background(), c); err == nil {
		t.Fatal("expected unknown schema error")
	}
}

func TestMaterialImage(t *testing.T) {
	env := &Env{}
	if got := env.MaterialImage("Terracotta"); got != "assets/materials/terre-cuite.jpg" {
		t.Errorf("Terracotta image = %q", got)
	}
	if got := env.MaterialImage("Quartz"); got != "assets/materials/quartz.jpg" {
		t.Errorf("Quartz image = %q", got)
	}
}
