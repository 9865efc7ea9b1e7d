package sources

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/ceramics-catalogue/pkg/catalogue"
)

func tempDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "sources.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testCollections(urls ...string) []catalogue.Collection {
	var out []catalogue.Collection
	for i, u := range urls {
		out = append(out, catalogue.Collection{
			ID:          string(rune('a'+i)) + "-col",
			Schema:      "ver9",
			Description: "test collection",
			Dataset:     u,
		})
	}
	return out
}

func TestOpen_CreatesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file not created: %v", err)
	}
	list, err := db.List()
	if err != nil {
		t.Fatalf("List on empty db: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected 0 sources, got %d", len(list))
	}
}

func TestSeedKeepsOverrides(t *testing.T) {
	db := tempDB(t)
	if err := db.Seed(testCollections("data/a.csv")); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := db.SetURL("a-col", "https://example.com/a.csv"); err != nil {
		t.Fatalf("SetURL: %v", err)
	}
	if err := db.Seed(testCollections("data/changed.csv")); err != nil {
		t.Fatalf("Seed again: %v", err)
	}
	url, err := db.GetURL("a-col")
	if err != nil {
		t.Fatalf("GetURL: %v", err)
	}
	if url != "https://example.com/a.csv" {
		t.Fatalf("re-seed should keep override, got %s", url)
	}
	list, _ := db.List()
	if !list[0].Overridden {
		t.Error("overridden flag not set")
	}
}

func TestSeedFollowsConfig(t *testing.T) {
	db := tempDB(t)
	if err := db.Seed(testCollections("data/a.csv")); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := db.Seed(testCollections("data/b.csv")); err != nil {
		t.Fatalf("Seed again: %v", err)
	}
	url, err := db.GetURL("a-col")
	if err != nil {
		t.Fatalf("GetURL: %v", err)
	}
	if url != "data/b.csv" {
		t.Fatalf("re-seed without override: url = %s, want data/b.csv", url)
	}
	list, _ := db.List()
	if list[0].Overridden {
		t.Error("seeded row marked overridden")
	}
}

func TestResetURL(t *testing.T) {
	db := tempDB(t)
	cols := testCollections("data/a.csv")
	db.Seed(cols)
	db.SetURL("a-col", "https://example.com/a.csv")

	if err := db.ResetURL(cols[0]); err != nil {
		t.Fatalf("ResetURL: %v", err)
	}
	if url, _ := db.GetURL("a-col"); url != "data/a.csv" {
		t.Errorf("after reset url = %s", url)
	}
	db.Seed(testCollections("data/c.csv"))
	if url, _ := db.GetURL("a-col"); url != "data/c.csv" {
		t.Errorf("reset row should follow config again, url = %s", url)
	}
	if err := db.ResetURL(catalogue.Collection{ID: "nope"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("ResetURL unknown err = %v", err)
	}
}

func TestOpen_MigratesOldTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	raw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	_, err = raw.Exec(`CREATE TABLE dataset_sources (
		collection_id TEXT PRIMARY KEY, schema_ver TEXT NOT NULL, description TEXT NOT NULL,
		dataset_url TEXT NOT NULL, last_load INTEGER, last_rows INTEGER, load_error TEXT,
		last_check INTEGER, last_status INTEGER, last_error TEXT, updated_at INTEGER NOT NULL)`)
	if err != nil {
		t.Fatalf("create old table: %v", err)
	}
	raw.Exec(`INSERT INTO dataset_sources (collection_id, schema_ver, description, dataset_url, updated_at)
		VALUES ('a-col', 'ver9', 'old', 'data/old.csv', 1)`)
	raw.Close()

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	if err := db.Seed(testCollections("data/new.csv")); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if url, _ := db.GetURL("a-col"); url != "data/new.csv" {
		t.Errorf("url = %s, want data/new.csv", url)
	}
}

func TestResolve(t *testing.T) {
	cases := []struct {
		root, loc, want string
	}{
		{"/srv/data", "a.csv", filepath.Join("/srv/data", "a.csv")},
		{"/srv/data", "/abs/a.csv", "/abs/a.csv"},
		{"/srv/data", "https://example.com/a.csv", "https://example.com/a.csv"},
		{"", "a.csv", "a.csv"},
	}
	for _, tc := range cases {
		if got := Resolve(tc.root, tc.loc); got != tc.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tc.root, tc.loc, got, tc.want)
		}
	}
}

func TestNotFound(t *testing.T) {
	db := tempDB(t)
	if err := db.SetURL("nope", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetURL err = %v, want ErrNotFound", err)
	}
	if _, err := db.GetURL("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetURL err = %v, want ErrNotFound", err)
	}
}

func TestUpdateLoad(t *testing.T) {
	db := tempDB(t)
	db.Seed(testCollections("data/a.csv"))

	if err := db.UpdateLoad("a-col", 120, nil); err != nil {
		t.Fatalf("UpdateLoad: %v", err)
	}
	if err := db.UpdateLoad("a-col", 0, errors.New("boom")); err != nil {
		t.Fatalf("UpdateLoad failure: %v", err)
	}
	list, _ := db.List()
	src := list[0]
	if src.LastRows == nil || *src.LastRows != 120 {
		t.Errorf("last_rows = %v, want 120 kept from last success", src.LastRows)
	}
	if src.LoadError == nil || *src.LoadError != "boom" {
		t.Errorf("load_error = %v, want boom", src.LoadError)
	}
	if src.LastLoad == nil || *src.LastLoad == 0 {
		t.Error("last_load not set")
	}

	db.UpdateLoad("a-col", 7, nil)
	list, _ = db.List()
	if list[0].LoadError != nil || *list[0].LastRows != 7 {
		t.Errorf("after success: %+v", list[0])
	}
}

func TestUpdateCheck(t *testing.T) {
	db := tempDB(t)
	db.Seed(testCollections("data/a.csv"))

	if err := db.UpdateCheck("a-col", 404, "not found"); err != nil {
		t.Fatalf("UpdateCheck: %v", err)
	}
	list, _ := db.List()
	src := list[0]
	if src.LastStatus == nil || *src.LastStatus != 404 {
		t.Fatalf("last_status = %v, want 404", src.LastStatus)
	}
	if src.LastError == nil || *src.LastError != "not found" {
		t.Fatalf("last_error = %v", src.LastError)
	}
}
