package store

import (
	"testing"

	"github.com/therealutkarshpriyadarshi/vector/pkg/hnsw"
)

func buildTestCollection(t *testing.T) *hnsw.Collection[string] {
	t.Helper()
	records := []hnsw.Record[string]{
		{Vector: hnsw.Vector{0, 0}, Data: "origin"},
		{Vector: hnsw.Vector{1, 0}, Data: "east"},
		{Vector: hnsw.Vector{0, 1}, Data: "north"},
		{Vector: hnsw.Vector{5, 5}, Data: "far"},
	}
	c, err := hnsw.Build(hnsw.DefaultConfig(), hnsw.Euclidean, records)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return c
}

func TestSaveAndLoadSnapshotRoundTrip(t *testing.T) {
	c := buildTestCollection(t)

	s, err := Open(t.TempDir(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	snap := c.ToSnapshot()
	if err := SaveSnapshot(s, "collection:test", snap); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	loaded, err := LoadSnapshot[string](s, "collection:test")
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}

	restored := hnsw.FromSnapshot[string](hnsw.Euclidean, loaded)
	if restored.Len() != c.Len() {
		t.Fatalf("restored Len() = %d, want %d", restored.Len(), c.Len())
	}
	if restored.Dimension() != c.Dimension() {
		t.Fatalf("restored Dimension() = %d, want %d", restored.Dimension(), c.Dimension())
	}

	results, err := restored.Search(hnsw.Vector{0, 0}, 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Data != "origin" {
		t.Fatalf("Search() after restore = %+v, want nearest to be origin", results)
	}
}

func TestLoadSnapshotMissingKey(t *testing.T) {
	s, err := Open(t.TempDir(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if _, err := LoadSnapshot[string](s, "does-not-exist"); err == nil {
		t.Fatal("expected an error loading a missing key")
	}
}

func TestExists(t *testing.T) {
	s, err := Open(t.TempDir(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if s.Exists("collection:test") {
		t.Fatal("expected key to not exist yet")
	}

	c := buildTestCollection(t)
	if err := SaveSnapshot(s, "collection:test", c.ToSnapshot()); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	if !s.Exists("collection:test") {
		t.Fatal("expected key to exist after save")
	}
}
