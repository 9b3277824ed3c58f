package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

// testKV creates a temporary SQLite-backed store for testing.
func testKV(t *testing.T) *KV {
	t.Helper()
	dir := t.TempDir()
	kv, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestOpen_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	kv, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer kv.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("database file not created")
	}
}

func TestSaveAndLoad(t *testing.T) {
	kv := testKV(t)

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	if err := kv.Save("tickets", doc{Name: "a", Count: 2}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var got doc
	found, err := kv.Load("tickets", &got)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !found {
		t.Fatal("expected found=true")
	}
	if got.Name != "a" || got.Count != 2 {
		t.Errorf("loaded %+v", got)
	}
}

func TestSave_ReplacesPriorValue(t *testing.T) {
	kv := testKV(t)

	kv.Save("k", "first")
	kv.Save("k", "second")

	var got string
	if _, err := kv.Load("k", &got); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "second" {
		t.Errorf("got %q, want second", got)
	}
}

func TestLoad_AbsentKey(t *testing.T) {
	kv := testKV(t)

	var got []string
	found, err := kv.Load("never_saved", &got)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if found {
		t.Error("expected found=false for an absent key")
	}
}

func TestLoad_CorruptPayloadTreatedAsAbsent(t *testing.T) {
	kv := testKV(t)
	kv.logger.SetOutput(io.Discard)

	// Write garbage directly, bypassing Save's JSON encoding.
	if _, err := kv.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)`, "bad", []byte("{not json")); err != nil {
		t.Fatalf("seed corrupt row: %v", err)
	}

	var got map[string]string
	found, err := kv.Load("bad", &got)
	if err != nil {
		t.Fatalf("Load must not fail on corruption: %v", err)
	}
	if found {
		t.Error("corrupt payload must report found=false")
	}
}

func TestDelete(t *testing.T) {
	kv := testKV(t)

	kv.Save("k", 1)
	if err := kv.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var got int
	if found, _ := kv.Load("k", &got); found {
		t.Error("key should be gone")
	}

	// Deleting an absent key is fine.
	if err := kv.Delete("missing"); err != nil {
		t.Errorf("delete absent: %v", err)
	}
}

func TestReset(t *testing.T) {
	kv := testKV(t)

	kv.Save("a", 1)
	kv.Save("b", 2)
	if err := kv.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	var got int
	if found, _ := kv.Load("a", &got); found {
		t.Error("reset should remove every key")
	}
}
