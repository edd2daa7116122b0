package audio

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/snonux/readalong/internal/testutil"
)

func TestOpenCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")

	c, err := OpenCache(dir)
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}
	defer c.Close()

	if _, err := os.Stat(filepath.Join(dir, "readalong_cache.db")); err != nil {
		t.Errorf("cache index not created: %v", err)
	}
}

func TestCache_Key(t *testing.T) {
	c, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}
	defer c.Close()

	a := c.Key("Der Hund schläft.", "alloy", 1.0)
	b := c.Key("Der Hund schläft.", "alloy", 1.0)
	if a != b {
		t.Error("same request produced different keys")
	}

	if c.Key("Der Hund schläft.", "alloy", 0.8) == a {
		t.Error("different speed produced the same key")
	}
	if c.Key("Der Hund schläft.", "nova", 1.0) == a {
		t.Error("different voice produced the same key")
	}
}

func TestCache_StoreAndLookup(t *testing.T) {
	c, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}
	defer c.Close()

	key := c.Key("text", "alloy", 1.0)
	file := c.FilePath(key, ".mp3")
	if err := os.WriteFile(file, []byte("mock audio data"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := c.Store(key, file, 12.345); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	entry, ok := c.Lookup(key)
	if !ok {
		t.Fatal("Lookup missed a stored entry")
	}
	if entry.File != file {
		t.Errorf("entry file = %s, want %s", entry.File, file)
	}
	if entry.Duration != 12.345 {
		t.Errorf("entry duration = %v, want 12.345 (millisecond accuracy)", entry.Duration)
	}
}

func TestCache_LookupMiss(t *testing.T) {
	c, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}
	defer c.Close()

	if _, ok := c.Lookup("nope"); ok {
		t.Error("Lookup hit for unknown key")
	}
}

func TestCache_StaleEntryRemoved(t *testing.T) {
	c, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}
	defer c.Close()

	key := c.Key("gone", "alloy", 1.0)
	file := testutil.CreateTestAudioFile(t, c.dir, key+".mp3")
	if err := c.Store(key, file, 1.0); err != nil {
		t.Fatal(err)
	}

	// remove the audio file behind the index's back
	os.Remove(file)

	if _, ok := c.Lookup(key); ok {
		t.Error("Lookup hit for entry whose file is gone")
	}
}

func TestCache_RejectsFileOutsideCacheDir(t *testing.T) {
	c, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}
	defer c.Close()

	if err := c.Store("key", "/tmp/elsewhere.mp3", 1.0); err == nil {
		t.Error("expected error for file outside cache directory")
	}
}

func TestCache_Stats(t *testing.T) {
	c, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}
	defer c.Close()

	for i, text := range []string{"eins", "zwei"} {
		key := c.Key(text, "alloy", 1.0)
		file := c.FilePath(key, ".mp3")
		if err := os.WriteFile(file, make([]byte, 10*(i+1)), 0644); err != nil {
			t.Fatal(err)
		}
		if err := c.Store(key, file, 1.0); err != nil {
			t.Fatal(err)
		}
	}

	count, size, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if size != 30 {
		t.Errorf("size = %d, want 30", size)
	}
}
