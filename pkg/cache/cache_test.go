package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

// backends returns one fresh instance of every storing backend.
func backends(t *testing.T) map[string]Cache {
	t.Helper()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return map[string]Cache{
		"file":   fc,
		"memory": NewMemoryCache(0),
	}
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer c.Close()

			if _, hit, _ := c.Get(ctx, "missing"); hit {
				t.Error("empty cache should miss")
			}
			if err := c.Set(ctx, "fig", []byte(`{"data":[]}`), time.Hour); err != nil {
				t.Fatalf("Set: %v", err)
			}
			data, hit, err := c.Get(ctx, "fig")
			if err != nil || !hit || string(data) != `{"data":[]}` {
				t.Errorf("Get = %q, %v, %v", data, hit, err)
			}
			if err := c.Delete(ctx, "fig"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, hit, _ := c.Get(ctx, "fig"); hit {
				t.Error("deleted entry should miss")
			}
			if err := c.Delete(ctx, "fig"); err != nil {
				t.Errorf("deleting a missing key: %v", err)
			}
		})
	}
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := c.Set(ctx, "short", []byte("x"), time.Millisecond); err != nil {
				t.Fatal(err)
			}
			if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
				t.Fatal(err)
			}
			time.Sleep(10 * time.Millisecond)

			if _, hit, _ := c.Get(ctx, "short"); hit {
				t.Error("expired entry should miss")
			}
			if _, hit, _ := c.Get(ctx, "forever"); !hit {
				t.Error("entry without ttl should not expire")
			}
		})
	}
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	fc := c.(*FileCache)

	path := fc.path("broken")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "broken"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2).(*MemoryCache)

	_ = c.Set(ctx, "a", []byte("1"), time.Minute)
	_ = c.Set(ctx, "b", []byte("2"), time.Hour)
	_ = c.Set(ctx, "c", []byte("3"), 0)

	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry expiring soonest should be evicted")
	}
	for _, k := range []string{"b", "c"} {
		if _, hit, _ := c.Get(ctx, k); !hit {
			t.Errorf("entry %q should survive", k)
		}
	}

	// Overwriting an existing key never evicts.
	_ = c.Set(ctx, "b", []byte("4"), time.Hour)
	if c.Len() != 2 {
		t.Errorf("Len after overwrite = %d", c.Len())
	}
}

func TestMemoryCacheCopiesData(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	buf := []byte("abc")
	_ = c.Set(ctx, "k", buf, 0)
	buf[0] = 'x'

	got, _, _ := c.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value changed with caller's buffer: %q", got)
	}
}

func TestDigest(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Digest([]byte(tt.in)); got != tt.want {
				t.Errorf("Digest(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestArtifactKeyLayout(t *testing.T) {
	key := artifactKey("fig-1", ArtifactKeyOpts{Format: "json"})
	if !strings.HasPrefix(key, "artifact:fig-1:") {
		t.Errorf("key = %q, want artifact:fig-1: prefix", key)
	}
	if got := len(strings.TrimPrefix(key, "artifact:fig-1:")); got != 64 {
		t.Errorf("digest length = %d, want 64", got)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	tests := []struct {
		name string
		a, b ArtifactKeyOpts
	}{
		{"format", ArtifactKeyOpts{Format: "json"}, ArtifactKeyOpts{Format: "html"}},
		{"indent", ArtifactKeyOpts{Format: "json"}, ArtifactKeyOpts{Format: "json", Indent: true}},
		{"title", ArtifactKeyOpts{Format: "html"}, ArtifactKeyOpts{Format: "html", Title: "Run 7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if k.ArtifactKey("fig", tt.a) == k.ArtifactKey("fig", tt.b) {
				t.Errorf("options differing in %s should produce different keys", tt.name)
			}
		})
	}

	if k.ArtifactKey("fig-1", ArtifactKeyOpts{Format: "json"}) == k.ArtifactKey("fig-2", ArtifactKeyOpts{Format: "json"}) {
		t.Error("different figures should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	opts := ArtifactKeyOpts{Format: "json"}
	inner := NewDefaultKeyer().ArtifactKey("fig", opts)

	scoped := NewScopedKeyer(nil, "v1.0.0:")
	if got := scoped.ArtifactKey("fig", opts); got != "v1.0.0:"+inner {
		t.Errorf("ArtifactKey = %q, want prefixed %q", got, inner)
	}
}

func ExampleMemoryCache() {
	ctx := context.Background()
	c := NewMemoryCache(16)
	key := NewDefaultKeyer().ArtifactKey("3f1c", ArtifactKeyOpts{Format: "json"})

	_ = c.Set(ctx, key, []byte(`{"data":[]}`), time.Hour)
	data, hit, _ := c.Get(ctx, key)
	fmt.Println(hit, string(data))
	// Output: true {"data":[]}
}

func TestNewRedisCacheErrors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := NewRedisCache(ctx, "not a url", "stackplot:"); err == nil {
		t.Error("invalid url should fail")
	}
	// Port 1 is reserved and refuses connections.
	if _, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0", "stackplot:"); err == nil {
		t.Error("unreachable server should fail the ping")
	}
}
