package cache

import (
	"context"
	"errors"
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
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Errorf("Get after Set = %q hit=%v, want nil miss", data, hit)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("hello"))
	if len(h) != 64 {
		t.Errorf("Hash length = %d, want 64 hex chars", len(h))
	}
	if h != Hash([]byte("hello")) {
		t.Error("same input should hash to the same digest")
	}
	if h == Hash([]byte("world")) {
		t.Error("different inputs should hash to different digests")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// NetworkKey should include every generation input in the hash
	nk1 := k.NetworkKey(NetworkKeyOpts{Shape: [3]int{10, 10, 10}, Connectivity: 6, Spacing: 1})
	nk2 := k.NetworkKey(NetworkKeyOpts{Shape: [3]int{10, 10, 10}, Connectivity: 26, Spacing: 1})
	if nk1 == nk2 {
		t.Error("Different NetworkKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(nk1, "network:") {
		t.Errorf("NetworkKey should carry the stage prefix: %s", nk1)
	}

	// ReductionKey depends on the source network and the seed
	rk1 := k.ReductionKey("hash123", ReductionKeyOpts{Coordination: 4.5, Seed: 1})
	rk2 := k.ReductionKey("hash123", ReductionKeyOpts{Coordination: 4.5, Seed: 2})
	rk3 := k.ReductionKey("hash456", ReductionKeyOpts{Coordination: 4.5, Seed: 1})
	if rk1 == rk2 || rk1 == rk3 {
		t.Error("Different ReductionKey inputs should produce different keys")
	}

	// Format feeds into the artifact key.
	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "vtk"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}

	// Same inputs always map to the same key
	if k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"}) != ak1 {
		t.Error("Keys should be deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "project:123:")

	// Every key kind picks up the prefix.
	nk := scoped.NetworkKey(NetworkKeyOpts{Shape: [3]int{2, 2, 2}, Connectivity: 6, Spacing: 1})
	if !strings.HasPrefix(nk, "project:123:network:") {
		t.Errorf("ScopedKeyer NetworkKey should be prefixed: %s", nk)
	}

	rk := scoped.ReductionKey("hash123", ReductionKeyOpts{})
	if !strings.HasPrefix(rk, "project:123:") {
		t.Errorf("ScopedKeyer ReductionKey should be prefixed: %s", rk)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// A nil inner falls back to the default keyer.
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ArtifactKey("hash", ArtifactKeyOpts{Format: "png"})
	if !strings.HasPrefix(key, "prefix:artifact:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Get before Set should miss")
	}

	// Round-trip
	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit || string(data) != "value" {
		t.Errorf("Get = %q hit=%v, want value hit=true", data, hit)
	}

	// Overwrite
	if err := c.Set(ctx, "key", []byte("other"), 0); err != nil {
		t.Fatal(err)
	}
	data, _, _ = c.Get(ctx, "key")
	if string(data) != "other" {
		t.Errorf("Get after overwrite = %q, want other", data)
	}

	// Delete, then deleting again is not an error
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete of absent key should be nil: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "stale", []byte("old"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "fresh", []byte("new"), time.Hour); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, hit, err := c.Get(ctx, "stale"); err != nil || hit {
		t.Errorf("expired entry should miss: hit=%v err=%v", hit, err)
	}
	if _, hit, _ := c.Get(ctx, "fresh"); !hit {
		t.Error("unexpired entry should hit")
	}

	// Zero ttl stores without expiry.
	if err := c.Set(ctx, "pinned", []byte("p"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "pinned"); !hit {
		t.Error("zero ttl entry should hit")
	}
}

func TestFileCachePurge(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "keep", []byte("live"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "stale", []byte("old"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	// Plant a corrupt entry; Purge removes what it cannot parse.
	bad := c.path("broken")
	if err := os.MkdirAll(filepath.Dir(bad), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	removed, err := c.Purge(ctx)
	if err != nil {
		t.Fatalf("Purge error: %v", err)
	}
	if removed != 2 {
		t.Errorf("Purge removed %d entries, want 2", removed)
	}
	if _, hit, _ := c.Get(ctx, "keep"); !hit {
		t.Error("Purge should keep live entries")
	}
	if removed, err := c.Purge(ctx); err != nil || removed != 0 {
		t.Errorf("second Purge = %d, %v; want 0, nil", removed, err)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) = non-nil, want nil")
	}

	errConn := errors.New("connection refused")
	wrapped := Retryable(errConn)
	if !IsRetryable(wrapped) {
		t.Error("IsRetryable(Retryable(err)) = false, want true")
	}
	if IsRetryable(errConn) {
		t.Error("IsRetryable(plain err) = true, want false")
	}
	if wrapped.Error() != errConn.Error() {
		t.Errorf("wrapped message = %q, want %q", wrapped.Error(), errConn.Error())
	}
	if !errors.Is(wrapped, errConn) {
		t.Error("wrapped error should unwrap to the original")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("first try succeeds", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error { calls++; return nil })
		if err != nil || calls != 1 {
			t.Errorf("got err=%v calls=%d, want nil after one call", err, calls)
		}
	})

	t.Run("plain error stops immediately", func(t *testing.T) {
		errFatal := errors.New("bad request")
		calls := 0
		err := RetryWithBackoff(ctx, func() error { calls++; return errFatal })
		if err != errFatal {
			t.Errorf("got %v, want the original error unwrapped", err)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("retryable error retries", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 2 {
				return Retryable(errors.New("timeout"))
			}
			return nil
		})
		if err != nil || calls != 2 {
			t.Errorf("got err=%v calls=%d, want success on second call", err, calls)
		}
	})

	t.Run("cancelled context aborts the wait", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		err := RetryWithBackoff(cancelled, func() error {
			return Retryable(errors.New("timeout"))
		})
		if err != context.Canceled {
			t.Errorf("got %v, want context.Canceled", err)
		}
	})
}
