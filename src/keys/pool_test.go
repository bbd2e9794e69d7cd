package keys

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stakeworks/fleet/src/common"
)

func TestPoolGenerate(t *testing.T) {
	pool := NewPool(filepath.Join(t.TempDir(), "keys"))

	if err := pool.Generate(3); err != nil {
		t.Fatalf("err: %v", err)
	}

	if size := pool.Size(); size != 3 {
		t.Fatalf("pool size should be 3, not %d", size)
	}

	for i := 1; i <= 3; i++ {
		key, err := NewPemKey(pool.KeyPath(i)).ReadKey()
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if key == nil {
			t.Fatalf("pool entry %d should hold a key", i)
		}

		pub, err := pool.PublicKey(i)
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if !strings.HasPrefix(pub, "0x") {
			t.Fatalf("public key sidecar should be hex: %s", pub)
		}
		if pub != PublicKeyHex(&key.PublicKey) {
			t.Fatalf("sidecar should match the private key")
		}
	}
}

func TestPoolGenerateKeepsExisting(t *testing.T) {
	pool := NewPool(filepath.Join(t.TempDir(), "keys"))

	if err := pool.Generate(2); err != nil {
		t.Fatalf("err: %v", err)
	}

	before, err := os.ReadFile(pool.KeyPath(1))
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	// Growing the pool must not regenerate existing identities.
	if err := pool.Generate(4); err != nil {
		t.Fatalf("err: %v", err)
	}

	after, err := os.ReadFile(pool.KeyPath(1))
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if string(before) != string(after) {
		t.Fatalf("existing identity was regenerated")
	}

	if size := pool.Size(); size != 4 {
		t.Fatalf("pool size should be 4, not %d", size)
	}
}

func TestPoolSelect(t *testing.T) {
	pool := NewPool(filepath.Join(t.TempDir(), "keys"))

	if err := pool.Generate(2); err != nil {
		t.Fatalf("err: %v", err)
	}

	if _, err := pool.Select(2); err != nil {
		t.Fatalf("err: %v", err)
	}

	_, err := pool.Select(3)
	if err == nil || !common.Is(err, common.PoolExhausted) {
		t.Fatalf("Should return PoolExhausted error, got %v", err)
	}
}

func TestPoolStageIdempotent(t *testing.T) {
	dir := t.TempDir()
	pool := NewPool(filepath.Join(dir, "keys"))
	staging := filepath.Join(dir, "staging")

	if err := pool.Generate(1); err != nil {
		t.Fatalf("err: %v", err)
	}

	staged, err := pool.Stage(1, "10.0.0.1", staging)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	// Corrupt the staged copy; re-staging must replace it.
	if err := os.WriteFile(staged, []byte("garbage"), 0600); err != nil {
		t.Fatalf("err: %v", err)
	}

	if _, err := pool.Stage(1, "10.0.0.1", staging); err != nil {
		t.Fatalf("err: %v", err)
	}

	restaged, err := os.ReadFile(staged)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	original, err := os.ReadFile(pool.KeyPath(1))
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if string(restaged) != string(original) {
		t.Fatalf("re-staging should replace the copy")
	}
}
