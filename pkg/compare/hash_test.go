package compare

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sdejongh/extsort/pkg/models"
	"github.com/sdejongh/extsort/pkg/storage"
)

// newBackend creates a local backend over a temp dir holding the given files
func newBackend(t *testing.T, files map[string][]byte) *storage.Local {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create parent dir: %v", err)
		}
		if err := os.WriteFile(path, content, 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
	backend, err := storage.NewLocal(root)
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	return backend
}

func TestNewHasher(t *testing.T) {
	for _, alg := range []models.HashAlgorithm{models.HashSHA256, models.HashSHA1, models.HashMD5} {
		t.Run(string(alg), func(t *testing.T) {
			h, err := NewHasher(alg, 0)
			if err != nil {
				t.Fatalf("NewHasher() error = %v", err)
			}
			if h.Name() != string(alg) {
				t.Errorf("Name() = %s, want %s", h.Name(), alg)
			}
		})
	}

	t.Run("Unsupported", func(t *testing.T) {
		if _, err := NewHasher("crc32", 4096); err == nil {
			t.Error("NewHasher() should reject unknown algorithms")
		}
	})
}

func TestHasherKnownDigests(t *testing.T) {
	backend := newBackend(t, map[string][]byte{"abc.txt": []byte("abc")})
	ctx := context.Background()

	tests := []struct {
		alg  models.HashAlgorithm
		want string
	}{
		{models.HashSHA256, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{models.HashSHA1, "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{models.HashMD5, "900150983cd24fb0d6963f7d28e17f72"},
	}

	for _, tt := range tests {
		t.Run(string(tt.alg), func(t *testing.T) {
			h, _ := NewHasher(tt.alg, 4096)
			got, err := h.Sum(ctx, backend, "abc.txt")
			if err != nil {
				t.Fatalf("Sum() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Sum() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHasherSameAndDifferentContent(t *testing.T) {
	large := bytes.Repeat([]byte("0123456789"), 10000)
	changed := append([]byte{}, large...)
	changed[len(changed)-1] = 'X'

	backend := newBackend(t, map[string][]byte{
		"a.bin":     large,
		"sub/b.bin": large,
		"c.bin":     changed,
	})
	h, _ := NewHasher(models.HashSHA256, 4096)
	ctx := context.Background()

	a, err := h.Sum(ctx, backend, "a.bin")
	if err != nil {
		t.Fatalf("Sum(a) error = %v", err)
	}
	b, _ := h.Sum(ctx, backend, "sub/b.bin")
	c, _ := h.Sum(ctx, backend, "c.bin")

	if a != b {
		t.Error("identical files should have equal digests")
	}
	if a == c {
		t.Error("files differing in the last byte should have different digests")
	}
	if h.Count() != 3 {
		t.Errorf("Count() = %d, want 3", h.Count())
	}
}

func TestHasherErrors(t *testing.T) {
	backend := newBackend(t, map[string][]byte{"a.txt": []byte("a")})
	h, _ := NewHasher(models.HashSHA256, 4096)

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := h.Sum(context.Background(), backend, "missing.txt"); err == nil {
			t.Error("Sum() should fail for missing file")
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := h.Sum(ctx, backend, "a.txt"); err == nil {
			t.Error("Sum() should fail on cancelled context")
		}
	})
}

func TestHasherFunc(t *testing.T) {
	backend := newBackend(t, map[string][]byte{"a.txt": []byte("abc")})
	h, _ := NewHasher(models.HashMD5, 4096)

	entry := &models.FileEntry{RelativePath: "a.txt"}
	got, err := entry.Hash(context.Background(), h.Func(backend))
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if got != "900150983cd24fb0d6963f7d28e17f72" {
		t.Errorf("Hash() = %s", got)
	}
}
