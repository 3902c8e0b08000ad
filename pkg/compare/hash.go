package compare

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"sync"

	"github.com/sdejongh/extsort/pkg/models"
	"github.com/sdejongh/extsort/pkg/storage"
)

// Hasher computes content digests of files by streaming them through a pooled buffer
type Hasher struct {
	algorithm  models.HashAlgorithm
	newHash    func() hash.Hash
	bufferPool *sync.Pool

	mu    sync.Mutex
	count int
}

// NewHasher creates a hasher for the given algorithm
func NewHasher(algorithm models.HashAlgorithm, bufferSize int) (*Hasher, error) {
	var newHash func() hash.Hash
	switch algorithm {
	case models.HashSHA256:
		newHash = sha256.New
	case models.HashSHA1:
		newHash = sha1.New
	case models.HashMD5:
		newHash = md5.New
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s (use: sha256, sha1, md5)", algorithm)
	}

	if bufferSize < 4096 {
		bufferSize = 4096
	}

	return &Hasher{
		algorithm: algorithm,
		newHash:   newHash,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}, nil
}

// Sum returns the hex digest of the file at path
func (h *Hasher) Sum(ctx context.Context, backend storage.Backend, path string) (string, error) {
	reader, err := backend.Read(ctx, path)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	return h.sumReader(ctx, reader)
}

func (h *Hasher) sumReader(ctx context.Context, reader io.Reader) (string, error) {
	hasher := h.newHash()

	bufPtr := h.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer h.bufferPool.Put(bufPtr)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		n, err := reader.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	h.mu.Lock()
	h.count++
	h.mu.Unlock()

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Func binds the hasher to a backend for lazy use by file entries
func (h *Hasher) Func(backend storage.Backend) models.HashFunc {
	return func(ctx context.Context, path string) (string, error) {
		return h.Sum(ctx, backend, path)
	}
}

// Count returns the number of digests computed so far
func (h *Hasher) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Name returns the algorithm name
func (h *Hasher) Name() string {
	return string(h.algorithm)
}
