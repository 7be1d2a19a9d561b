package session

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var ErrSealedRecord = errors.New("sealed session record could not be opened")

// FileTier is the durable tier: one file per key under dir, written atomically.
// With a secret, file contents are sealed with NaCl secretbox.
type FileTier struct {
	dir string
	key *[32]byte
}

// NewFileTier creates a durable tier rooted at dir. An empty secret stores plain JSON.
func NewFileTier(dir, secret string) *FileTier {
	ft := &FileTier{dir: dir}
	if secret != "" {
		k := sha256.Sum256([]byte(secret))
		ft.key = &k
	}
	return ft
}

func (f *FileTier) path(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return filepath.Join(f.dir, b.String()+".json")
}

func (f *FileTier) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is required")
	}
	raw, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if f.key == nil {
		return raw, nil
	}
	return f.open(raw)
}

func (f *FileTier) Put(key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	payload := data
	if f.key != nil {
		sealed, err := f.seal(data)
		if err != nil {
			return err
		}
		payload = sealed
	}

	tmp, err := os.CreateTemp(f.dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		return fmt.Errorf("commit session file: %w", err)
	}
	return nil
}

func (f *FileTier) Delete(key string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (f *FileTier) seal(data []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], data, &nonce, f.key), nil
}

func (f *FileTier) open(raw []byte) ([]byte, error) {
	if len(raw) < nonceSize+secretbox.Overhead {
		return nil, ErrSealedRecord
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	out, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, f.key)
	if !ok {
		return nil, ErrSealedRecord
	}
	return out, nil
}
