// Package securestore keeps small values in the local metadata table sealed
// with a per-install device key, so edits made outside the app are detected
// and treated as absent values.
package securestore

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/campuslink/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/dmitrijs2005/campuslink/internal/cryptox"
	"github.com/dmitrijs2005/campuslink/internal/filex"
)

const (
	keyPrefix     = "secure:"
	deviceSaltKey = "device_salt"
	sessionKey    = "session_secret"
	keyFileSize   = 32
	saltSize      = 16
)

var (
	flagTrue  = []byte{1}
	flagFalse = []byte{0}
)

// Store seals values with AES-GCM before writing them to the metadata repo.
type Store struct {
	repo metadata.Repository
	key  []byte
}

// New returns a Store sealing with key (32 bytes).
func New(repo metadata.Repository, key []byte) (*Store, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("device key must be 32 bytes, got %d", len(key))
	}
	return &Store{repo: repo, key: key}, nil
}

// Open loads (or creates) the device key from keyFile and the salt stored in
// repo, and returns a Store using the derived key.
func Open(ctx context.Context, repo metadata.Repository, keyFile string) (*Store, error) {
	secret, err := loadOrCreateKeyFile(keyFile)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(secret)

	salt, err := repo.Get(ctx, deviceSaltKey)
	if err != nil {
		return nil, err
	}
	if salt == nil {
		salt = common.GenerateRandByteArray(saltSize)
		if err := repo.Set(ctx, deviceSaltKey, salt); err != nil {
			return nil, err
		}
	}

	return New(repo, cryptox.DeriveKey(secret, salt))
}

func loadOrCreateKeyFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err == nil {
		if len(b) != keyFileSize {
			return nil, fmt.Errorf("device key file %s: unexpected size %d", path, len(b))
		}
		return b, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read device key: %w", err)
	}

	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}
	b = common.GenerateRandByteArray(keyFileSize)
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return nil, fmt.Errorf("write device key: %w", err)
	}
	return b, nil
}

// Set seals value under name. The name is bound as associated data, so a
// sealed value copied to another name fails to open.
func (s *Store) Set(ctx context.Context, name string, value []byte) error {
	sealed, err := cryptox.Seal(s.key, value, []byte(name))
	if err != nil {
		return fmt.Errorf("seal %s: %w", name, err)
	}
	return s.repo.Set(ctx, keyPrefix+name, sealed)
}

// Get returns the value stored under name. ok is false when nothing is
// stored. A value that fails authentication yields common.ErrTampered.
func (s *Store) Get(ctx context.Context, name string) (value []byte, ok bool, err error) {
	sealed, err := s.repo.Get(ctx, keyPrefix+name)
	if err != nil {
		return nil, false, err
	}
	if sealed == nil {
		return nil, false, nil
	}

	plain, err := cryptox.Open(s.key, sealed, []byte(name))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s", common.ErrTampered, name)
	}
	return plain, true, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	return s.repo.Delete(ctx, keyPrefix+name)
}
