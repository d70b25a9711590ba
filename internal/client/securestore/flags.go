package securestore

import (
	"bytes"
	"context"
	"errors"

	"github.com/dmitrijs2005/campuslink/internal/common"
)

// SetFlag stores a boolean flag.
func (s *Store) SetFlag(ctx context.Context, name string, value bool) error {
	if value {
		return s.Set(ctx, name, flagTrue)
	}
	return s.Set(ctx, name, flagFalse)
}

// GetFlag reads a boolean flag. A tampered flag is reported as absent
// together with common.ErrTampered so callers can log and move on.
func (s *Store) GetFlag(ctx context.Context, name string) (value bool, ok bool, err error) {
	raw, ok, err := s.Get(ctx, name)
	if err != nil || !ok {
		return false, false, err
	}
	switch {
	case bytes.Equal(raw, flagTrue):
		return true, true, nil
	case bytes.Equal(raw, flagFalse):
		return false, true, nil
	default:
		return false, false, errors.Join(common.ErrTampered, errors.New("flag "+name+" is not a boolean"))
	}
}

func (s *Store) DeleteFlag(ctx context.Context, name string) error {
	return s.Delete(ctx, name)
}

// LoadSecret, SaveSecret and ClearSecret make Store a client.SecretStore for
// the gateway session secret.

func (s *Store) LoadSecret(ctx context.Context) (string, error) {
	raw, ok, err := s.Get(ctx, sessionKey)
	if errors.Is(err, common.ErrTampered) {
		return "", nil
	}
	if err != nil || !ok {
		return "", err
	}
	return string(raw), nil
}

func (s *Store) SaveSecret(ctx context.Context, secret string) error {
	return s.Set(ctx, sessionKey, []byte(secret))
}

func (s *Store) ClearSecret(ctx context.Context) error {
	return s.Delete(ctx, sessionKey)
}
