package repomanager

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. Data is lost
// on restart; it backs tests and local development.
type MemoryRepositoryManager struct {
	// serializes CreateAccount so a rolled back account is never observed
	accountMu sync.Mutex

	users    *users.MemoryRepository
	sessions *sessions.MemoryRepository
	profiles profiles.Repository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:    users.NewMemoryRepository(),
		sessions: sessions.NewMemoryRepository(),
		profiles: profiles.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }
func (m *MemoryRepositoryManager) Sessions() sessions.Repository { return m.sessions }
func (m *MemoryRepositoryManager) Profiles() profiles.Repository { return m.profiles }
func (m *MemoryRepositoryManager) Close() error { return nil }

// CreateAccount creates the account, then its profile. When the profile
// cannot be stored the account is removed again.
func (m *MemoryRepositoryManager) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	m.accountMu.Lock()
	defer m.accountMu.Unlock()

	created, err := m.users.Create(ctx, account)
	if err != nil {
		return nil, err
	}
	if err := m.profiles.Create(ctx, created.ID); err != nil {
		m.users.Delete(ctx, created.ID)
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return created, nil
}

// New returns the manager for storage ("memory" or "postgres").
func New(ctx context.Context, storage, dsn string) (RepositoryManager, error) {
	switch storage {
	case StorageMemory, "":
		return NewMemoryRepositoryManager(), nil
	case StoragePostgres:
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown storage %q", storage)
	}
}
