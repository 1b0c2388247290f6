package profiles

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// Store persists profiles. Insert writes exactly one row or nothing, and reports
// a username collision with an error matching ErrDuplicateUsername.
type Store interface {
	Insert(ctx context.Context, profile *Profile) error
}

// GormStore writes profiles through gorm. The unique index on username is
// enforced by the database in the same statement as the insert.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Insert issues a single INSERT for profile and sets its ID on success.
func (s *GormStore) Insert(ctx context.Context, profile *Profile) error {
	if s.db == nil {
		return gorm.ErrInvalidDB
	}

	err := s.db.WithContext(ctx).Create(profile).Error
	if isUsernameConflict(err) {
		return ErrDuplicateUsername
	}
	return err
}

// MemoryStore keeps profiles in memory with the same uniqueness rules as the
// database stores. It backs tests and local experiments.
type MemoryStore struct {
	mu         sync.Mutex
	nextID     uint
	byUsername map[string]Profile
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byUsername: make(map[string]Profile),
	}
}

// Insert stores a copy of profile and assigns the next sequential ID.
func (m *MemoryStore) Insert(ctx context.Context, profile *Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byUsername[profile.Username]; exists {
		return ErrDuplicateUsername
	}

	m.nextID++
	profile.ID = m.nextID
	m.byUsername[profile.Username] = *profile
	return nil
}

// Count returns how many profiles use username.
func (m *MemoryStore) Count(username string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byUsername[username]; exists {
		return 1
	}
	return 0
}

// Len returns the number of stored profiles.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byUsername)
}

// Compile-time interface checks
var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
