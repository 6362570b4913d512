package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gabchak/weather-auth/internal/core/domain"
	"github.com/gabchak/weather-auth/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory credential store
// ---------------------------------------------------------------------------

type stubStore struct {
	mu     sync.Mutex
	users  map[string]*domain.User // keyed by normalized email
	writes int

	createErr error
	findErr   error
	// beforeUpdate runs inside UpdateSubscription before the precondition
	// is checked, with the lock released.
	beforeUpdate func()
}

func newStubStore() *stubStore {
	return &stubStore{users: make(map[string]*domain.User)}
}

func (s *stubStore) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	key := domain.NormalizeEmail(u.Email)
	if _, ok := s.users[key]; ok {
		return nil, domain.ErrDuplicateEmail
	}
	s.users[key] = u.Clone()
	s.writes++
	return u.Clone(), nil
}

func (s *stubStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	u, ok := s.users[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (s *stubStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubStore) UpdateSubscription(_ context.Context, upd ports.SubscriptionUpdate) error {
	if hook := s.beforeUpdate; hook != nil {
		s.beforeUpdate = nil
		hook()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.byID(upd.UserID)
	if u == nil {
		return domain.ErrUserNotFound
	}
	if !sameDate(u.PaidBeforeDate, upd.ExpectedPaidBefore) {
		return domain.ErrConcurrentUpdate
	}
	d := upd.PaidBefore
	u.PaidBeforeDate = &d
	u.Roles = upd.Roles.Clone()
	u.UpdatedAt = upd.UpdatedAt
	s.writes++
	return nil
}

func (s *stubStore) UpdatePassword(_ context.Context, userID, hash string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.byID(userID)
	if u == nil {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = at
	s.writes++
	return nil
}

func (s *stubStore) byID(id string) *domain.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *stubStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// seed stores u directly, bypassing the write counter.
func (s *stubStore) seed(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[domain.NormalizeEmail(u.Email)] = u.Clone()
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// ---------------------------------------------------------------------------
// Hasher and denylist
// ---------------------------------------------------------------------------

type stubHasher struct {
	mu      sync.Mutex
	matches int
}

func (h *stubHasher) Hash(p string) (string, error) {
	return "hashed:" + p, nil
}

func (h *stubHasher) Matches(p, hash string) bool {
	h.mu.Lock()
	h.matches++
	h.mu.Unlock()
	return strings.TrimPrefix(hash, "hashed:") == p && strings.HasPrefix(hash, "hashed:")
}

type stubDenylist struct {
	revoked map[string]time.Duration
	err     error
}

func newStubDenylist() *stubDenylist {
	return &stubDenylist{revoked: make(map[string]time.Duration)}
}

func (d *stubDenylist) Revoke(_ context.Context, id string, ttl time.Duration) error {
	if d.err != nil {
		return d.err
	}
	d.revoked[id] = ttl
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	_, ok := d.revoked[id]
	return ok, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

const testSecret = "test-signing-key"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestTokens(tb interface{ Fatalf(string, ...any) }) *TokenService {
	svc, err := NewTokenService(TokenConfig{Secret: []byte(testSecret), TTL: time.Hour, Issuer: "weather-auth"})
	if err != nil {
		tb.Fatalf("token service: %v", err)
	}
	return svc
}
