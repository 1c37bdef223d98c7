// Package profile keeps per-user risk settings behind a single get-or-default entry point.
package profile

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/Alias1177/ForexAdvisor/internal/database"
	"github.com/Alias1177/ForexAdvisor/models"
)

// Store holds user profiles. Update is an atomic read-modify-write per user:
// when fn returns an error nothing is written.
type Store interface {
	GetOrDefault(ctx context.Context, userID, chatID int64) (models.UserProfile, error)
	Update(ctx context.Context, userID, chatID int64, fn func(*models.RiskProfile) error) (models.UserProfile, error)
	List(ctx context.Context) ([]models.UserProfile, error)
}

// MemoryStore is a process-local Store. One mutex serialises every access.
type MemoryStore struct {
	mu       sync.Mutex
	defaults models.RiskProfile
	profiles map[int64]models.UserProfile
	now      func() time.Time
}

func NewMemoryStore(defaults models.RiskProfile) *MemoryStore {
	return &MemoryStore{
		defaults: defaults,
		profiles: make(map[int64]models.UserProfile),
		now:      time.Now,
	}
}

func (s *MemoryStore) GetOrDefault(_ context.Context, userID, chatID int64) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(userID, chatID), nil
}

func (s *MemoryStore) getLocked(userID, chatID int64) models.UserProfile {
	p, ok := s.profiles[userID]
	if !ok {
		p = models.UserProfile{UserID: userID, ChatID: chatID, Profile: s.defaults, UpdatedAt: s.now()}
		s.profiles[userID] = p
	} else if chatID != 0 && p.ChatID != chatID {
		p.ChatID = chatID
		s.profiles[userID] = p
	}
	return p
}

func (s *MemoryStore) Update(_ context.Context, userID, chatID int64, fn func(*models.RiskProfile) error) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.getLocked(userID, chatID)
	next := p.Profile
	if err := fn(&next); err != nil {
		return p, err
	}
	p.Profile = next
	p.UpdatedAt = s.now()
	s.profiles[userID] = p
	return p, nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.UserProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// ProfileDB is the persistence the DBStore needs; *database.DB implements it.
type ProfileDB interface {
	GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
	UpsertProfile(ctx context.Context, p models.UserProfile) error
	ListProfiles(ctx context.Context) ([]models.UserProfile, error)
}

// DBStore persists profiles through a ProfileDB. Writes from this process are
// serialised by one mutex.
type DBStore struct {
	mu       sync.Mutex
	db       ProfileDB
	defaults models.RiskProfile
	now      func() time.Time
}

func NewDBStore(db ProfileDB, defaults models.RiskProfile) *DBStore {
	return &DBStore{db: db, defaults: defaults, now: time.Now}
}

func (s *DBStore) GetOrDefault(ctx context.Context, userID, chatID int64) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(ctx, userID, chatID)
}

func (s *DBStore) getLocked(ctx context.Context, userID, chatID int64) (models.UserProfile, error) {
	stored, err := s.db.GetProfile(ctx, userID)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("get profile %d: %w", userID, err)
	}
	if stored != nil && (chatID == 0 || stored.ChatID == chatID) {
		return *stored, nil
	}

	p := models.UserProfile{UserID: userID, ChatID: chatID, Profile: s.defaults, UpdatedAt: s.now()}
	if stored != nil {
		p.Profile = stored.Profile
	}
	if err := s.db.UpsertProfile(ctx, p); err != nil {
		return models.UserProfile{}, fmt.Errorf("save profile %d: %w", userID, err)
	}
	return p, nil
}

func (s *DBStore) Update(ctx context.Context, userID, chatID int64, fn func(*models.RiskProfile) error) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.getLocked(ctx, userID, chatID)
	if err != nil {
		return models.UserProfile{}, err
	}
	next := p.Profile
	if err := fn(&next); err != nil {
		return p, err
	}
	p.Profile = next
	p.UpdatedAt = s.now()
	if err := s.db.UpsertProfile(ctx, p); err != nil {
		return models.UserProfile{}, fmt.Errorf("save profile %d: %w", userID, err)
	}
	return p, nil
}

func (s *DBStore) List(ctx context.Context) ([]models.UserProfile, error) {
	return s.db.ListProfiles(ctx)
}

// Open returns a MemoryStore for the memory driver and a DBStore over a fresh
// connection otherwise. The closer releases the connection.
func Open(params database.ConnectionParams, defaults models.RiskProfile) (Store, io.Closer, error) {
	if params.Driver == database.DriverMemory {
		return NewMemoryStore(defaults), nopCloser{}, nil
	}

	db, err := database.New(params)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s profile store: %w", params.Driver, err)
	}
	return NewDBStore(db, defaults), db, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
