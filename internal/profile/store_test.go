package profile

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Alias1177/ForexAdvisor/internal/database"
	"github.com/Alias1177/ForexAdvisor/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaults = models.RiskProfile{
	AccountSize:      decimal.NewFromInt(5000),
	RiskPerTrade:     decimal.NewFromInt(60),
	PreferredSession: models.SessionAll,
}

func stores(t *testing.T) map[string]Store {
	t.Helper()

	db, err := database.New(database.ConnectionParams{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "profiles.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(defaults),
		"sqlite": NewDBStore(db, defaults),
	}
}

func TestStoreGetOrDefault(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			p, err := s.GetOrDefault(ctx, 7, 70)
			require.NoError(t, err)
			assert.Equal(t, int64(7), p.UserID)
			assert.Equal(t, int64(70), p.ChatID)
			assert.True(t, p.Profile.AccountSize.Equal(defaults.AccountSize))
			assert.True(t, p.Profile.RiskPerTrade.Equal(defaults.RiskPerTrade))
			assert.Equal(t, models.SessionAll, p.Profile.PreferredSession)

			list, err := s.List(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 1)
		})
	}
}

func TestStoreUpdate(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			u, err := ParseSettings("account:10000 session:us")
			require.NoError(t, err)

			p, err := s.Update(ctx, 1, 10, u.Apply)
			require.NoError(t, err)
			assert.Equal(t, "10000", p.Profile.AccountSize.String())
			assert.Equal(t, models.SessionUS, p.Profile.PreferredSession)

			got, err := s.GetOrDefault(ctx, 1, 10)
			require.NoError(t, err)
			assert.Equal(t, "10000", got.Profile.AccountSize.String())
			assert.Equal(t, "60", got.Profile.RiskPerTrade.String())
		})
	}
}

func TestStoreUpdateErrorWritesNothing(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			boom := errors.New("boom")

			_, err := s.Update(ctx, 2, 20, func(p *models.RiskProfile) error {
				p.AccountSize = decimal.NewFromInt(1)
				return boom
			})
			assert.ErrorIs(t, err, boom)

			got, err := s.GetOrDefault(ctx, 2, 20)
			require.NoError(t, err)
			assert.Equal(t, "5000", got.Profile.AccountSize.String())
		})
	}
}

func TestStoreChatIDFollowsUser(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.GetOrDefault(ctx, 3, 30)
			require.NoError(t, err)
			p, err := s.GetOrDefault(ctx, 3, 31)
			require.NoError(t, err)
			assert.Equal(t, int64(31), p.ChatID)
		})
	}
}

func TestMemoryStoreConcurrentUpdates(t *testing.T) {
	s := NewMemoryStore(defaults)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, 1, 1, func(p *models.RiskProfile) error {
				p.RiskPerTrade = p.RiskPerTrade.Add(decimal.NewFromInt(1))
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := s.GetOrDefault(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "110", p.Profile.RiskPerTrade.String())
}

func TestOpen(t *testing.T) {
	s, closer, err := Open(database.ConnectionParams{Driver: database.DriverMemory}, defaults)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
	assert.NoError(t, closer.Close())

	s, closer, err = Open(database.ConnectionParams{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "nested", "profiles.db"),
	}, defaults)
	require.NoError(t, err)
	assert.IsType(t, &DBStore{}, s)
	assert.NoError(t, closer.Close())

	_, _, err = Open(database.ConnectionParams{Driver: "mongo"}, defaults)
	assert.Error(t, err)
}
