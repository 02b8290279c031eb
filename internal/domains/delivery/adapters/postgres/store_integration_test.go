//go:build integration
// +build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/agrikart/fulfillment/internal/domains/delivery/domain"
	"github.com/agrikart/fulfillment/internal/domains/delivery/ports"
	"github.com/agrikart/fulfillment/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("fulfillment_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestPostgresStore_ReplaceDisplacesExistingCode(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	store := NewStore(db)
	ctx := context.Background()
	orderID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	first := domain.NewOtp(orderID, domain.HashCode("111111"), now)
	require.NoError(t, store.Replace(ctx, first))

	// Burn an attempt so the replacement visibly resets it.
	first.AttemptsRemaining--
	require.NoError(t, store.Update(ctx, first))

	second := domain.NewOtp(orderID, domain.HashCode("222222"), now.Add(time.Minute))
	require.NoError(t, store.Replace(ctx, second))

	stored, err := store.Get(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.HashCode("222222"), stored.CodeHash)
	assert.Equal(t, domain.DefaultAttempts, stored.AttemptsRemaining)
	assert.False(t, stored.Consumed)
}

func TestPostgresStore_UpdateAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	store := NewStore(db)
	ctx := context.Background()
	orderID := uuid.New()

	otp := domain.NewOtp(orderID, domain.HashCode("111111"), time.Now().UTC())
	require.NoError(t, store.Replace(ctx, otp))

	otp.AttemptsRemaining = 2
	otp.Consumed = true
	require.NoError(t, store.Update(ctx, otp))

	stored, err := store.Get(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.AttemptsRemaining)
	assert.True(t, stored.Consumed)

	require.NoError(t, store.Delete(ctx, orderID))
	_, err = store.Get(ctx, orderID)
	require.ErrorIs(t, err, ports.ErrOtpNotFound)

	require.ErrorIs(t, store.Update(ctx, otp), ports.ErrOtpNotFound)
}

func TestPostgresStore_PurgeExpired(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	store := NewStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	stale := domain.NewOtp(uuid.New(), domain.HashCode("111111"), now.Add(-domain.DefaultTTL-time.Hour))
	fresh := domain.NewOtp(uuid.New(), domain.HashCode("222222"), now)
	require.NoError(t, store.Replace(ctx, stale))
	require.NoError(t, store.Replace(ctx, fresh))

	purged, err := store.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = store.Get(ctx, stale.OrderID)
	require.ErrorIs(t, err, ports.ErrOtpNotFound)
	_, err = store.Get(ctx, fresh.OrderID)
	require.NoError(t, err)
}
