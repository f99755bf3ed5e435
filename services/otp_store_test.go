package services

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agriconnect/agriconnect_backend/models"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryOTPStore()
	ctx := context.Background()

	entry := models.PendingOTP{
		Phone:     "9876543210",
		CodeHash:  "hash",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	require.NoError(t, store.Put(ctx, entry))

	got, err := store.Get(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "hash", got.CodeHash)
	assert.Equal(t, 0, got.Attempts)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryOTPStore()

	_, err := store.Get(context.Background(), "9876543210")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestMemoryStoreIncrementAttempts(t *testing.T) {
	store := NewMemoryOTPStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, models.PendingOTP{
		Phone:     "9876543210",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}))

	require.NoError(t, store.IncrementAttempts(ctx, "9876543210"))
	require.NoError(t, store.IncrementAttempts(ctx, "9876543210"))

	got, err := store.Get(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Attempts)

	assert.ErrorIs(t, store.IncrementAttempts(ctx, "0000000000"), ErrOTPNotFound)
}

func TestMemoryStoreDeleteReportsRemoval(t *testing.T) {
	store := NewMemoryOTPStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, models.PendingOTP{
		Phone:     "9876543210",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}))

	deleted, err := store.Delete(ctx, "9876543210")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, "9876543210")
	require.NoError(t, err)
	assert.False(t, deleted)
}

// Two concurrent verifications of the same code must not both consume it.
func TestMemoryStoreDeleteOnce(t *testing.T) {
	store := NewMemoryOTPStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, models.PendingOTP{
		Phone:     "9876543210",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}))

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			deleted, err := store.Delete(ctx, "9876543210")
			assert.NoError(t, err)
			results <- deleted
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for deleted := range results {
		if deleted {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
}

func TestParsePendingOTP(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	got, err := parsePendingOTP("9876543210", map[string]string{
		"codeHash":  "hash",
		"expiresAt": strconv.FormatInt(now.Unix(), 10),
		"attempts":  "2",
	})
	require.NoError(t, err)
	assert.Equal(t, "9876543210", got.Phone)
	assert.Equal(t, "hash", got.CodeHash)
	assert.True(t, got.ExpiresAt.Equal(now))
	assert.Equal(t, 2, got.Attempts)

	// Empty hash: key never existed or TTL removed it.
	_, err = parsePendingOTP("9876543210", map[string]string{})
	assert.ErrorIs(t, err, ErrOTPNotFound)

	// Attempts-only remnant left behind when an increment races the key TTL
	// reads as not-found, not as a decode error.
	_, err = parsePendingOTP("9876543210", map[string]string{"attempts": "1"})
	assert.ErrorIs(t, err, ErrOTPNotFound)

	_, err = parsePendingOTP("9876543210", map[string]string{
		"codeHash": "hash",
		"attempts": "1",
	})
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestMemoryStoreSweepExpired(t *testing.T) {
	store := NewMemoryOTPStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, models.PendingOTP{
		Phone:     "9876543210",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))
	require.NoError(t, store.Put(ctx, models.PendingOTP{
		Phone:     "8876543210",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}))

	store.SweepExpired(ctx)

	_, err := store.Get(ctx, "9876543210")
	assert.ErrorIs(t, err, ErrOTPNotFound)

	_, err = store.Get(ctx, "8876543210")
	assert.NoError(t, err)
}
