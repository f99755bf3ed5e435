// services/otp_store.go
package services

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/agriconnect/agriconnect_backend/models"
)

// OTPStore holds at most one pending code per phone number.
//
// Delete reports whether an entry was actually removed so that two concurrent
// verifications of the same code cannot both succeed: the verifier treats a
// false return as not-found.
type OTPStore interface {
	Put(ctx context.Context, entry models.PendingOTP) error
	Get(ctx context.Context, phone string) (*models.PendingOTP, error)
	IncrementAttempts(ctx context.Context, phone string) error
	Delete(ctx context.Context, phone string) (bool, error)
	SweepExpired(ctx context.Context)
}

const memoryStoreShards = 16

type memoryShard struct {
	mu      sync.Mutex
	entries map[string]models.PendingOTP
}

// MemoryOTPStore is the single-instance store: a lock-striped map so the
// periodic sweep never blocks reads for unrelated phones.
type MemoryOTPStore struct {
	shards [memoryStoreShards]*memoryShard
}

// NewMemoryOTPStore creates an empty in-memory store.
func NewMemoryOTPStore() *MemoryOTPStore {
	s := &MemoryOTPStore{}
	for i := range s.shards {
		s.shards[i] = &memoryShard{entries: make(map[string]models.PendingOTP)}
	}
	return s
}

func (s *MemoryOTPStore) shard(phone string) *memoryShard {
	h := fnv.New32a()
	h.Write([]byte(phone))
	return s.shards[h.Sum32()%memoryStoreShards]
}

func (s *MemoryOTPStore) Put(_ context.Context, entry models.PendingOTP) error {
	sh := s.shard(entry.Phone)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.entries[entry.Phone] = entry
	return nil
}

func (s *MemoryOTPStore) Get(_ context.Context, phone string) (*models.PendingOTP, error) {
	sh := s.shard(phone)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	entry, ok := sh.entries[phone]
	if !ok {
		return nil, ErrOTPNotFound
	}
	return &entry, nil
}

func (s *MemoryOTPStore) IncrementAttempts(_ context.Context, phone string) error {
	sh := s.shard(phone)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	entry, ok := sh.entries[phone]
	if !ok {
		return ErrOTPNotFound
	}
	entry.Attempts++
	sh.entries[phone] = entry
	return nil
}

func (s *MemoryOTPStore) Delete(_ context.Context, phone string) (bool, error) {
	sh := s.shard(phone)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.entries[phone]; !ok {
		return false, nil
	}
	delete(sh.entries, phone)
	return true, nil
}

// SweepExpired removes entries whose expiry has passed. Each shard is locked
// independently.
func (s *MemoryOTPStore) SweepExpired(_ context.Context) {
	now := time.Now()
	for _, sh := range s.shards {
		sh.mu.Lock()
		for phone, entry := range sh.entries {
			if now.After(entry.ExpiresAt) {
				delete(sh.entries, phone)
			}
		}
		sh.mu.Unlock()
	}
}

// RedisOTPStore keeps pending codes in Redis so multiple instances share one
// view. Expiry is delegated to the key TTL.
type RedisOTPStore struct {
	client *redis.Client
}

// NewRedisOTPStore wraps an existing Redis client.
func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

func otpKey(phone string) string {
	return "otp:" + phone
}

func (s *RedisOTPStore) Put(ctx context.Context, entry models.PendingOTP) error {
	key := otpKey(entry.Phone)
	pipe := s.client.TxPipeline()
	// Overwrite wholesale: a re-issue resets the attempt counter.
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]interface{}{
		"codeHash":  entry.CodeHash,
		"expiresAt": entry.ExpiresAt.Unix(),
		"attempts":  entry.Attempts,
	})
	pipe.ExpireAt(ctx, key, entry.ExpiresAt)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisOTPStore) Get(ctx context.Context, phone string) (*models.PendingOTP, error) {
	fields, err := s.client.HGetAll(ctx, otpKey(phone)).Result()
	if err != nil {
		return nil, err
	}
	return parsePendingOTP(phone, fields)
}

// parsePendingOTP decodes the redis hash for a phone. A hash without a code
// or expiry is treated as absent: an IncrementAttempts racing the key TTL can
// resurrect the key with only an attempts field, and such a remnant must read
// as not-found rather than an error.
func parsePendingOTP(phone string, fields map[string]string) (*models.PendingOTP, error) {
	if len(fields) == 0 || fields["codeHash"] == "" || fields["expiresAt"] == "" {
		return nil, ErrOTPNotFound
	}
	expiresAt, err := strconv.ParseInt(fields["expiresAt"], 10, 64)
	if err != nil {
		return nil, err
	}
	attempts, _ := strconv.Atoi(fields["attempts"])
	return &models.PendingOTP{
		Phone:     phone,
		CodeHash:  fields["codeHash"],
		ExpiresAt: time.Unix(expiresAt, 0),
		Attempts:  attempts,
	}, nil
}

func (s *RedisOTPStore) IncrementAttempts(ctx context.Context, phone string) error {
	return s.client.HIncrBy(ctx, otpKey(phone), "attempts", 1).Err()
}

func (s *RedisOTPStore) Delete(ctx context.Context, phone string) (bool, error) {
	n, err := s.client.Del(ctx, otpKey(phone)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SweepExpired is a no-op for Redis: the key TTL already removes stale
// entries.
func (s *RedisOTPStore) SweepExpired(_ context.Context) {}
