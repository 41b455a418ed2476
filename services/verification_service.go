package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"resort-backend/utils"
)

// OTPTTL is how long an issued code stays valid.
const OTPTTL = 2 * time.Minute

// errStoreMiss is the internal "no such key" signal shared by both stores.
var errStoreMiss = errors.New("verification: key not found")

// VerificationStore is the expiring key-value dependency behind OTP codes,
// keyed by "{email}_{purpose}".
type VerificationStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// RedisStore backs verification codes with Redis so they survive restarts
// and are shared across instances.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.Client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", errStoreMiss
	}
	return value, err
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.Client.Del(ctx, key).Err()
}

// MemoryStore is the single-process fallback used when Redis is unreachable
// at startup, and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return "", errStoreMiss
	}
	return entry.value, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// VerificationService issues and checks the short-lived OTP codes used for
// registration and password resets.
type VerificationService struct {
	Store VerificationStore
	TTL   time.Duration
}

func NewVerificationService(store VerificationStore) *VerificationService {
	return &VerificationService{Store: store, TTL: OTPTTL}
}

func otpKey(email, purpose string) string {
	return email + "_" + purpose
}

// IssueOTP generates a new code unless one is still outstanding for the same
// email and purpose.
func (s *VerificationService) IssueOTP(ctx context.Context, email, purpose string) (string, error) {
	key := otpKey(email, purpose)
	if _, err := s.Store.Get(ctx, key); err == nil {
		return "", ErrOTPAlreadySent
	} else if !errors.Is(err, errStoreMiss) {
		return "", err
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return "", err
	}
	if err := s.Store.Set(ctx, key, code, s.TTL); err != nil {
		return "", err
	}
	return code, nil
}

// ResendOTP returns the outstanding code when there is one, otherwise issues
// a fresh one.
func (s *VerificationService) ResendOTP(ctx context.Context, email, purpose string) (string, error) {
	key := otpKey(email, purpose)
	code, err := s.Store.Get(ctx, key)
	if err == nil {
		return code, nil
	}
	if !errors.Is(err, errStoreMiss) {
		return "", err
	}
	code, err = utils.GenerateOTP()
	if err != nil {
		return "", err
	}
	if err := s.Store.Set(ctx, key, code, s.TTL); err != nil {
		return "", err
	}
	return code, nil
}

// VerifyOTP checks the supplied code and consumes it on success.
func (s *VerificationService) VerifyOTP(ctx context.Context, email, purpose, code string) error {
	key := otpKey(email, purpose)
	cached, err := s.Store.Get(ctx, key)
	if errors.Is(err, errStoreMiss) {
		return ErrOTPExpired
	}
	if err != nil {
		return err
	}
	if cached != code {
		return ErrOTPMismatch
	}
	return s.Store.Delete(ctx, key)
}

// ClearOTP drops any outstanding code, used when a flow restarts.
func (s *VerificationService) ClearOTP(ctx context.Context, email, purpose string) error {
	return s.Store.Delete(ctx, otpKey(email, purpose))
}
