package ratelimit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"alcyxob/workout-tracker/internal/config"
)

const redisBreakerDuration = 30 * time.Second

// RedisClientFactory constructs a Redis client for the given options.
type RedisClientFactory func(options *redis.Options) *redis.Client

// Manager selects a limiter backend and enforces rate limits. Redis is used
// when configured and reachable; after a Redis failure the manager serves
// from memory for redisBreakerDuration before trying again.
type Manager struct {
	redisCfg       config.RedisConfig
	nowFn          func() time.Time
	memoryLimiter  Limiter
	newRedisClient RedisClientFactory
	mu             sync.Mutex
	redisLimiter   *RedisLimiter
	breakerUntil   time.Time
}

// NewManager constructs a Manager with default dependencies when nil.
func NewManager(redisCfg config.RedisConfig, nowFn func() time.Time, newRedisClient RedisClientFactory) *Manager {
	if nowFn == nil {
		nowFn = time.Now
	}
	if newRedisClient == nil {
		newRedisClient = redis.NewClient
	}
	return &Manager{
		redisCfg:       redisCfg,
		nowFn:          nowFn,
		memoryLimiter:  NewMemoryLimiter(),
		newRedisClient: newRedisClient,
	}
}

// Allow checks whether the request should be allowed using the best available backend.
func (m *Manager) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	if m == nil || limit <= 0 || key == "" {
		return Result{Allowed: true}, nil
	}
	now := m.nowFn()

	if strings.TrimSpace(m.redisCfg.Addr) != "" {
		if result, ok := m.allowRedis(ctx, key, limit, window, now); ok {
			return result, nil
		}
	}
	return m.memoryLimiter.Allow(ctx, key, limit, window, now)
}

// Close releases the Redis connection, if any.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redisLimiter == nil {
		return nil
	}
	err := m.redisLimiter.client.Close()
	m.redisLimiter = nil
	return err
}

func (m *Manager) allowRedis(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (Result, bool) {
	if m.isBreakerActive(now) {
		return Result{}, false
	}
	limiter, errEnsure := m.ensureRedis(ctx)
	if errEnsure != nil {
		m.tripBreaker(errEnsure, now)
		return Result{}, false
	}
	result, errAllow := limiter.Allow(ctx, key, limit, window, now)
	if errAllow != nil {
		m.tripBreaker(errAllow, now)
		return Result{}, false
	}
	return result, true
}

func (m *Manager) isBreakerActive(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.breakerUntil.IsZero() {
		return false
	}
	if now.Before(m.breakerUntil) {
		return true
	}
	m.breakerUntil = time.Time{}
	return false
}

func (m *Manager) tripBreaker(err error, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.breakerUntil.IsZero() && now.Before(m.breakerUntil) {
		return
	}
	m.breakerUntil = now.Add(redisBreakerDuration)
	if m.redisLimiter != nil {
		_ = m.redisLimiter.client.Close()
		m.redisLimiter = nil
	}
	log.WithError(err).Warn("rate limit: redis unavailable, falling back to memory")
}

func (m *Manager) ensureRedis(ctx context.Context) (*RedisLimiter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.redisLimiter != nil {
		return m.redisLimiter, nil
	}
	addr := strings.TrimSpace(m.redisCfg.Addr)
	if addr == "" {
		return nil, errors.New("rate limit redis: missing address")
	}
	db := m.redisCfg.DB
	if db < 0 {
		db = 0
	}

	client := m.newRedisClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(m.redisCfg.Password),
		DB:       db,
	})
	ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if errPing := client.Ping(ctxPing).Err(); errPing != nil {
		_ = client.Close()
		return nil, errPing
	}
	m.redisLimiter = NewRedisLimiter(client, m.redisCfg.Prefix)
	return m.redisLimiter, nil
}
