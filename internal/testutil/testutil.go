// Package testutil connects tests to a real Redis when one is running.
//
// Redis tests are skipped when no server answers, unless TEST_REQUIRE_REDIS
// (or TEST_REQUIRE_INFRA, as CI sets it) is truthy, in which case they fail.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pingTimeout = 2 * time.Second
	// Databases 1..maxTestDB are handed out; DB 0 holds the reservations.
	maxTestDB  = 15
	lockTTL    = 30 * time.Minute
	lockKeyFmt = "console:testutil:db_lock:%d"
)

// defaultRedisAddrs are tried in order when REDIS_ADDR is unset.
var defaultRedisAddrs = []string{"redis:6379", "localhost:6379", "localhost:56379"}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}

func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

func ping(addr string, db int) error {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	defer client.Close()
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return client.Ping(ctx).Err()
}

// RedisAddr returns the first reachable server address.
func RedisAddr(t testing.TB) (string, bool) {
	t.Helper()
	candidates := defaultRedisAddrs
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		candidates = []string{addr}
	}
	for _, addr := range candidates {
		err := ping(addr, 0)
		if err == nil {
			return addr, true
		}
		t.Logf("redis not available at %s: %v", addr, err)
	}
	return "", false
}

// reserveDB claims a database for this test so packages running in parallel
// do not flush each other. TEST_REDIS_DB pins the choice.
func reserveDB(t testing.TB, addr string) int {
	t.Helper()
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil && db >= 0 {
			return db
		}
		t.Logf("ignoring invalid TEST_REDIS_DB=%q", v)
	}

	meta := redis.NewClient(&redis.Options{Addr: addr})
	defer meta.Close()

	owner := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())
	for db := 1; db <= maxTestDB; db++ {
		key := fmt.Sprintf(lockKeyFmt, db)
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		ok, err := meta.SetNX(ctx, key, owner, lockTTL).Result()
		cancel()
		if err != nil || !ok {
			continue
		}
		t.Cleanup(func() { releaseDB(t, addr, key) })
		return db
	}

	t.Logf("all test databases reserved; sharing DB 1")
	return 1
}

func releaseDB(t testing.TB, addr, key string) {
	c := redis.NewClient(&redis.Options{Addr: addr})
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := c.Del(ctx, key).Err(); err != nil {
		t.Logf("failed to release %s: %v", key, err)
	}
}

// SetupTestRedis returns a client on an empty database reserved for t. The
// client is closed when t finishes.
func SetupTestRedis(t testing.TB) *redis.Client {
	t.Helper()

	addr, ok := RedisAddr(t)
	if !ok {
		if requireRedis() {
			t.Fatal("redis not available for testing")
		}
		t.Skip("redis not available for testing")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: reserveDB(t, addr)})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		if requireRedis() {
			t.Fatalf("flush redis test db at %s: %v", addr, err)
		}
		t.Skipf("redis test db at %s unusable: %v", addr, err)
	}
	return client
}
