package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewRedisStore(rdb, "device")
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestRedis(t)

	if err := s.Set(ctx, "auth:session", "s1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, err := mr.Get("device:auth:session"); err != nil || got != "s1" {
		t.Errorf("stored key = (%q, %v), want prefixed s1", got, err)
	}
	if got, err := s.Get(ctx, "auth:session"); err != nil || got != "s1" {
		t.Errorf("Get = (%q, %v)", got, err)
	}
	if err := s.Delete(ctx, "auth:session"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "auth:session"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete err = %v, want ErrNotFound", err)
	}
}

func TestRedisStoreMissingKey(t *testing.T) {
	_, s := newTestRedis(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if ok, err := Has(context.Background(), s, "nope"); err != nil || ok {
		t.Errorf("Has = (%v, %v)", ok, err)
	}
}

func TestRedisStoreBackendError(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestRedis(t)
	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.SetError("ERR backend down")
	_, err := s.Get(ctx, "k")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want backend error", err)
	}
}
