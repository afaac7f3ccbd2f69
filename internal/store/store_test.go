package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), RedisOptions{Addr: mr.Addr()}, quietLogger())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func exerciseHashAPI(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.HGet(ctx, "session:1", "Locations"); err != nil || ok {
		t.Fatalf("expected miss on empty store, got ok=%v err=%v", ok, err)
	}

	if err := s.HSetTTL(ctx, "session:1", map[string]string{"Locations": "{}", "Language": "ENGLISH"}, time.Hour); err != nil {
		t.Fatalf("hset: %v", err)
	}
	value, ok, err := s.HGet(ctx, "session:1", "Language")
	if err != nil || !ok || value != "ENGLISH" {
		t.Fatalf("hget = %q ok=%v err=%v", value, ok, err)
	}

	if err := s.HSet(ctx, "session:1", map[string]string{"WorkingStage": "ENTER_RADIUS"}); err != nil {
		t.Fatalf("hset: %v", err)
	}
	all, err := s.HGetAll(ctx, "session:1")
	if err != nil {
		t.Fatalf("hgetall: %v", err)
	}
	if len(all) != 3 || all["WorkingStage"] != "ENTER_RADIUS" || all["Locations"] != "{}" {
		t.Fatalf("unexpected hash: %v", all)
	}

	if err := s.HDel(ctx, "session:1", "WorkingStage"); err != nil {
		t.Fatalf("hdel: %v", err)
	}
	if _, ok, _ := s.HGet(ctx, "session:1", "WorkingStage"); ok {
		t.Fatal("field should be deleted")
	}

	if err := s.Set(ctx, "place:abc", `{"id":"abc"}`, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := s.Get(ctx, "place:abc")
	if err != nil || !ok || got != `{"id":"abc"}` {
		t.Fatalf("get = %q ok=%v err=%v", got, ok, err)
	}
	if _, ok, _ := s.Get(ctx, "place:missing"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestMemoryStoreHashAPI(t *testing.T) {
	exerciseHashAPI(t, NewMemoryStore(quietLogger()))
}

func TestRedisStoreHashAPI(t *testing.T) {
	s, _ := newRedisStore(t)
	exerciseHashAPI(t, s)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(quietLogger())

	if err := s.HSetTTL(ctx, "session:2", map[string]string{"Language": "ENGLISH"}, 20*time.Millisecond); err != nil {
		t.Fatalf("hset: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, ok, _ := s.HGet(ctx, "session:2", "Language"); ok {
		t.Fatal("expected key to expire")
	}

	if err := s.HSetTTL(ctx, "session:3", map[string]string{"Language": "ENGLISH"}, 20*time.Millisecond); err != nil {
		t.Fatalf("hset: %v", err)
	}
	if err := s.Expire(ctx, "session:3", time.Hour); err != nil {
		t.Fatalf("expire: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, ok, _ := s.HGet(ctx, "session:3", "Language"); !ok {
		t.Fatal("expected expiry to be extended")
	}
}

func TestRedisStoreSlidingExpiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	if err := s.HSetTTL(ctx, "session:4", map[string]string{"Language": "ENGLISH"}, time.Hour); err != nil {
		t.Fatalf("hset: %v", err)
	}
	if ttl := mr.TTL("session:4"); ttl != time.Hour {
		t.Fatalf("ttl = %v, expected 1h", ttl)
	}

	mr.FastForward(30 * time.Minute)
	if err := s.HSetTTL(ctx, "session:4", map[string]string{"WorkingStage": "ENTER_LOCATION"}, time.Hour); err != nil {
		t.Fatalf("hset: %v", err)
	}
	mr.FastForward(45 * time.Minute)
	if _, ok, _ := s.HGet(ctx, "session:4", "Language"); !ok {
		t.Fatal("write should have refreshed the expiry")
	}

	mr.FastForward(time.Hour)
	if _, ok, _ := s.HGet(ctx, "session:4", "Language"); ok {
		t.Fatal("expected key to expire")
	}
}

func TestMemoryStoreSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	filename := filepath.Join(t.TempDir(), "snapshot.json")

	s := NewMemoryStore(quietLogger())
	if err := s.HSetTTL(ctx, "session:5", map[string]string{"Locations": `{"a":{}}`}, time.Hour); err != nil {
		t.Fatalf("hset: %v", err)
	}
	if err := s.Set(ctx, "place:p1", "payload", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Save(filename); err != nil {
		t.Fatalf("save: %v", err)
	}

	restored := NewMemoryStore(quietLogger())
	if err := restored.Load(filename); err != nil {
		t.Fatalf("load: %v", err)
	}
	value, ok, _ := restored.HGet(ctx, "session:5", "Locations")
	if !ok || value != `{"a":{}}` {
		t.Fatalf("restored hash field = %q ok=%v", value, ok)
	}
	place, ok, _ := restored.Get(ctx, "place:p1")
	if !ok || place != "payload" {
		t.Fatalf("restored value = %q ok=%v", place, ok)
	}
}

func TestMemoryStoreLoadMissingFile(t *testing.T) {
	s := NewMemoryStore(quietLogger())
	if err := s.Load(filepath.Join(t.TempDir(), "absent.json")); err != nil {
		t.Fatalf("missing snapshot should not fail: %v", err)
	}
}
