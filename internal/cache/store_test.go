// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("") // in-memory
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return s
}

func TestStoreSetGet(t *testing.T) {
	s := newTestStore(t)

	payload := json.RawMessage(`{"title":"Dune"}`)
	if err := s.Set("key1", payload, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, ok := s.Get("key1")
	if !ok {
		t.Fatal("expected key1 to exist")
	}
	if string(got) != string(payload) {
		t.Errorf("expected %s, got %s", payload, got)
	}
}

func TestStoreGetMissing(t *testing.T) {
	s := newTestStore(t)

	if _, ok := s.Get("nope"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestStoreOverwrite(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("key1", json.RawMessage(`"v1"`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := s.Set("key1", json.RawMessage(`"v2"`), time.Minute); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	got, ok := s.Get("key1")
	if !ok {
		t.Fatal("expected key1 to exist")
	}
	if string(got) != `"v2"` {
		t.Errorf("expected last write to win, got %s", got)
	}

	n, err := s.Len()
	if err != nil {
		t.Fatalf("len failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly one live entry per key, got %d", n)
	}
}

func TestStoreExpiry(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("short", json.RawMessage(`"x"`), 30*time.Millisecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if _, ok := s.Get("short"); !ok {
		t.Fatal("expected entry to exist before expiry")
	}

	time.Sleep(60 * time.Millisecond)

	if _, ok := s.Get("short"); ok {
		t.Error("expected entry to be absent after expiry")
	}

	// Expired read purges eagerly, so the entry is gone from enumeration.
	n, err := s.Len()
	if err != nil {
		t.Fatalf("len failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected expired entry to be purged on read, %d entries remain", n)
	}
}

func TestCleanExpired(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		if err := s.Set(fmt.Sprintf("old%d", i), json.RawMessage(`"x"`), 10*time.Millisecond); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		if err := s.Set(fmt.Sprintf("fresh%d", i), json.RawMessage(`"y"`), time.Hour); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}

	time.Sleep(30 * time.Millisecond)

	removed, err := s.CleanExpired()
	if err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("expected 3 entries removed, got %d", removed)
	}

	n, err := s.Len()
	if err != nil {
		t.Fatalf("len failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 fresh entries to survive, got %d", n)
	}
}

func TestCleanExpiredEmpty(t *testing.T) {
	s := newTestStore(t)

	removed, err := s.CleanExpired()
	if err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("expected 0 removed on empty store, got %d", removed)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n%3)
			for j := 0; j < 20; j++ {
				_ = s.Set(key, json.RawMessage(fmt.Sprintf(`"w%d-%d"`, n, j)), time.Minute)
				if val, ok := s.Get(key); ok {
					// A read must never observe a torn entry.
					var decoded string
					if err := json.Unmarshal(val, &decoded); err != nil {
						t.Errorf("observed corrupt entry: %v", err)
					}
				}
				if j%5 == 0 {
					_, _ = s.CleanExpired()
				}
			}
		}(i)
	}
	wg.Wait()
}
