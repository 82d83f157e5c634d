package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_BurstThenBlocks(t *testing.T) {
	l := New(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("attempt %d blocked within burst", i+1)
		}
	}
	if l.Allow("k") {
		t.Error("fourth attempt should be blocked")
	}
	if !l.Allow("other") {
		t.Error("keys must not share a budget")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("Reset should restore the budget")
	}
}

func TestLimiter_Refills(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := New(2, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("k")
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("expected block after burst")
	}
	now = now.Add(30 * time.Second)
	if !l.Allow("k") {
		t.Error("one token should refill after half the window")
	}
}

func TestLimiter_SweepsIdleKeys(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := New(1, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("old")
	now = now.Add(5 * time.Minute)
	l.Allow("new")

	if _, ok := l.buckets["old"]; ok {
		t.Error("idle key was not swept")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.5:5555"
	if got := ClientIP(r); got != "10.0.0.5" {
		t.Errorf("RemoteAddr: got %q", got)
	}
	r.Header.Set("X-Real-IP", "10.0.0.6")
	if got := ClientIP(r); got != "10.0.0.6" {
		t.Errorf("X-Real-IP: got %q", got)
	}
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := ClientIP(r); got != "203.0.113.9" {
		t.Errorf("X-Forwarded-For: got %q", got)
	}
}

func TestSignInLimiter_PerAccount(t *testing.T) {
	s := NewSignInLimiter()
	r := httptest.NewRequest("POST", "/login", nil)

	for i := 0; i < 5; i++ {
		if ok, _ := s.Check(r, "nurse@example.org"); !ok {
			t.Fatalf("attempt %d blocked", i+1)
		}
	}
	if ok, msg := s.Check(r, "nurse@example.org"); ok || msg == "" {
		t.Error("sixth attempt for the account should be blocked with a message")
	}
	s.Succeeded("nurse@example.org")
	if ok, _ := s.Check(r, "nurse@example.org"); !ok {
		t.Error("Succeeded should clear the account budget")
	}
}
