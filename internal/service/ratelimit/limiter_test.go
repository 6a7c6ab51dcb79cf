package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowConsumesBurst(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 1) {
			t.Fatalf("token %d should be available", i)
		}
	}
	if l.Allow("k", 3, 1) {
		t.Fatalf("bucket should be empty after burst")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 1) {
		t.Fatalf("first token for a")
	}
	if !l.Allow("b", 1, 1) {
		t.Fatalf("a must not drain b")
	}
}

func TestWaitRefills(t *testing.T) {
	l := New()
	if !l.Allow("k", 1, 100) {
		t.Fatalf("first token")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	start := time.Now()
	if err := l.Wait(ctx, "k", 1, 100); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatalf("refill at 100/s should not take this long")
	}
}

func TestWaitHonorsCancellation(t *testing.T) {
	l := New()
	if !l.Allow("k", 1, 0.001) {
		t.Fatalf("first token")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, "k", 1, 0.001); err == nil {
		t.Fatalf("expected context error from a starved bucket")
	}
}
