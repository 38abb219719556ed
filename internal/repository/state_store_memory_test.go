package repository

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStateStoreGetDel(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.GetDel(ctx, "k")
	if err != nil {
		t.Fatalf("getdel: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("getdel = %q, want v", got)
	}

	// Consumed exactly once.
	got, err = store.GetDel(ctx, "k")
	if err != nil {
		t.Fatalf("second getdel: %v", err)
	}
	if got != nil {
		t.Fatalf("second getdel = %q, want nil", got)
	}
}

func TestMemoryStateStoreExpiry(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expired key still present: %q", got)
	}
	exists, err := store.Exists(ctx, "k")
	if err != nil || exists {
		t.Fatalf("Exists = %v, %v, want false", exists, err)
	}
}
