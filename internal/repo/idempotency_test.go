package repo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIdempotency_CreateGetDuplicateAndExpiry(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Now().UTC()

	if _, err := GetIdempotency(ctx, db, "u1", " ", "k1", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("blank scope should be ErrNotFound, got %v", err)
	}

	rec, err := CreateIdempotency(ctx, db, "u1", "tasks.create", "k1", "res-1", 201, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u1", "tasks.create", "k1", "res-2", 201, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, err := GetIdempotency(ctx, db, "u1", "tasks.create", "k1", now)
	if err != nil || got.ID != rec.ID || got.ResourceID != "res-1" || got.Status != 201 {
		t.Fatalf("GetIdempotency: %+v err=%v", got, err)
	}
	if _, err := GetIdempotency(ctx, db, "u2", "tasks.create", "k1", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other user must not see the record, got %v", err)
	}

	later := now.Add(2 * time.Hour)
	if _, err := GetIdempotency(ctx, db, "u1", "tasks.create", "k1", later); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired record should be ErrNotFound, got %v", err)
	}
	purged, err := PurgeExpiredIdempotency(ctx, db, later)
	if err != nil || purged != 1 {
		t.Fatalf("PurgeExpiredIdempotency: %d err=%v", purged, err)
	}
}
