package store

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreInsertAndGet(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	id, err := st.Insert(ctx, CollectionUsers, Document{"username": "alice", "scopes": []string{"user"}})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if id == "" {
		t.Fatal("Insert() returned empty id")
	}

	doc, err := st.GetOne(ctx, CollectionUsers, Filter{"username": "alice"})
	if err != nil {
		t.Fatalf("GetOne() error = %v", err)
	}
	if doc == nil {
		t.Fatal("GetOne() returned nil for existing document")
	}
	if doc["username"] != "alice" {
		t.Errorf("username = %v, want alice", doc["username"])
	}

	missing, err := st.GetOne(ctx, CollectionUsers, Filter{"username": "bob"})
	if err != nil {
		t.Fatalf("GetOne() error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetOne() = %v, want nil for absent document", missing)
	}
}

func TestMemoryStoreUpdate(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	t.Run("Existing document is patched", func(t *testing.T) {
		if _, err := st.Insert(ctx, CollectionUsers, Document{"username": "alice", "disabled": false}); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}

		count, err := st.Update(ctx, CollectionUsers, Filter{"username": "alice"}, Document{"disabled": true}, false)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if count != 1 {
			t.Errorf("Update() affected = %d, want 1", count)
		}

		doc, _ := st.GetOne(ctx, CollectionUsers, Filter{"username": "alice"})
		if doc["disabled"] != true {
			t.Errorf("disabled = %v, want true", doc["disabled"])
		}
	})

	t.Run("No match without upsert", func(t *testing.T) {
		count, err := st.Update(ctx, CollectionUsers, Filter{"username": "ghost"}, Document{"disabled": true}, false)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if count != 0 {
			t.Errorf("Update() affected = %d, want 0", count)
		}
	})

	t.Run("Upsert creates from filter plus patch", func(t *testing.T) {
		count, err := st.Update(ctx, CollectionPasswordResets,
			Filter{"user_id": "u1"},
			Document{"reset_otp": "123456", "password_changed": false},
			true)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if count != 1 {
			t.Errorf("Update() affected = %d, want 1", count)
		}

		doc, _ := st.GetOne(ctx, CollectionPasswordResets, Filter{"user_id": "u1"})
		if doc == nil {
			t.Fatal("upserted document not found")
		}
		if doc["reset_otp"] != "123456" {
			t.Errorf("reset_otp = %v, want 123456", doc["reset_otp"])
		}
	})

	t.Run("Upsert overwrites the existing request", func(t *testing.T) {
		count, err := st.Update(ctx, CollectionPasswordResets,
			Filter{"user_id": "u1"},
			Document{"reset_otp": "654321"},
			true)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if count != 1 {
			t.Errorf("Update() affected = %d, want 1", count)
		}

		docs, _ := st.Get(ctx, CollectionPasswordResets, Filter{"user_id": "u1"})
		if len(docs) != 1 {
			t.Fatalf("got %d requests for user, want 1", len(docs))
		}
		if docs[0]["reset_otp"] != "654321" {
			t.Errorf("reset_otp = %v, want 654321", docs[0]["reset_otp"])
		}
	})
}

func TestMemoryStoreDeleteWithOperators(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	old := now.Add(-48 * time.Hour)

	st.Insert(ctx, CollectionPasswordResets, Document{"user_id": "u1", "otp_expiry": old})
	st.Insert(ctx, CollectionPasswordResets, Document{"user_id": "u2", "otp_expiry": now.Add(time.Hour)})

	removed, err := st.Delete(ctx, CollectionPasswordResets, Filter{
		"otp_expiry": map[string]interface{}{"$lt": now},
	})
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Delete() removed = %d, want 1", removed)
	}

	remaining, _ := st.Get(ctx, CollectionPasswordResets, Filter{})
	if len(remaining) != 1 || remaining[0]["user_id"] != "u2" {
		t.Errorf("remaining = %v, want only u2", remaining)
	}
}

func TestMemoryStoreCopiesOnRead(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	st.Insert(ctx, CollectionUsers, Document{"username": "alice", "scopes": []string{"user"}})

	doc, _ := st.GetOne(ctx, CollectionUsers, Filter{"username": "alice"})
	doc["username"] = "mallory"
	if s, ok := doc["scopes"].([]string); ok {
		s[0] = "admin"
	}

	stored, _ := st.GetOne(ctx, CollectionUsers, Filter{"username": "alice"})
	if stored == nil {
		t.Fatal("stored document mutated through a read copy")
	}
	if stored["scopes"].([]string)[0] != "user" {
		t.Error("stored scopes mutated through a read copy")
	}
}
