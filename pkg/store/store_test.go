package store

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/agrikit/pkg/errors"
	"github.com/matzehuels/agrikit/pkg/undo"
)

func TestKey(t *testing.T) {
	tests := []struct {
		prefix, typ string
		id          int64
		want        string
	}{
		{"", "user", 12, "agrikit:entity:user:12"},
		{"prod", "farm_plot", 3, "prod:entity:farm_plot:3"},
	}
	for _, tt := range tests {
		got := Key(tt.prefix, tt.typ, tt.id)
		if got != tt.want {
			t.Errorf("Key(%q, %q, %d) = %q, want %q", tt.prefix, tt.typ, tt.id, got, tt.want)
		}
		typ, id, ok := ParseKey(tt.prefix, got)
		if !ok || typ != tt.typ || id != tt.id {
			t.Errorf("ParseKey(%q) = %q, %d, %v", got, typ, id, ok)
		}
	}

	for _, bad := range []string{"other:entity:user:1", "agrikit:entity:user:x", "agrikit:entity::1", "agrikit:entity:1"} {
		if _, _, ok := ParseKey("", bad); ok {
			t.Errorf("ParseKey(%q) should fail", bad)
		}
	}
}

func TestMemoryStoreSemantics(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if _, err := m.Get(ctx, "user", 1); !errors.Is(err, errors.ErrCodeEntityNotFound) {
		t.Errorf("Get(missing) error = %v", err)
	}
	if err := m.Put(ctx, "user", 1, undo.Snapshot{"a": 1}); !errors.Is(err, errors.ErrCodeEntityNotFound) {
		t.Errorf("Put(missing) error = %v", err)
	}
	if err := m.Delete(ctx, "user", 1); !errors.Is(err, errors.ErrCodeEntityNotFound) {
		t.Errorf("Delete(missing) error = %v", err)
	}

	if err := m.Create(ctx, "user", 1, undo.Snapshot{"name": "Anil"}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := m.Create(ctx, "user", 1, undo.Snapshot{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Create(existing) error = %v", err)
	}
	if err := m.Put(ctx, "user", 1, undo.Snapshot{"name": "Anil K"}); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	got, err := m.Get(ctx, "user", 1)
	if err != nil || got["name"] != "Anil K" {
		t.Fatalf("Get() = %v, %v", got, err)
	}

	got["name"] = "mutated"
	if again, _ := m.Get(ctx, "user", 1); again["name"] != "Anil K" {
		t.Error("Get() should return a copy")
	}

	if err := m.Delete(ctx, "user", 1); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if st := m.Stats(); st.Entities != 0 {
		t.Errorf("Stats() = %+v after delete", st)
	}
}

func TestMemoryStoreJSON(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	_ = m.Create(ctx, "user", 2, undo.Snapshot{"name": "Bina"})
	_ = m.Create(ctx, "user", 10, undo.Snapshot{"name": "Chetan"})
	_ = m.Create(ctx, "farm", 1, undo.Snapshot{"acres": 2.5})

	var buf bytes.Buffer
	if err := m.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}

	back := NewMemoryStore()
	if err := back.ReadJSON(&buf); err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if ids := back.IDs("user"); !slices.Equal(ids, []int64{2, 10}) {
		t.Errorf("IDs(user) = %v", ids)
	}
	if types := back.Types(); !slices.Equal(types, []string{"farm", "user"}) {
		t.Errorf("Types() = %v", types)
	}
	farm, _ := back.Get(ctx, "farm", 1)
	if !maps.Equal(farm, undo.Snapshot{"acres": 2.5}) {
		t.Errorf("farm = %v", farm)
	}

	if err := back.ReadJSON(strings.NewReader(`{"user": {"abc": {}}}`)); err == nil {
		t.Error("ReadJSON() should reject non-numeric ids")
	}
}

func TestSnapshotCodec(t *testing.T) {
	raw, err := encodeSnapshot(nil)
	if err != nil || string(raw) != "{}" {
		t.Errorf("encodeSnapshot(nil) = %s, %v", raw, err)
	}
	s, err := decodeSnapshot([]byte(`{"acres": 4, "crops": ["rice"]}`))
	if err != nil {
		t.Fatal(err)
	}
	if s["acres"] != 4.0 {
		t.Errorf("acres = %v (%T)", s["acres"], s["acres"])
	}
	if s, _ := decodeSnapshot([]byte(`null`)); s == nil {
		t.Error("decodeSnapshot(null) should return an empty snapshot")
	}
	if _, err := decodeSnapshot([]byte(`[1]`)); err == nil {
		t.Error("decodeSnapshot(array) should fail")
	}
}

func TestNewRedisStoreErrors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := NewRedisStore(ctx, "not a url", ""); err == nil {
		t.Error("NewRedisStore() should reject a malformed url")
	}
	if _, err := NewRedisStore(ctx, "redis://127.0.0.1:1/0", ""); err == nil {
		t.Error("NewRedisStore() should fail when nothing listens")
	}
}

func TestUndoAgainstMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	_ = m.Create(ctx, "user", 5, undo.Snapshot{"name": "Devi", "status": "inactive"})

	mgr := undo.New()
	mgr.Push(undo.ActionRecord{Kind: undo.EntityUpdated, EntityType: "user", EntityID: 5, Before: undo.Snapshot{"status": "active"}})
	mgr.Push(undo.ActionRecord{Kind: undo.EntityCreated, EntityType: "farm", EntityID: 8})

	if res := mgr.Undo(ctx, m); !errors.Has(res.Err, errors.ErrCodeEntityNotFound) {
		t.Errorf("undo of unknown creation: %+v", res)
	}
	if res := mgr.Undo(ctx, m); res.Err != nil {
		t.Fatalf("undo update: %v", res.Err)
	}
	got, _ := m.Get(ctx, "user", 5)
	if got["status"] != "active" || got["name"] != "Devi" {
		t.Errorf("user = %v", got)
	}
}
