package undo

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/agrikit/pkg/errors"
)

// fakeStore is an in-memory Persistence with per-operation failure injection.
type fakeStore struct {
	entities map[string]Snapshot
	fail     map[string]error // op name -> error
	calls    []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{entities: map[string]Snapshot{}, fail: map[string]error{}}
}

func fkey(typ string, id int64) string { return fmt.Sprintf("%s:%d", typ, id) }

func (f *fakeStore) Get(_ context.Context, typ string, id int64) (Snapshot, error) {
	f.calls = append(f.calls, "get")
	if err := f.fail["get"]; err != nil {
		return nil, err
	}
	s, ok := f.entities[fkey(typ, id)]
	if !ok {
		return nil, stderrors.New("no such entity")
	}
	return s.Clone(), nil
}

func (f *fakeStore) Put(_ context.Context, typ string, id int64, s Snapshot) error {
	f.calls = append(f.calls, "put")
	if err := f.fail["put"]; err != nil {
		return err
	}
	f.entities[fkey(typ, id)] = s.Clone()
	return nil
}

func (f *fakeStore) Delete(_ context.Context, typ string, id int64) error {
	f.calls = append(f.calls, "delete")
	if err := f.fail["delete"]; err != nil {
		return err
	}
	delete(f.entities, fkey(typ, id))
	return nil
}

func (f *fakeStore) Create(_ context.Context, typ string, id int64, s Snapshot) error {
	f.calls = append(f.calls, "create")
	if err := f.fail["create"]; err != nil {
		return err
	}
	f.entities[fkey(typ, id)] = s.Clone()
	return nil
}

func TestPushPopLIFO(t *testing.T) {
	m := New()
	r1 := m.Push(ActionRecord{Kind: EntityCreated, EntityType: "farm", EntityID: 1})
	r2 := m.Push(ActionRecord{Kind: EntityCreated, EntityType: "farm", EntityID: 2})

	if got, ok := m.Pop(); !ok || got.ID != r2.ID {
		t.Errorf("first Pop() = %v, want R2", got)
	}
	if got, ok := m.Pop(); !ok || got.ID != r1.ID {
		t.Errorf("second Pop() = %v, want R1", got)
	}
	if _, ok := m.Pop(); ok {
		t.Error("Pop() on empty log should report false")
	}
}

func TestPushAssignsIDAndTimestamp(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	m := New(WithClock(func() time.Time { return fixed }))

	stored := m.Push(ActionRecord{Kind: EntityUpdated, EntityType: "user", EntityID: 3})
	if stored.ID == uuid.Nil {
		t.Error("Push() should assign an ID")
	}
	if !stored.Timestamp.Equal(fixed) {
		t.Errorf("Timestamp = %v, want %v", stored.Timestamp, fixed)
	}

	id := uuid.New()
	ts := fixed.Add(-time.Hour)
	kept := m.Push(ActionRecord{ID: id, Kind: EntityUpdated, EntityType: "user", EntityID: 3, Timestamp: ts})
	if kept.ID != id || !kept.Timestamp.Equal(ts) {
		t.Errorf("Push() overwrote caller-supplied ID/timestamp: %+v", kept)
	}
}

func TestPushCopiesSnapshots(t *testing.T) {
	m := New()
	before := Snapshot{"name": "Ravi", "tags": []any{"a"}}
	m.Push(ActionRecord{Kind: EntityDeleted, EntityType: "user", EntityID: 1, Before: before})

	before["name"] = "changed"
	before["tags"].([]any)[0] = "z"

	rec, _ := m.Peek()
	if rec.Before["name"] != "Ravi" || rec.Before["tags"].([]any)[0] != "a" {
		t.Errorf("stored record was mutated through caller snapshot: %v", rec.Before)
	}
	rec.Before["name"] = "peek-mutation"
	if again, _ := m.Peek(); again.Before["name"] != "Ravi" {
		t.Error("Peek() should return a copy")
	}
}

func TestHistoryMostRecentFirst(t *testing.T) {
	m := New()
	for i := int64(1); i <= 3; i++ {
		m.Push(ActionRecord{Kind: EntityCreated, EntityType: "farm", EntityID: i})
	}
	var ids []int64
	for _, r := range m.History() {
		ids = append(ids, r.EntityID)
	}
	if !slices.Equal(ids, []int64{3, 2, 1}) {
		t.Errorf("History() ids = %v, want [3 2 1]", ids)
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
}

func TestApplyUpdateOverwritesOnlyBeforeFields(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.entities["user:7"] = Snapshot{"name": "Asha", "status": "inactive", "location": "Pune"}

	m := New()
	res := m.Apply(ctx, ActionRecord{
		Kind:       EntityUpdated,
		EntityType: "user",
		EntityID:   7,
		Before:     Snapshot{"status": "active"},
	}, store)

	if res.Err != nil || !res.Applied {
		t.Fatalf("Apply() = %+v", res)
	}
	want := Snapshot{"name": "Asha", "status": "active", "location": "Pune"}
	if !maps.Equal(store.entities["user:7"], want) {
		t.Errorf("entity = %v, want %v", store.entities["user:7"], want)
	}
	if !maps.Equal(res.Restored, want) {
		t.Errorf("Restored = %v, want %v", res.Restored, want)
	}
}

func TestApplyCreatedDeletes(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.entities["farm:4"] = Snapshot{"name": "East plot"}

	res := New().Apply(ctx, ActionRecord{Kind: EntityCreated, EntityType: "farm", EntityID: 4}, store)
	if res.Err != nil || !res.Applied {
		t.Fatalf("Apply() = %+v", res)
	}
	if _, ok := store.entities["farm:4"]; ok {
		t.Error("created entity should be deleted")
	}
	if res.Restored != nil {
		t.Errorf("Restored = %v, want nil", res.Restored)
	}
}

func TestApplyDeletedRecreatesWithPlaceholder(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	snapshot := Snapshot{"name": "Meena", "email": "meena@example.com", "role": "user"}

	m := New()
	m.Push(ActionRecord{Kind: EntityDeleted, EntityType: "user", EntityID: 12, Before: snapshot})
	res := m.Undo(ctx, store)

	if res.Err != nil || !res.Applied {
		t.Fatalf("Undo() = %+v", res)
	}
	if !res.NeedsSecretReissue() || !slices.Equal(res.Placeholders, []string{"password_hash"}) {
		t.Errorf("Placeholders = %v, want [password_hash]", res.Placeholders)
	}

	got := store.entities["user:12"]
	if got["password_hash"] != PlaceholderSecret {
		t.Errorf("password_hash = %v, want placeholder", got["password_hash"])
	}
	delete(got, "password_hash")
	if !maps.Equal(got, snapshot) {
		t.Errorf("restored entity = %v, want %v", got, snapshot)
	}
	if m.Len() != 0 {
		t.Error("Undo() must consume the record")
	}
}

func TestApplyDeletedKeepsPresentSecret(t *testing.T) {
	store := newFakeStore()
	res := New().Apply(context.Background(), ActionRecord{
		Kind:       EntityDeleted,
		EntityType: "user",
		EntityID:   5,
		Before:     Snapshot{"name": "Kiran", "password_hash": "$2b$12$abc"},
	}, store)
	if res.NeedsSecretReissue() {
		t.Error("present secret should not be replaced")
	}
	if store.entities["user:5"]["password_hash"] != "$2b$12$abc" {
		t.Errorf("password_hash = %v", store.entities["user:5"]["password_hash"])
	}
}

func TestApplyDeletedNonSecretType(t *testing.T) {
	store := newFakeStore()
	res := New().Apply(context.Background(), ActionRecord{
		Kind:       EntityDeleted,
		EntityType: "farm",
		EntityID:   9,
		Before:     Snapshot{"name": "River field", "acres": 3.5},
	}, store)
	if res.Err != nil || res.NeedsSecretReissue() {
		t.Fatalf("Apply() = %+v", res)
	}
	if _, ok := store.entities["farm:9"]["password_hash"]; ok {
		t.Error("farm should not get a password placeholder")
	}
}

func TestWithSecretFields(t *testing.T) {
	m := New(WithSecretFields("farm", "api_token"), WithSecretFields("user"))
	if got := m.SecretFields("farm"); !slices.Equal(got, []string{"api_token"}) {
		t.Errorf("SecretFields(farm) = %v", got)
	}
	if got := m.SecretFields("user"); len(got) != 0 {
		t.Errorf("SecretFields(user) = %v, want cleared", got)
	}
}

func TestApplyFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	boom := stderrors.New("connection reset")

	tests := []struct {
		name   string
		failOp string
		rec    ActionRecord
	}{
		{"update read", "get", ActionRecord{Kind: EntityUpdated, EntityType: "user", EntityID: 1, Before: Snapshot{"a": 1}}},
		{"update write", "put", ActionRecord{Kind: EntityUpdated, EntityType: "user", EntityID: 1, Before: Snapshot{"a": 1}}},
		{"created", "delete", ActionRecord{Kind: EntityCreated, EntityType: "user", EntityID: 1}},
		{"deleted", "create", ActionRecord{Kind: EntityDeleted, EntityType: "user", EntityID: 1, Before: Snapshot{"a": 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.entities["user:1"] = Snapshot{"a": 0}
			store.fail[tt.failOp] = boom

			m := New()
			m.Push(ActionRecord{Kind: EntityCreated, EntityType: "farm", EntityID: 99})
			m.Push(tt.rec)

			res := m.Undo(ctx, store)
			if res.Applied {
				t.Error("Applied = true on failure")
			}
			if !errors.Is(res.Err, errors.ErrCodeRestorationFailed) {
				t.Errorf("Err code = %v, want RESTORATION_FAILED", errors.GetCode(res.Err))
			}
			if !stderrors.Is(res.Err, boom) {
				t.Error("Err should wrap the persistence error")
			}
			if res.Restored != nil || res.Placeholders != nil {
				t.Errorf("failed result should not report restored state: %+v", res)
			}
			if m.Len() != 1 {
				t.Errorf("Len() = %d, want 1: failed record is consumed, older ones stay", m.Len())
			}
			if next, _ := m.Peek(); next.EntityID != 99 {
				t.Errorf("remaining record = %v", next)
			}
		})
	}
}

func TestApplyInvalidRecords(t *testing.T) {
	tests := []struct {
		name string
		rec  ActionRecord
		code errors.Code
	}{
		{"bad type", ActionRecord{Kind: EntityCreated, EntityType: "User!", EntityID: 1}, errors.ErrCodeInvalidRecord},
		{"bad id", ActionRecord{Kind: EntityCreated, EntityType: "user", EntityID: 0}, errors.ErrCodeInvalidRecord},
		{"delete without snapshot", ActionRecord{Kind: EntityDeleted, EntityType: "user", EntityID: 1}, errors.ErrCodeInvalidRecord},
		{"unknown kind", ActionRecord{Kind: Kind(42), EntityType: "user", EntityID: 1}, errors.ErrCodeUnsupportedKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			res := New().Apply(context.Background(), tt.rec, store)
			if !errors.Is(res.Err, errors.ErrCodeRestorationFailed) || !errors.Has(res.Err, tt.code) {
				t.Errorf("Err = %v, want RESTORATION_FAILED wrapping %s", res.Err, tt.code)
			}
			if tt.rec.Kind != Kind(42) && len(store.calls) != 0 {
				t.Errorf("invalid record reached the store: %v", store.calls)
			}
		})
	}
}

func TestUndoEmptyLog(t *testing.T) {
	res := New().Undo(context.Background(), newFakeStore())
	if res.Applied || !errors.Is(res.Err, errors.ErrCodeNotFound) {
		t.Errorf("Undo() on empty log = %+v", res)
	}
}

func TestKindText(t *testing.T) {
	for _, k := range []Kind{EntityCreated, EntityUpdated, EntityDeleted} {
		b, _ := k.MarshalText()
		var back Kind
		if err := back.UnmarshalText(b); err != nil || back != k {
			t.Errorf("round trip %v -> %q -> %v (%v)", k, b, back, err)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("renamed")); err == nil {
		t.Error("unknown kind should fail to parse")
	}
	if s := Kind(9).String(); s != "kind(9)" {
		t.Errorf("String() = %q", s)
	}
}

func TestRecordJSON(t *testing.T) {
	rec := ActionRecord{Kind: EntityUpdated, EntityType: "farm", EntityID: 2, Before: Snapshot{"acres": 4.0}}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	var back ActionRecord
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.Before, rec.Before) || back.Kind != rec.Kind {
		t.Errorf("JSON round trip = %+v", back)
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		res  Result
		want string
	}{
		{Result{Record: ActionRecord{Kind: EntityCreated, EntityType: "farm", EntityID: 3}, Applied: true}, "removed farm #3"},
		{Result{Record: ActionRecord{Kind: EntityUpdated, EntityType: "user", EntityID: 1, Before: Snapshot{"a": 1, "b": 2}}, Applied: true}, "reverted 2 field(s) on user #1"},
		{Result{Record: ActionRecord{Kind: EntityDeleted, EntityType: "user", EntityID: 8}, Applied: true, Placeholders: []string{"password_hash"}}, "restored user #8 (secrets need re-issue)"},
		{Result{Err: errors.New(errors.ErrCodeNotFound, "no action available to undo")}, "undo failed: no action available to undo"},
	}
	for _, tt := range tests {
		if got := tt.res.Summary(); got != tt.want {
			t.Errorf("Summary() = %q, want %q", got, tt.want)
		}
	}
}
