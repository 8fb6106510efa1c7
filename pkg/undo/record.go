package undo

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Kind is the type of mutation an [ActionRecord] describes.
type Kind int

const (
	// EntityCreated records that an entity was created; undo deletes it.
	EntityCreated Kind = iota + 1
	// EntityUpdated records a field update; undo writes Before back.
	EntityUpdated
	// EntityDeleted records a deletion; undo recreates the entity from Before.
	EntityDeleted
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case EntityCreated:
		return "created"
	case EntityUpdated:
		return "updated"
	case EntityDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind is the inverse of [Kind.String].
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "created":
		return EntityCreated, true
	case "updated":
		return EntityUpdated, true
	case "deleted":
		return EntityDeleted, true
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("unknown action kind %q", b)
	}
	*k = parsed
	return nil
}

// Snapshot is the field-level state of one entity, keyed by field name.
type Snapshot map[string]any

// Clone returns a deep copy of s. Nested maps and slices are copied;
// other values are copied by assignment.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = cloneValue(inner)
		}
		return m
	case Snapshot:
		return t.Clone()
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = cloneValue(inner)
		}
		return s
	default:
		return v
	}
}

// Fields returns the snapshot's field names.
func (s Snapshot) Fields() []string {
	return slices.Sorted(maps.Keys(s))
}

// ActionRecord describes one mutation so that it can be reversed later.
// Records are immutable once pushed: the manager keeps its own copy of the
// snapshots.
type ActionRecord struct {
	// ID correlates the record in logs. Assigned on push when zero.
	ID          uuid.UUID `json:"id"`
	Kind        Kind      `json:"kind"`
	EntityType  string    `json:"entity_type"`
	EntityID    int64     `json:"entity_id"`
	Before      Snapshot  `json:"before_state,omitempty"` // full snapshot for deletes, changed fields for updates
	After       Snapshot  `json:"after_hint,omitempty"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// String returns a short log-friendly description.
func (r ActionRecord) String() string {
	if r.Description != "" {
		return fmt.Sprintf("%s %s#%d: %s", r.Kind, r.EntityType, r.EntityID, r.Description)
	}
	return fmt.Sprintf("%s %s#%d", r.Kind, r.EntityType, r.EntityID)
}

func (r ActionRecord) clone() ActionRecord {
	r.Before = r.Before.Clone()
	r.After = r.After.Clone()
	return r
}

