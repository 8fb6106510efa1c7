package undo

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/agrikit/pkg/errors"
	"github.com/matzehuels/agrikit/pkg/stack"
)

// PlaceholderSecret is written into secret fields that a deletion snapshot
// did not carry. Entities restored with it must have their secrets
// re-issued (for users: a password reset).
const PlaceholderSecret = "!reissue-required"

// DefaultSecretFields maps entity types to the fields treated as secrets
// when a manager is created without WithSecretFields.
var DefaultSecretFields = map[string][]string{
	"user": {"password_hash"},
}

// Persistence is the entity store an undo is written back to.
// Implementations live outside this package (see package store).
type Persistence interface {
	// Get returns the live state of an entity.
	Get(ctx context.Context, entityType string, id int64) (Snapshot, error)
	// Put replaces the stored state of an existing entity.
	Put(ctx context.Context, entityType string, id int64, state Snapshot) error
	// Delete removes an entity.
	Delete(ctx context.Context, entityType string, id int64) error
	// Create inserts an entity under an explicit id.
	Create(ctx context.Context, entityType string, id int64, state Snapshot) error
}

// Option configures a [Manager].
type Option func(*Manager)

// WithSecretFields sets the secret fields of one entity type, replacing any
// default for that type. Calling it with no fields clears the type.
func WithSecretFields(entityType string, fields ...string) Option {
	return func(m *Manager) {
		if len(fields) == 0 {
			delete(m.secretFields, entityType)
			return
		}
		m.secretFields[entityType] = slices.Clone(fields)
	}
}

// WithClock sets the time source used to stamp records pushed without a
// timestamp.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// Manager is the undo log. The zero value is not usable; use [New].
type Manager struct {
	log          *stack.Stack[ActionRecord]
	secretFields map[string][]string
	now          func() time.Time
}

// New creates an empty undo log.
func New(opts ...Option) *Manager {
	m := &Manager{
		log:          stack.New[ActionRecord](),
		secretFields: make(map[string][]string, len(DefaultSecretFields)),
		now:          time.Now,
	}
	for typ, fields := range DefaultSecretFields {
		m.secretFields[typ] = slices.Clone(fields)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Push appends rec to the top of the log and returns the stored copy, with
// ID and Timestamp filled in when they were zero. Push never fails.
func (m *Manager) Push(rec ActionRecord) ActionRecord {
	rec = rec.clone()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = m.now()
	}
	m.log.Push(rec)
	return rec
}

// Pop removes and returns the most recent record. ok is false when the log
// is empty.
func (m *Manager) Pop() (rec ActionRecord, ok bool) {
	return m.log.Pop()
}

// Peek returns a copy of the most recent record without removing it.
func (m *Manager) Peek() (ActionRecord, bool) {
	rec, ok := m.log.Peek()
	if !ok {
		return rec, false
	}
	return rec.clone(), true
}

// SecretFields returns the secret fields configured for entityType.
func (m *Manager) SecretFields(entityType string) []string {
	return slices.Clone(m.secretFields[entityType])
}

// Len returns the number of records in the log.
func (m *Manager) Len() int { return m.log.Len() }

// History returns copies of the logged records, most recent first.
func (m *Manager) History() []ActionRecord {
	items := m.log.Items()
	for i := range items {
		items[i] = items[i].clone()
	}
	return items
}

// Undo pops the most recent record and applies it. On an empty log the
// result carries a NOT_FOUND error and Applied is false.
func (m *Manager) Undo(ctx context.Context, p Persistence) Result {
	rec, ok := m.Pop()
	if !ok {
		return Result{Err: errors.New(errors.ErrCodeNotFound, "no action available to undo")}
	}
	return m.Apply(ctx, rec, p)
}
