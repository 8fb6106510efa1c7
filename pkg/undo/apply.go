package undo

import (
	"context"
	"fmt"

	"github.com/matzehuels/agrikit/pkg/errors"
)

// Result describes the outcome of applying one record.
type Result struct {
	Record  ActionRecord
	Applied bool

	// Restored is the entity state written back, nil for undone creations.
	Restored Snapshot

	// Placeholders lists secret fields filled with PlaceholderSecret.
	Placeholders []string

	// Err is set when nothing was restored. Its code is RESTORATION_FAILED
	// (or NOT_FOUND from Manager.Undo on an empty log).
	Err error
}

// NeedsSecretReissue reports whether the restored entity carries
// placeholder secrets.
func (r Result) NeedsSecretReissue() bool { return len(r.Placeholders) > 0 }

// Summary returns a one-line human description of the outcome.
func (r Result) Summary() string {
	if r.Err != nil {
		return fmt.Sprintf("undo failed: %s", errors.UserMessage(r.Err))
	}
	rec := r.Record
	switch rec.Kind {
	case EntityCreated:
		return fmt.Sprintf("removed %s #%d", rec.EntityType, rec.EntityID)
	case EntityUpdated:
		return fmt.Sprintf("reverted %d field(s) on %s #%d", len(rec.Before), rec.EntityType, rec.EntityID)
	default:
		if r.NeedsSecretReissue() {
			return fmt.Sprintf("restored %s #%d (secrets need re-issue)", rec.EntityType, rec.EntityID)
		}
		return fmt.Sprintf("restored %s #%d", rec.EntityType, rec.EntityID)
	}
}

// Apply reverses rec against p. rec is expected to have just been popped;
// Apply does not touch the log. Failures never panic: they are reported in
// Result.Err with code RESTORATION_FAILED.
func (m *Manager) Apply(ctx context.Context, rec ActionRecord, p Persistence) Result {
	res := Result{Record: rec}
	if err := validate(rec); err != nil {
		res.Err = errors.Wrap(errors.ErrCodeRestorationFailed, err, "invalid record %s", rec.ID)
		return res
	}

	var err error
	switch rec.Kind {
	case EntityUpdated:
		res.Restored, err = m.revertUpdate(ctx, rec, p)
	case EntityCreated:
		err = p.Delete(ctx, rec.EntityType, rec.EntityID)
	case EntityDeleted:
		res.Restored, res.Placeholders, err = m.recreate(ctx, rec, p)
	default:
		err = errors.New(errors.ErrCodeUnsupportedKind, "unsupported action kind %s", rec.Kind)
	}
	if err != nil {
		res.Restored, res.Placeholders = nil, nil
		res.Err = errors.Wrap(errors.ErrCodeRestorationFailed, err, "undo %s %s#%d", rec.Kind, rec.EntityType, rec.EntityID)
		return res
	}
	res.Applied = true
	return res
}

func validate(rec ActionRecord) error {
	if err := errors.ValidateEntityType(rec.EntityType); err != nil {
		return err
	}
	if err := errors.ValidateEntityID(rec.EntityID); err != nil {
		return err
	}
	for field := range rec.Before {
		if err := errors.ValidateFieldName(field); err != nil {
			return err
		}
	}
	if rec.Kind == EntityDeleted && len(rec.Before) == 0 {
		return errors.New(errors.ErrCodeInvalidRecord, "deletion record has no snapshot to restore")
	}
	return nil
}

// revertUpdate overwrites the fields present in Before onto the live entity.
func (m *Manager) revertUpdate(ctx context.Context, rec ActionRecord, p Persistence) (Snapshot, error) {
	live, err := p.Get(ctx, rec.EntityType, rec.EntityID)
	if err != nil {
		return nil, fmt.Errorf("read live entity: %w", err)
	}
	merged := live.Clone()
	if merged == nil {
		merged = Snapshot{}
	}
	for field, v := range rec.Before {
		merged[field] = cloneValue(v)
	}
	if err := p.Put(ctx, rec.EntityType, rec.EntityID, merged); err != nil {
		return nil, fmt.Errorf("write entity: %w", err)
	}
	return merged, nil
}

// recreate inserts the deleted entity from its snapshot under its original
// id, substituting placeholders for missing secret fields.
func (m *Manager) recreate(ctx context.Context, rec ActionRecord, p Persistence) (Snapshot, []string, error) {
	state := rec.Before.Clone()
	var placeholders []string
	for _, field := range m.secretFields[rec.EntityType] {
		if v, ok := state[field]; !ok || v == nil || v == "" {
			state[field] = PlaceholderSecret
			placeholders = append(placeholders, field)
		}
	}
	if err := p.Create(ctx, rec.EntityType, rec.EntityID, state); err != nil {
		return nil, nil, fmt.Errorf("recreate entity: %w", err)
	}
	return state, placeholders, nil
}
