package toolkit

import (
	"context"
	"time"

	"github.com/matzehuels/agrikit/pkg/errors"
	"github.com/matzehuels/agrikit/pkg/observability"
	"github.com/matzehuels/agrikit/pkg/undo"
)

// Record pushes an admin action onto the undo log.
func (t *Toolkit) Record(ctx context.Context, rec undo.ActionRecord) undo.ActionRecord {
	t.undoMu.Lock()
	stored := t.undo.Push(rec)
	depth := t.undo.Len()
	t.undoMu.Unlock()

	t.Logger.Debug("action recorded", "id", stored.ID, "action", stored.String(), "depth", depth)
	observability.Undo().OnPush(ctx, stored.Kind.String(), stored.EntityType, depth)
	return stored
}

// Undo reverses the most recent action against the toolkit's store.
//
// The undo lock is held while the store is written, so concurrent undos apply
// strictly in log order. A failed record is not put back.
func (t *Toolkit) Undo(ctx context.Context) undo.Result {
	t.undoMu.Lock()
	start := time.Now()
	res := t.undo.Undo(ctx, t.store)
	elapsed := time.Since(start)
	t.undoMu.Unlock()

	kind, typ := res.Record.Kind.String(), res.Record.EntityType
	switch {
	case res.Err != nil:
		t.Logger.Warn("undo failed", "id", res.Record.ID, "codes", errors.Codes(res.Err), "err", res.Err)
	case res.NeedsSecretReissue():
		t.Logger.Warn("entity restored with placeholder secrets",
			"entity", typ, "id", res.Record.EntityID, "fields", res.Placeholders)
	default:
		t.Logger.Info("undo applied", "action", res.Record.String())
	}
	if res.Record.Kind != 0 {
		observability.Undo().OnUndo(ctx, kind, typ, elapsed, res.Err)
	}

	// Cached profiles would otherwise serve the pre-undo state.
	if res.Applied && typ == "user" {
		t.ForgetUser(res.Record.EntityID)
	}
	return res
}

// UndoHistory returns the pending records, most recent first.
func (t *Toolkit) UndoHistory() []undo.ActionRecord {
	t.undoMu.Lock()
	defer t.undoMu.Unlock()
	return t.undo.History()
}

// SecretFields returns the secret fields configured for entityType.
func (t *Toolkit) SecretFields(entityType string) []string {
	t.undoMu.Lock()
	defer t.undoMu.Unlock()
	return t.undo.SecretFields(entityType)
}
