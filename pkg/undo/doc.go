// Package undo implements the administrator undo log: a LIFO stack of
// [ActionRecord] values, each describing one mutation performed through the
// API, plus the per-kind logic that reverses a record against a
// [Persistence] collaborator.
//
// # Lifecycle
//
// A handler pushes a record right before or after it mutates an entity:
//
//	mgr.Push(undo.ActionRecord{
//	    Kind:       undo.EntityUpdated,
//	    EntityType: "user",
//	    EntityID:   7,
//	    Before:     undo.Snapshot{"status": "active"},
//	})
//
// Reversing is a pop followed by an apply:
//
//	rec, ok := mgr.Pop()
//	if ok {
//	    res := mgr.Apply(ctx, rec, store)
//	}
//
// [Manager.Undo] does both in one call.
//
// # Reversal rules
//
//   - [EntityUpdated]: every field present in Before is written back onto
//     the live entity; other fields are left untouched.
//   - [EntityCreated]: the entity is deleted.
//   - [EntityDeleted]: the entity is recreated from Before with its original
//     ID. Secret fields missing from the snapshot (a user's password_hash by
//     default) are filled with [PlaceholderSecret] and the result is flagged
//     with [Result.NeedsSecretReissue].
//
// # Single use
//
// A record leaves the stack before it is applied, so it is applied at most
// once. There is no redo stack. When the persistence collaborator fails, the
// [Result] carries a RESTORATION_FAILED error and the record is gone from
// the log; nothing is retried.
//
// # Concurrency
//
// Manager holds no lock. Hosts sharing one manager across goroutines wrap it
// (see package toolkit).
package undo
