// Package pkg provides the libraries behind agrikit, the data-structure
// toolkit and undo log of an agricultural-prediction backend.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Containers and algorithms: [ordering], [cache], [graph], [heap],
//     [stack] and [decision]. These are single-threaded value types that
//     never perform I/O.
//  2. Undo: [undo] records mutating admin actions and reverses the most
//     recent one through a [undo.Persistence] collaborator such as the
//     stores in [store].
//  3. Host wiring: [toolkit] owns the process-wide instances behind one
//     mutex each, configured from [config] and reporting through the
//     [observability] hooks.
//
// # Quick Start
//
// Sort market prices, search them, and keep a small undo log:
//
//	import (
//	    "github.com/matzehuels/agrikit/pkg/ordering"
//	    "github.com/matzehuels/agrikit/pkg/undo"
//	)
//
//	byPrice := ordering.Stable(prices, func(p Price) float64 { return p.Value }, false)
//	hits := ordering.Search(byName, "whe", func(p Price) string { return p.Name })
//
//	log := undo.New()
//	log.Push(undo.ActionRecord{Kind: undo.EntityUpdated, EntityType: "farm", EntityID: 7,
//	    Before: undo.Snapshot{"acres": 12}})
//	res := log.Undo(ctx, entities)
//
// Errors across packages carry a code from [errors] so callers can branch on
// [errors.ErrCodeNotFound] or [errors.ErrCodeRestorationFailed] without
// string matching.
//
// [ordering]: github.com/matzehuels/agrikit/pkg/ordering
// [cache]: github.com/matzehuels/agrikit/pkg/cache
// [graph]: github.com/matzehuels/agrikit/pkg/graph
// [heap]: github.com/matzehuels/agrikit/pkg/heap
// [stack]: github.com/matzehuels/agrikit/pkg/stack
// [decision]: github.com/matzehuels/agrikit/pkg/decision
// [undo]: github.com/matzehuels/agrikit/pkg/undo
// [undo.Persistence]: github.com/matzehuels/agrikit/pkg/undo#Persistence
// [store]: github.com/matzehuels/agrikit/pkg/store
// [toolkit]: github.com/matzehuels/agrikit/pkg/toolkit
// [config]: github.com/matzehuels/agrikit/pkg/config
// [observability]: github.com/matzehuels/agrikit/pkg/observability
// [errors]: github.com/matzehuels/agrikit/pkg/errors
// [errors.ErrCodeNotFound]: github.com/matzehuels/agrikit/pkg/errors#ErrCodeNotFound
// [errors.ErrCodeRestorationFailed]: github.com/matzehuels/agrikit/pkg/errors#ErrCodeRestorationFailed
package pkg
