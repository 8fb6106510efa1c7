// Package store implements [undo.Persistence] backends: an in-memory store
// for tests and the CLI, and a Redis store for shared deployments.
//
// Entities are addressed by (entity type, id) and stored as JSON objects.
// Both backends share the same semantics:
//
//   - Get and Put on a missing entity fail with ENTITY_NOT_FOUND
//   - Delete of a missing entity fails with ENTITY_NOT_FOUND
//   - Create of an existing entity fails with INVALID_INPUT
package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/agrikit/pkg/errors"
	"github.com/matzehuels/agrikit/pkg/undo"
)

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "agrikit"

var (
	_ undo.Persistence = (*MemoryStore)(nil)
	_ undo.Persistence = (*RedisStore)(nil)
)

// Key returns the storage key of an entity: "<prefix>:entity:<type>:<id>".
func Key(prefix, entityType string, id int64) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s:entity:%s:%d", prefix, entityType, id)
}

// ParseKey is the inverse of [Key].
func ParseKey(prefix, key string) (entityType string, id int64, ok bool) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	rest, found := strings.CutPrefix(key, prefix+":entity:")
	if !found {
		return "", 0, false
	}
	i := strings.LastIndexByte(rest, ':')
	if i <= 0 {
		return "", 0, false
	}
	id, err := strconv.ParseInt(rest[i+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return rest[:i], id, true
}

func notFound(entityType string, id int64) error {
	return errors.New(errors.ErrCodeEntityNotFound, "%s #%d not found", entityType, id)
}

func exists(entityType string, id int64) error {
	return errors.New(errors.ErrCodeInvalidInput, "%s #%d already exists", entityType, id)
}

// Stats summarizes a store's contents.
type Stats struct {
	Entities int            // total entities
	ByType   map[string]int // entities per type
}
