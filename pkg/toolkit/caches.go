package toolkit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/agrikit/pkg/observability"
	"github.com/matzehuels/agrikit/pkg/undo"
)

// Cache names reported to observability hooks.
const (
	CacheUsers         = "users"
	CacheSessions      = "sessions"
	CacheNotifications = "notifications"
)

// Notification is one entry in the notification ring.
type Notification struct {
	ID      uuid.UUID `json:"id"`
	UserID  int64     `json:"user_id,omitempty"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Session is a logged-in user held in the session LRU.
type Session struct {
	Token  string    `json:"token"`
	UserID int64     `json:"user_id"`
	Role   string    `json:"role"`
	Since  time.Time `json:"since"`
}

// CacheUser stores a user profile.
func (t *Toolkit) CacheUser(ctx context.Context, id int64, profile undo.Snapshot) {
	t.usersMu.Lock()
	t.users.Set(id, profile.Clone())
	n := t.users.Len()
	t.usersMu.Unlock()

	observability.Cache().OnCacheSet(ctx, CacheUsers, n)
}

// CachedUser returns a copy of a cached profile.
func (t *Toolkit) CachedUser(ctx context.Context, id int64) (undo.Snapshot, bool) {
	t.usersMu.Lock()
	p, ok := t.users.Get(id)
	t.usersMu.Unlock()

	if !ok {
		observability.Cache().OnCacheMiss(ctx, CacheUsers)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, CacheUsers)
	return p.Clone(), true
}

// ForgetUser drops a cached profile, reporting whether it was present.
func (t *Toolkit) ForgetUser(id int64) bool {
	t.usersMu.Lock()
	defer t.usersMu.Unlock()
	return t.users.Delete(id)
}

// Notify appends n to the notification ring, overwriting the oldest entry
// when full. ID and At are filled in when empty.
func (t *Toolkit) Notify(ctx context.Context, n Notification) Notification {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.At.IsZero() {
		n.At = t.now()
	}

	t.notesMu.Lock()
	full := t.notes.Len() == t.notes.Cap()
	t.notes.Enqueue(n)
	size := t.notes.Len()
	t.notesMu.Unlock()

	if full {
		observability.Cache().OnCacheEvict(ctx, CacheNotifications)
	}
	observability.Cache().OnCacheSet(ctx, CacheNotifications, size)
	return n
}

// Notifications returns the ring contents, most recent first.
func (t *Toolkit) Notifications() []Notification {
	t.notesMu.Lock()
	defer t.notesMu.Unlock()
	return t.notes.Snapshot()
}

// StartSession caches s under its token, evicting the least recently used
// session when the LRU is full.
func (t *Toolkit) StartSession(ctx context.Context, s Session) {
	if s.Since.IsZero() {
		s.Since = t.now()
	}

	t.sessionsMu.Lock()
	evicted, ok := t.sessions.Put(s.Token, s)
	size := t.sessions.Len()
	t.sessionsMu.Unlock()

	if ok {
		t.Logger.Debug("session evicted", "token", redact(evicted))
		observability.Cache().OnCacheEvict(ctx, CacheSessions)
	}
	observability.Cache().OnCacheSet(ctx, CacheSessions, size)
}

// Session looks up a session and marks it most recently used.
func (t *Toolkit) Session(ctx context.Context, token string) (Session, bool) {
	t.sessionsMu.Lock()
	s, ok := t.sessions.Get(token)
	t.sessionsMu.Unlock()

	if ok {
		observability.Cache().OnCacheHit(ctx, CacheSessions)
	} else {
		observability.Cache().OnCacheMiss(ctx, CacheSessions)
	}
	return s, ok
}

// EndSession removes a session.
func (t *Toolkit) EndSession(token string) bool {
	t.sessionsMu.Lock()
	defer t.sessionsMu.Unlock()
	return t.sessions.Remove(token)
}

// ActiveSessions returns session tokens, most recently used first.
func (t *Toolkit) ActiveSessions() []string {
	t.sessionsMu.Lock()
	defer t.sessionsMu.Unlock()
	return t.sessions.Keys()
}

// redact keeps the first four characters of a token for logs.
func redact(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return token[:4] + "****"
}
