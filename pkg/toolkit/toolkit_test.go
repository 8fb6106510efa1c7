package toolkit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/agrikit/pkg/config"
	"github.com/matzehuels/agrikit/pkg/errors"
	"github.com/matzehuels/agrikit/pkg/observability"
	"github.com/matzehuels/agrikit/pkg/store"
	"github.com/matzehuels/agrikit/pkg/undo"
)

func newTestToolkit(t *testing.T, mutate func(*config.Config), opts ...Option) *Toolkit {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	opts = append([]Option{WithLogger(log.New(io.Discard))}, opts...)
	tk, err := New(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { tk.Close() })
	return tk
}

type countingCacheHooks struct {
	observability.NoopCacheHooks
	mu                   sync.Mutex
	hits, misses, evicts map[string]int
}

func newCountingCacheHooks() *countingCacheHooks {
	return &countingCacheHooks{hits: map[string]int{}, misses: map[string]int{}, evicts: map[string]int{}}
}

func (c *countingCacheHooks) OnCacheHit(_ context.Context, name string) {
	c.mu.Lock()
	c.hits[name]++
	c.mu.Unlock()
}

func (c *countingCacheHooks) OnCacheMiss(_ context.Context, name string) {
	c.mu.Lock()
	c.misses[name]++
	c.mu.Unlock()
}

func (c *countingCacheHooks) OnCacheEvict(_ context.Context, name string) {
	c.mu.Lock()
	c.evicts[name]++
	c.mu.Unlock()
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.SessionCapacity = 0
	if _, err := New(context.Background(), cfg); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("New() error = %v, want INVALID_CONFIG", err)
	}
}

func TestSessionsEvictLeastRecentlyUsed(t *testing.T) {
	hooks := newCountingCacheHooks()
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	tk := newTestToolkit(t, func(c *config.Config) { c.Cache.SessionCapacity = 2 })

	tk.StartSession(ctx, Session{Token: "tok-a", UserID: 1})
	tk.StartSession(ctx, Session{Token: "tok-b", UserID: 2})
	if _, ok := tk.Session(ctx, "tok-a"); !ok {
		t.Fatal("tok-a should be cached")
	}
	tk.StartSession(ctx, Session{Token: "tok-c", UserID: 3})

	if _, ok := tk.Session(ctx, "tok-b"); ok {
		t.Error("tok-b should have been evicted")
	}
	if got := tk.ActiveSessions(); !slices.Equal(got, []string{"tok-c", "tok-a"}) {
		t.Errorf("ActiveSessions() = %v", got)
	}
	if hooks.evicts[CacheSessions] != 1 || hooks.hits[CacheSessions] != 1 || hooks.misses[CacheSessions] != 1 {
		t.Errorf("hooks hits=%v misses=%v evicts=%v", hooks.hits, hooks.misses, hooks.evicts)
	}
	if !tk.EndSession("tok-a") || tk.EndSession("tok-a") {
		t.Error("EndSession() should remove exactly once")
	}
}

func TestNotificationsRing(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	tk := newTestToolkit(t, func(c *config.Config) { c.Cache.NotificationCapacity = 3 }, WithClock(func() time.Time { return fixed }))

	for i := 1; i <= 5; i++ {
		tk.Notify(ctx, Notification{Kind: "price", Message: fmt.Sprintf("m%d", i)})
	}
	var msgs []string
	for _, n := range tk.Notifications() {
		msgs = append(msgs, n.Message)
		if !n.At.Equal(fixed) {
			t.Errorf("At = %v, want %v", n.At, fixed)
		}
	}
	if !slices.Equal(msgs, []string{"m5", "m4", "m3"}) {
		t.Errorf("Notifications() = %v", msgs)
	}
}

func TestUserCache(t *testing.T) {
	ctx := context.Background()
	tk := newTestToolkit(t, nil)

	profile := undo.Snapshot{"name": "Gita"}
	tk.CacheUser(ctx, 4, profile)
	profile["name"] = "mutated"

	got, ok := tk.CachedUser(ctx, 4)
	if !ok || got["name"] != "Gita" {
		t.Errorf("CachedUser() = %v, %v", got, ok)
	}
	if _, ok := tk.CachedUser(ctx, 5); ok {
		t.Error("CachedUser(5) should miss")
	}
	if !tk.ForgetUser(4) {
		t.Error("ForgetUser(4) should report true")
	}
}

func TestSearchRecordsQueries(t *testing.T) {
	ctx := context.Background()
	tk := newTestToolkit(t, func(c *config.Config) { c.Cache.RecentLimit = 2 })
	crops := []string{"bajra", "barley", "maize", "rice", "wheat"}

	if got := Search(ctx, tk, crops, "BA", strings.ToLower); !slices.Equal(got, []string{"bajra", "barley"}) {
		t.Errorf("prefix search = %v", got)
	}
	if got := Search(ctx, tk, crops, "ize", strings.ToLower); !slices.Equal(got, []string{"maize"}) {
		t.Errorf("substring search = %v", got)
	}
	Search(ctx, tk, crops, "", strings.ToLower)
	Search(ctx, tk, crops, "wh", strings.ToLower)

	if got := tk.RecentSearches(); !slices.Equal(got, []string{"wh", "ize"}) {
		t.Errorf("RecentSearches() = %v", got)
	}
}

func TestTopologySeedAndQueries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.json")
	seed := `{"nodes":[{"id":"hub"},{"id":"tower-1"}],"edges":[{"from":"hub","to":"tower-1","weight":1}]}`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	tk := newTestToolkit(t, func(c *config.Config) {
		c.Topology.File = path
		c.Topology.Edges = []config.EdgeConfig{{From: "tower-1", To: "field-7", Weight: 2}}
	})
	if err := tk.AddLink("hub", "field-7", 5); err != nil {
		t.Fatal(err)
	}
	if err := tk.AddDevice("isolated", nil); err != nil {
		t.Fatal(err)
	}

	if got := tk.Reachable("hub"); !slices.Equal(got, []string{"hub", "tower-1", "field-7"}) {
		t.Errorf("Reachable(hub) = %v", got)
	}
	path2, cost, ok := tk.Route("hub", "field-7")
	if !ok || cost != 3 || !slices.Equal(path2, []string{"hub", "tower-1", "field-7"}) {
		t.Errorf("Route() = %v, %v, %v", path2, cost, ok)
	}

	var buf bytes.Buffer
	if err := tk.WriteTopology(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"isolated"`) {
		t.Errorf("WriteTopology() missing isolated node: %s", buf.String())
	}
	if !strings.Contains(tk.TopologyDOT(), "graph") {
		t.Error("TopologyDOT() should produce a graph")
	}
}

func TestTopologySeedErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Topology.File = filepath.Join(t.TempDir(), "missing.json")
	if _, err := New(context.Background(), cfg, WithLogger(log.New(io.Discard))); err == nil {
		t.Error("New() should fail for a missing topology file")
	}
}

func TestUndoThroughToolkit(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	tk := newTestToolkit(t, nil, WithStore(mem))

	_ = mem.Create(ctx, "user", 9, undo.Snapshot{"name": "Hari", "status": "blocked"})
	tk.CacheUser(ctx, 9, undo.Snapshot{"name": "Hari", "status": "blocked"})

	tk.Record(ctx, undo.ActionRecord{Kind: undo.EntityDeleted, EntityType: "user", EntityID: 3, Before: undo.Snapshot{"name": "Isha"}})
	tk.Record(ctx, undo.ActionRecord{Kind: undo.EntityUpdated, EntityType: "user", EntityID: 9, Before: undo.Snapshot{"status": "active"}})

	if h := tk.UndoHistory(); len(h) != 2 || h[0].EntityID != 9 {
		t.Fatalf("UndoHistory() = %v", h)
	}

	res := tk.Undo(ctx)
	if res.Err != nil {
		t.Fatalf("Undo() error: %v", res.Err)
	}
	if _, ok := tk.CachedUser(ctx, 9); ok {
		t.Error("undo should invalidate the cached profile")
	}

	res = tk.Undo(ctx)
	if !res.NeedsSecretReissue() {
		t.Errorf("restored user should need a secret re-issue: %+v", res)
	}
	restored, err := mem.Get(ctx, "user", 3)
	if err != nil || restored["password_hash"] != undo.PlaceholderSecret {
		t.Errorf("restored user = %v, %v", restored, err)
	}

	if res := tk.Undo(ctx); !errors.Is(res.Err, errors.ErrCodeNotFound) {
		t.Errorf("Undo() on empty log = %+v", res)
	}
}

func TestSecretFieldsFromConfig(t *testing.T) {
	tk := newTestToolkit(t, func(c *config.Config) {
		c.Undo.SecretFields = map[string][]string{"api_client": {"client_secret"}}
	})
	if got := tk.SecretFields("api_client"); !slices.Equal(got, []string{"client_secret"}) {
		t.Errorf("SecretFields(api_client) = %v", got)
	}
	if got := tk.SecretFields("user"); len(got) != 0 {
		t.Errorf("SecretFields(user) = %v, want none", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	tk := newTestToolkit(t, func(c *config.Config) { c.Cache.SessionCapacity = 16 })

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				token := fmt.Sprintf("w%d-%d", w, i%20)
				tk.StartSession(ctx, Session{Token: token, UserID: int64(w)})
				tk.Session(ctx, token)
				tk.CacheUser(ctx, int64(i), undo.Snapshot{"w": w})
				tk.CachedUser(ctx, int64(i))
				tk.Notify(ctx, Notification{Kind: "load", Message: token})
				_ = tk.AddLink(fmt.Sprintf("n%d", w), fmt.Sprintf("n%d", i%8), 1)
				tk.Reachable("n0")
				tk.Record(ctx, undo.ActionRecord{Kind: undo.EntityCreated, EntityType: "farm", EntityID: int64(i + 1)})
			}
		}(w)
	}
	wg.Wait()

	if n := len(tk.ActiveSessions()); n != 16 {
		t.Errorf("ActiveSessions() = %d, want 16", n)
	}
	if n := len(tk.Notifications()); n != config.Default().Cache.NotificationCapacity {
		t.Errorf("Notifications() = %d", n)
	}
	if n := len(tk.UndoHistory()); n != 8*200 {
		t.Errorf("UndoHistory() = %d, want %d", n, 8*200)
	}
}
