// Package toolkit owns the process-wide agrikit instances: the user profile
// cache, the notification ring, the session LRU, the recent-search list, the
// network topology, and the admin undo log.
//
// The containers in pkg/cache, pkg/graph and pkg/undo are single-threaded.
// A [Toolkit] guards each instance with its own mutex, so traffic on the
// session cache never waits on an undo that is writing to Redis. It also
// emits observability hooks and debug logs for the operations it runs.
package toolkit

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/agrikit/pkg/cache"
	"github.com/matzehuels/agrikit/pkg/config"
	"github.com/matzehuels/agrikit/pkg/graph"
	"github.com/matzehuels/agrikit/pkg/store"
	"github.com/matzehuels/agrikit/pkg/undo"
)

// Option configures a [Toolkit].
type Option func(*Toolkit)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(t *Toolkit) {
		if l != nil {
			t.Logger = l
		}
	}
}

// WithStore sets the entity store undo writes to, overriding the configured
// backend. The toolkit does not close a store passed this way.
func WithStore(p undo.Persistence) Option {
	return func(t *Toolkit) { t.store = p }
}

// WithClock sets the time source for notifications, sessions and undo
// records.
func WithClock(now func() time.Time) Option {
	return func(t *Toolkit) {
		if now != nil {
			t.now = now
		}
	}
}

// WithTopology starts the network from g instead of config.Topology.File.
// Edges from config.Topology.Edges are still added. The toolkit takes
// ownership of g.
func WithTopology(g *graph.Graph) Option {
	return func(t *Toolkit) { t.topology = g }
}

// Toolkit is safe for concurrent use.
type Toolkit struct {
	Logger *log.Logger

	cfg config.Config
	now func() time.Time

	usersMu sync.Mutex
	users   *cache.HashTable[int64, undo.Snapshot]

	notesMu sync.Mutex
	notes   *cache.Ring[Notification]

	sessionsMu sync.Mutex
	sessions   *cache.LRU[string, Session]

	recentMu sync.Mutex
	recent   *cache.Recent[string]

	topoMu   sync.RWMutex
	topology *graph.Graph

	undoMu sync.Mutex
	undo   *undo.Manager

	store  undo.Persistence
	closer io.Closer // set when the toolkit opened the store itself
}

// New builds a toolkit from cfg. The topology is seeded from
// cfg.Topology, and the configured store backend is opened unless
// WithStore was given.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*Toolkit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Toolkit{
		Logger:   log.Default(),
		cfg:      cfg,
		now:      time.Now,
		users:    cache.NewHashTable[int64, undo.Snapshot](cfg.Cache.UserBuckets),
		notes:    cache.NewRing[Notification](cfg.Cache.NotificationCapacity),
		sessions: cache.NewLRU[string, Session](cfg.Cache.SessionCapacity),
		recent:   cache.NewRecent[string](cfg.Cache.RecentLimit),
	}
	for _, opt := range opts {
		opt(t)
	}

	undoOpts := []undo.Option{undo.WithClock(t.now)}
	for typ := range undo.DefaultSecretFields {
		if _, ok := cfg.Undo.SecretFields[typ]; !ok {
			undoOpts = append(undoOpts, undo.WithSecretFields(typ))
		}
	}
	for typ, fields := range cfg.Undo.SecretFields {
		undoOpts = append(undoOpts, undo.WithSecretFields(typ, fields...))
	}
	t.undo = undo.New(undoOpts...)

	topo, err := seedTopology(t.topology, cfg.Topology)
	if err != nil {
		return nil, err
	}
	t.topology = topo

	if t.store == nil {
		if err := t.openStore(ctx); err != nil {
			return nil, err
		}
	}

	t.Logger.Debug("toolkit ready",
		"user_buckets", cfg.Cache.UserBuckets,
		"sessions", cfg.Cache.SessionCapacity,
		"topology_nodes", topo.NodeCount(),
		"store", cfg.Store.Backend)
	return t, nil
}

func (t *Toolkit) openStore(ctx context.Context) error {
	switch t.cfg.Store.Backend {
	case "redis":
		rs, err := store.NewRedisStore(ctx, t.cfg.Store.RedisURL, t.cfg.Store.KeyPrefix)
		if err != nil {
			return err
		}
		t.store, t.closer = rs, rs
	default:
		t.store = store.NewMemoryStore()
	}
	return nil
}

func seedTopology(g *graph.Graph, tc config.TopologyConfig) (*graph.Graph, error) {
	if g == nil && tc.File != "" {
		loaded, err := graph.ReadTopologyFile(tc.File)
		if err != nil {
			return nil, fmt.Errorf("load topology: %w", err)
		}
		g = loaded
	}
	if g == nil {
		g = graph.New()
	}
	for _, e := range tc.Edges {
		if err := g.AddEdge(e.From, e.To, e.Weight); err != nil {
			return nil, fmt.Errorf("seed edge %s-%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// Config returns the configuration the toolkit was built with.
func (t *Toolkit) Config() config.Config { return t.cfg }

// Store returns the entity store undo writes to.
func (t *Toolkit) Store() undo.Persistence { return t.store }

// Close releases the store if the toolkit opened it.
func (t *Toolkit) Close() error {
	if t.closer == nil {
		return nil
	}
	return t.closer.Close()
}
