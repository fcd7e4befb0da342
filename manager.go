package regioncache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	c "github.com/unkn0wn-root/regioncache/codec"
	st "github.com/unkn0wn-root/regioncache/store"
)

// Template carries the shared construction defaults for regions on one
// store. A template plus a region name is everything New needs.
type Template struct {
	Store st.Store
	Codec c.Codec
	TTL   time.Duration

	Logger Logger
	Hooks  Hooks

	AlwaysFlush      bool
	DestructiveFlush bool
}

// Build constructs the region cache for name using the template's defaults.
func (t Template) Build(ctx context.Context, name string) (Cache, error) {
	return New(ctx, Options{
		Region:           name,
		Store:            t.Store,
		Codec:            t.Codec,
		TTL:              t.TTL,
		Logger:           t.Logger,
		Hooks:            t.Hooks,
		AlwaysFlush:      t.AlwaysFlush,
		DestructiveFlush: t.DestructiveFlush,
	})
}

// Manager is the name-to-region registry. It either serves a fixed set of
// regions built up front, or creates regions on demand from a default
// template the first time a name is requested.
type Manager struct {
	mu      sync.RWMutex
	caches  map[string]Cache
	dynamic *Template
}

// NewManager builds the named regions from tmpl. When names is empty, the
// template instead becomes the dynamic default and regions are created
// lazily by Cache.
func NewManager(ctx context.Context, tmpl Template, names ...string) (*Manager, error) {
	m := &Manager{caches: make(map[string]Cache, len(names))}
	for _, name := range names {
		if _, dup := m.caches[name]; dup {
			continue
		}
		rc, err := tmpl.Build(ctx, name)
		if err != nil {
			return nil, err
		}
		m.caches[name] = rc
	}
	if len(m.caches) == 0 {
		m.dynamic = &tmpl
	}
	return m, nil
}

// NewManagerFromTemplates builds one region per entry, each with its own
// template. At least one entry is required; the resulting manager is static.
func NewManagerFromTemplates(ctx context.Context, tmpls map[string]Template) (*Manager, error) {
	if len(tmpls) == 0 {
		return nil, fmt.Errorf("regioncache: at least one template is required")
	}
	m := &Manager{caches: make(map[string]Cache, len(tmpls))}
	for name, tmpl := range tmpls {
		rc, err := tmpl.Build(ctx, name)
		if err != nil {
			return nil, err
		}
		m.caches[name] = rc
	}
	return m, nil
}

// SetDefaultTemplate enables (or replaces) dynamic creation for names that
// were not built up front.
func (m *Manager) SetDefaultTemplate(tmpl Template) {
	m.mu.Lock()
	m.dynamic = &tmpl
	m.mu.Unlock()
}

// Cache returns the region for name. Unknown names are built from the
// default template when one is set; otherwise Cache returns (nil, nil) so
// callers can distinguish "not managed here" from construction failure.
func (m *Manager) Cache(ctx context.Context, name string) (Cache, error) {
	m.mu.RLock()
	rc, ok := m.caches[name]
	dynamic := m.dynamic
	m.mu.RUnlock()
	if ok {
		return rc, nil
	}
	if dynamic == nil {
		return nil, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if rc, ok := m.caches[name]; ok {
		// lost the build race to another caller
		return rc, nil
	}
	rc, err := dynamic.Build(ctx, name)
	if err != nil {
		return nil, err
	}
	m.caches[name] = rc
	return rc, nil
}

// Names lists the regions currently held, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.caches))
	for name := range m.caches {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
