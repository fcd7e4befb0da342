package regioncache

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestManagerStaticSet(t *testing.T) {
	ctx := context.Background()
	tmpl := Template{Store: &indexStore{memStore: newMemStore()}, TTL: time.Minute}

	m, err := NewManager(ctx, tmpl, "users", "orders", "users") // duplicate ignored
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	if got := m.Names(); !reflect.DeepEqual(got, []string{"orders", "users"}) {
		t.Fatalf("Names() = %v", got)
	}

	rc, err := m.Cache(ctx, "users")
	if err != nil || rc == nil {
		t.Fatalf("Cache(users): rc=%v err=%v", rc, err)
	}
	if rc.Name() != "users" || rc.TTL() != time.Minute {
		t.Fatalf("built region: name=%q ttl=%v", rc.Name(), rc.TTL())
	}

	// Static manager: unknown names are not created.
	if rc, err := m.Cache(ctx, "sessions"); err != nil || rc != nil {
		t.Fatalf("static manager built unknown region: rc=%v err=%v", rc, err)
	}
}

func TestManagerDynamicCreation(t *testing.T) {
	ctx := context.Background()
	tmpl := Template{Store: &indexStore{memStore: newMemStore()}}

	// No initial names: the template becomes the dynamic default.
	m, err := NewManager(ctx, tmpl)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	rc, err := m.Cache(ctx, "sessions")
	if err != nil || rc == nil {
		t.Fatalf("dynamic Cache: rc=%v err=%v", rc, err)
	}

	// Same instance on repeat requests.
	again, err := m.Cache(ctx, "sessions")
	if err != nil || again != rc {
		t.Fatalf("dynamic Cache not memoized")
	}
	if got := m.Names(); !reflect.DeepEqual(got, []string{"sessions"}) {
		t.Fatalf("Names() = %v", got)
	}
}

func TestManagerSetDefaultTemplate(t *testing.T) {
	ctx := context.Background()
	tmpl := Template{Store: &indexStore{memStore: newMemStore()}}

	m, err := NewManager(ctx, tmpl, "fixed")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if rc, _ := m.Cache(ctx, "extra"); rc != nil {
		t.Fatalf("unexpected dynamic creation before SetDefaultTemplate")
	}

	m.SetDefaultTemplate(Template{Store: &scanStore{memStore: newMemStore()}, TTL: time.Hour})
	rc, err := m.Cache(ctx, "extra")
	if err != nil || rc == nil {
		t.Fatalf("Cache after SetDefaultTemplate: rc=%v err=%v", rc, err)
	}
	if rc.TTL() != time.Hour || rc.Strategy() != StrategyScanQuery {
		t.Fatalf("dynamic region ignored the new template: ttl=%v strategy=%v", rc.TTL(), rc.Strategy())
	}
}

func TestManagerFromTemplates(t *testing.T) {
	ctx := context.Background()

	if _, err := NewManagerFromTemplates(ctx, nil); err == nil {
		t.Fatalf("expected error for empty template map")
	}

	m, err := NewManagerFromTemplates(ctx, map[string]Template{
		"hot":  {Store: &indexStore{memStore: newMemStore()}, TTL: time.Minute},
		"cold": {Store: &scanStore{memStore: newMemStore()}, TTL: time.Hour},
	})
	if err != nil {
		t.Fatalf("NewManagerFromTemplates: %v", err)
	}

	hot, _ := m.Cache(ctx, "hot")
	cold, _ := m.Cache(ctx, "cold")
	if hot.TTL() != time.Minute || cold.TTL() != time.Hour {
		t.Fatalf("per-region templates not honored: hot=%v cold=%v", hot.TTL(), cold.TTL())
	}
	if hot.Strategy() != StrategyIndexQuery || cold.Strategy() != StrategyScanQuery {
		t.Fatalf("per-region strategies: hot=%v cold=%v", hot.Strategy(), cold.Strategy())
	}
}
