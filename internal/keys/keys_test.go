package keys

import (
	"strings"
	"testing"
)

func TestEncodeShape(t *testing.T) {
	if got := Encode("users", "42"); got != "cache:users:42" {
		t.Fatalf("Encode: got %q", got)
	}
	// Unnamed region keeps both delimiters.
	if got := Encode("", "42"); got != "cache::42" {
		t.Fatalf("Encode empty region: got %q", got)
	}
}

func TestRegionRoundTrip(t *testing.T) {
	for _, region := range []string{"users", "", "a:b", "session"} {
		k := Encode(region, "some-key")
		got, ok := Region(k)
		if !ok {
			t.Fatalf("Region(%q): not a cache key", k)
		}
		// "a:b" decodes as "a"; the delimiter is reserved, regions containing
		// it collapse to their first segment. Everything else round-trips.
		want, _, _ := strings.Cut(region, Delim)
		if got != want {
			t.Fatalf("Region(%q) = %q, want %q", k, got, want)
		}
	}
}

func TestRegionRejectsForeignKeys(t *testing.T) {
	for _, k := range []string{"user:1", "cache", "cachex:users:1", "unrelated"} {
		if _, ok := Region(k); ok {
			t.Fatalf("Region(%q) accepted a foreign key", k)
		}
	}
}

// A region whose name is a prefix of another must not match the other's keys.
func TestRegionPrefixNoCrossRegionMatch(t *testing.T) {
	p := RegionPrefix("user")
	other := Encode("users", "1")
	if strings.HasPrefix(other, p) {
		t.Fatalf("prefix %q matches foreign key %q", p, other)
	}
	own := Encode("user", "1")
	if !strings.HasPrefix(own, p) {
		t.Fatalf("prefix %q misses own key %q", p, own)
	}
}
