// Package keys defines the storage-key shape shared by the cache engine and
// the store drivers that enumerate keys by region.
//
// Every entry written by regioncache uses the fully-qualified form
//
//	cache:<region>:<key>
//
// The prefix and both delimiters are always present, even for an unnamed
// region (cache::<key>). Enumerating a region therefore matches on
// "cache:<region>:" including the trailing delimiter, so a region whose name
// is a prefix of another ("user" vs "users") never captures foreign keys.
package keys

import "strings"

const (
	// Prefix tags every key owned by regioncache inside a shared store.
	Prefix = "cache"
	// Delim separates the prefix, the region name and the caller's key.
	Delim = ":"
)

// Encode builds the storage key for (region, key). Region may be empty;
// the delimiter is emitted regardless.
func Encode(region, key string) string {
	return Prefix + Delim + region + Delim + key
}

// RegionPrefix returns the enumeration prefix for a region, trailing
// delimiter included.
func RegionPrefix(region string) string {
	return Prefix + Delim + region + Delim
}

// Region recovers the region name from a storage key. The second return is
// false when the key does not have the regioncache shape (foreign data in a
// shared store).
func Region(storageKey string) (string, bool) {
	rest, ok := strings.CutPrefix(storageKey, Prefix+Delim)
	if !ok {
		return "", false
	}
	region, _, ok := strings.Cut(rest, Delim)
	if !ok {
		return "", false
	}
	return region, true
}
