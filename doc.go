// Package regioncache implements named cache regions on top of one shared
// document store, with per-region TTLs, atomic putIfAbsent, single-flight
// value loading, and region-scoped clearing that never disturbs other
// regions' data in the same store.
//
// Components:
//   - store.Store: the backing document store (Redis, SQLite, in-process).
//     Optional capability interfaces declare how a store can enumerate keys;
//     the engine classifies them once per region into a clearing strategy.
//   - codec.Codec: (de)serializes values <-> []byte (msgpack by default).
//   - Manager: the name→region registry, static or create-on-demand.
//
// Keys:
//
//	cache:<region>:<key> - both delimiters always present, so an empty
//	region name and name-prefix regions ("user" vs "users") stay disjoint.
//
// Clearing:
//
//	index-query - the store enumerates one region via a secondary index
//	scan-query  - the store enumerates via a declarative prefix scan
//	flush-only  - the store can only flush everything; Clear refuses to run
//	              unless the destructive opt-in is set
package regioncache
