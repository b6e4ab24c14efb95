// Package memory provides the TTL key/value stores behind cart snapshots.
//
// Two implementations satisfy Memory:
//
//   - InMemoryStore keeps values in a map and evicts them lazily on read.
//   - RedisMemory stores values under "<namespace>:<key>" in Redis, so a
//     restarted CLI or a second process sees the same snapshot.
//
// Values are opaque bytes; callers choose the encoding. Get returns an error
// wrapping ErrNotFound for missing or expired keys.
package memory
