// Package fetchcache is the cached-fetch layer every read path goes through.
//
// A Store holds the latest successful value per key together with the time it
// was fetched, serialized as {"value": ..., "timestamp": <unix ms>} into any
// cache.Cache backend. A Fetcher wraps a Loader: it serves valid entries from
// the Store, otherwise calls the loader and records the result on success.
// Loader failures are returned in Result.Err and never replace a cached value.
//
// Staleness is decided at read time: an entry is valid iff now-timestamp < ttl.
// Nothing is evicted actively; backends may apply their own retention.
//
// Concurrent misses on the same key each call the loader unless the Fetcher
// was built WithDedup. Writes are last-write-wins, so when a Refetch races an
// in-flight Fetch the cache ends up holding whichever finished last.
package fetchcache
