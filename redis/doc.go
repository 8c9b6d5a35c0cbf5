// Package redis provides a Redis client component with connection pooling,
// lifecycle management, and health checks for finkit services.
//
// It wraps go-redis with finkit logging and configuration conventions. The
// response cache's Redis backend stores entries through TypedStore, a
// generic JSON-serialized get/set layer:
//
//	store := redis.NewTypedStore[cache.Entry](client, "finkit:cache")
//	store.Save(ctx, key, &entry, 30*time.Second)
//
// # Quick Start
//
//	cfg := redis.Config{Addr: "localhost:6379"}
//	component := redis.NewComponent(cfg, log)
package redis
