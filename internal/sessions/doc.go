// Package sessions maps opaque bearer tokens to usernames.
//
// A [Store] is constructed once at startup and injected into the services and the auth middleware.
// [MemoryStore] keeps sessions in process memory and loses them on restart. [RedisStore] keeps them in Redis
// so they survive restarts and can be shared between processes.
// Sessions never expire; they end only when revoked.
package sessions
