// Package ratelimiter throttles calling services with a token bucket.
//
// Each key gets a bucket holding up to Config.Capacity tokens, refilled by
// Config.RefillRate every Config.RefillInterval. A request takes one token;
// when none are left it is denied until the next refill.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, cfg)
//	if err != nil {
//		return err
//	}
//	r.Use(ratelimiter.Middleware(limiter,
//		ratelimiter.FirstOf(ratelimiter.ByCaller, ratelimiter.ByRemoteAddr),
//		respond,
//	))
//
// The middleware must run after auth.Middleware for ByCaller to see the
// identity. Denials reach the error responder as ErrLimitExceeded.
package ratelimiter
