// Package environment propagates the deployment environment (development,
// staging, production) through context.Context and HTTP requests.
//
// The HTTP error handler uses it to decide whether internal error details may
// be shown to the caller, and the logger uses it to tag records:
//
//	env := environment.Parse(cfg.Env)
//	r.Use(environment.Middleware(env))
//
//	if environment.IsProduction(ctx) {
//	    // hide internals
//	}
package environment
