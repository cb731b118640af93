// Package core defines the operational error type shared by the HTTP layer.
//
// An AppError carries the HTTP status, a stable machine-readable code and a
// message that is safe to show to callers. Domain packages keep their own
// sentinel errors; the HTTP boundary maps them to AppError values, and the
// error handler renders any AppError found in the chain as-is.
package core
