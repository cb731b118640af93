// Package requestid assigns every HTTP request a correlation id.
//
// The id is taken from the X-Request-ID header when it is well formed,
// generated otherwise, echoed in the response and exposed through
// FromContext and LoggerExtractor so log records carry it.
package requestid
