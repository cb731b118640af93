// Package binder decodes HTTP request bodies into typed request structs.
//
// BindJSON enforces an application/json content type, a body size limit and
// strict decoding: unknown fields and trailing data are rejected. Every
// failure wraps one of the package sentinel errors so the error handler can
// answer with a 4xx response.
package binder
