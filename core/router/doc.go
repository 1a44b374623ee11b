// Package router maps an incoming request to a handling strategy: serve a
// static file, invoke a CGI program, redirect, or serve an error page.
//
// The route table is built once at startup and read-only thereafter, so
// Resolve is a pure function and needs no locking. Routes are tried in
// configuration order and the first match wins; explicit ordering is the
// contract, longest-prefix-first is deliberately not assumed.
package router
