// Package session is the per-visitor state behind the addon session, flash,
// and cookie stores.
//
// A Manager keeps sessions in memory keyed by a ULID session id. Each request
// calls Start, which returns the visitor's Session and ages its flash data by
// one request. Addon facades talk to a Session through the Backend interface,
// whose Update method gives them an atomic read-modify-write.
//
// Cookies are reached through a CookieJar: GinJar adapts a gin request, and
// MemoryJar serves tests and non-HTTP callers.
package session
