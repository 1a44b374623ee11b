// Package server implements the connection loop: it accepts TCP
// connections, parses sequential HTTP/1.1 requests off each one, and drives
// every request through cookie extraction, session lookup, routing, and
// dispatch to a static file read, a CGI execution, or an error page.
//
// One goroutine serves each accepted connection, so CGI subprocess I/O never
// blocks unrelated connections. Requests on the same connection are answered
// strictly in arrival order; keep-alive is the HTTP/1.1 default and
// "Connection: close" is honored. Client socket deadlines are independent of
// the CGI deadline, so a slow client and a hung script are never conflated.
//
// The server loop is the single place that maps component errors to HTTP
// statuses and the only component that writes to the client socket. A panic
// in request handling is recovered into a best-effort 500 before the
// connection is closed; it never takes down the process.
package server
