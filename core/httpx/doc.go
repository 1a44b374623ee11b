// Package httpx defines the HTTP/1.1 wire types shared by the router, the CGI
// executor, and the server loop: requests, responses, and an ordered
// case-insensitive header. It also implements request framing (request line,
// header block, Content-Length body) over a bufio.Reader and response
// serialization back onto the wire.
//
// The package is deliberately transport-free: it never touches a net.Conn
// directly, which keeps parsing and serialization testable against plain
// byte buffers.
package httpx
