// Package cgi executes external CGI programs: one subprocess per matched
// request, fed a deterministic CGI/1.1 environment plus the request body on
// stdin, with its stdout parsed back into an HTTP response.
//
// The executor owns the whole subprocess lifecycle: spawn, concurrent stdin
// write and stdout drain (sequential write-then-read deadlocks on full pipe
// buffers), deadline enforcement with kill-then-reap so no zombies survive a
// timeout, and exit status inspection. Stderr is captured and surfaced only
// in server logs, never in the client response.
//
// The environment is fully determined by the request and configuration; the
// ambient process environment never leaks through except an explicit
// allowlist (PATH, plus anything configured via WithInheritEnv).
//
// Process spawning goes through the Process/Starter abstraction so the
// lifecycle state machine is unit-testable without real subprocesses:
//
//	exec := cgi.New(
//		cgi.WithTimeout(30*time.Second),
//		cgi.WithSessions(store),
//		cgi.WithLogger(log),
//	)
//	resp, err := exec.Execute(ctx, exec.NewInvocation(req, decision, token))
package cgi
