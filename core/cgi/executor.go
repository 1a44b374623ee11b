package cgi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/webserv/core/httpx"
)

const (
	// DefaultTimeout bounds a CGI invocation when no explicit deadline is
	// configured.
	DefaultTimeout = 30 * time.Second

	// maxStderrBytes caps how much subprocess stderr is retained for logs.
	maxStderrBytes = 32 * 1024
)

// SessionWriter is the slice of the session store the executor needs to
// apply output directives. *session.Store satisfies it.
type SessionWriter interface {
	Update(token string, fn func(values map[string]string)) error
}

// Executor runs CGI programs. Safe for concurrent use; all per-request state
// lives in the Invocation.
type Executor struct {
	logger    *slog.Logger
	timeout   time.Duration
	software  string
	inherit   []string
	sessions  SessionWriter
	start     Starter
	lookupEnv func(string) (string, bool)
}

// Option configures the executor.
type Option func(*Executor)

// WithLogger sets the logger for subprocess stderr and failures.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTimeout sets the default per-invocation deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Executor) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// WithServerSoftware sets the SERVER_SOFTWARE value.
func WithServerSoftware(name string) Option {
	return func(e *Executor) {
		if name != "" {
			e.software = name
		}
	}
}

// WithInheritEnv allowlists ambient environment variables passed through to
// subprocesses in addition to PATH.
func WithInheritEnv(names ...string) Option {
	return func(e *Executor) {
		e.inherit = append(e.inherit, names...)
	}
}

// WithSessions wires the session store for X-Session-Set/-Unset directives.
func WithSessions(sessions SessionWriter) Option {
	return func(e *Executor) {
		e.sessions = sessions
	}
}

// WithStarter replaces the process launcher. Tests inject fakes here to
// exercise the lifecycle without real subprocesses.
func WithStarter(start Starter) Option {
	return func(e *Executor) {
		if start != nil {
			e.start = start
		}
	}
}

// New creates an executor with the given options applied over defaults.
func New(opts ...Option) *Executor {
	e := &Executor{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout:   DefaultTimeout,
		software:  "webserv",
		start:     startProcess,
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs one invocation to completion: spawn, feed stdin, drain
// stdout, parse the header block, reap. On deadline expiry the process is
// killed and reaped before ErrTimeout is returned, so no subprocess survives
// its request.
func (e *Executor) Execute(ctx context.Context, inv Invocation) (*httpx.Response, error) {
	timeout := inv.Timeout
	if timeout <= 0 {
		timeout = e.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	proc, err := e.start(inv)
	if err != nil {
		return nil, errors.Join(ErrSpawn, err)
	}

	// Stderr never reaches the client; it is drained concurrently and
	// surfaced in logs only.
	var stderr bytes.Buffer
	stderrDone := make(chan struct{})
	go func() {
		defer close(stderrDone)
		_, _ = io.Copy(&stderr, io.LimitReader(proc.Stderr(), maxStderrBytes))
		_, _ = io.Copy(io.Discard, proc.Stderr())
	}()

	// Stdin is written from its own goroutine while stdout is drained
	// below. Writing the body first and reading afterwards deadlocks as
	// soon as both payload and output exceed the OS pipe buffers.
	go func() {
		stdin := proc.Stdin()
		if len(inv.Stdin) > 0 {
			_, _ = stdin.Write(inv.Stdin)
		}
		_ = stdin.Close()
	}()

	type outcome struct {
		stdout  []byte
		readErr error
		waitErr error
	}
	done := make(chan outcome, 1)
	go func() {
		stdout, readErr := io.ReadAll(proc.Stdout())
		<-stderrDone
		done <- outcome{stdout: stdout, readErr: readErr, waitErr: proc.Wait()}
	}()

	var res outcome
	select {
	case <-ctx.Done():
		_ = proc.Kill()
		// Reap before returning: the timeout path must not leak zombies.
		<-done
		e.logStderr(inv, &stderr)
		return nil, ErrTimeout
	case res = <-done:
	}

	e.logStderr(inv, &stderr)

	resp, parseErr := parseOutput(res.stdout)
	if parseErr != nil || res.readErr != nil {
		if code, ok := exitCode(res.waitErr); ok && code != 0 {
			return nil, &ExitError{Code: code}
		}
		if res.readErr != nil {
			return nil, errors.Join(ErrMalformedOutput, res.readErr)
		}
		return nil, errors.Join(ErrMalformedOutput, parseErr)
	}

	if res.waitErr != nil {
		// Headers parsed fine; a late non-zero exit is logged, not fatal.
		e.logger.Warn("cgi process exited abnormally after output",
			slog.String("program", inv.Program),
			slog.Any("error", res.waitErr))
	}

	e.applyDirectives(inv, resp)
	return resp, nil
}

func (e *Executor) logStderr(inv Invocation, stderr *bytes.Buffer) {
	if stderr.Len() == 0 {
		return
	}
	e.logger.Warn("cgi stderr",
		slog.String("program", inv.Program),
		slog.String("stderr", stderr.String()))
}

// applyDirectives applies X-Session-Set and X-Session-Unset output headers
// to the invocation's session and strips them from the client response.
func (e *Executor) applyDirectives(inv Invocation, resp *httpx.Response) {
	if e.sessions == nil || inv.SessionToken == "" {
		return
	}
	sets := resp.Header.Values("X-Session-Set")
	unsets := resp.Header.Values("X-Session-Unset")
	if len(sets) == 0 && len(unsets) == 0 {
		return
	}
	resp.Header.Del("X-Session-Set")
	resp.Header.Del("X-Session-Unset")

	err := e.sessions.Update(inv.SessionToken, func(values map[string]string) {
		for _, directive := range sets {
			if key, value, ok := strings.Cut(directive, "="); ok {
				values[strings.TrimSpace(key)] = strings.TrimSpace(value)
			}
		}
		for _, key := range unsets {
			delete(values, strings.TrimSpace(key))
		}
	})
	if err != nil {
		e.logger.Warn("cgi session directive dropped",
			slog.String("program", inv.Program),
			slog.Any("error", err))
	}
}

// parseOutput splits CGI stdout into a header block terminated by a blank
// line and a verbatim body. A Status header overrides the default 200. Lines
// may end in LF or CRLF.
func parseOutput(raw []byte) (*httpx.Response, error) {
	resp := httpx.NewResponse(http.StatusOK)

	rest := raw
	terminated := false
	for {
		line, remainder, found := bytes.Cut(rest, []byte{'\n'})
		if !found {
			break
		}
		rest = remainder
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(line) == 0 {
			terminated = true
			break
		}

		name, value, ok := strings.Cut(string(line), ":")
		if !ok {
			return nil, fmt.Errorf("bogus header line %q", line)
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)

		if strings.EqualFold(name, "Status") {
			token, _, _ := strings.Cut(value, " ")
			code, err := strconv.Atoi(token)
			if err != nil || code < 100 || code > 599 {
				return nil, fmt.Errorf("bogus status %q", value)
			}
			resp.StatusCode = code
			continue
		}
		resp.Header.Add(name, value)
	}

	if !terminated {
		return nil, errors.New("header block not terminated by blank line")
	}

	resp.Body = rest
	return resp, nil
}
