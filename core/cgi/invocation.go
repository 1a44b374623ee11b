package cgi

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/webserv/core/httpx"
	"github.com/dmitrymomot/webserv/core/router"
)

// defaultPath is used for the subprocess PATH when the server's own
// environment does not carry one.
const defaultPath = "/usr/local/bin:/usr/bin:/bin"

// Invocation is the transient record for one CGI execution: the program,
// its fully constructed environment, the stdin payload, and the deadline.
// It is built per request and discarded after the subprocess terminates.
type Invocation struct {
	Program string
	Dir     string
	Env     map[string]string
	Stdin   []byte
	Timeout time.Duration
	// SessionToken identifies the session that X-Session-Set/-Unset output
	// directives apply to. Empty disables directive handling.
	SessionToken string
}

// NewInvocation builds the invocation for a routed CGI request. The
// environment is fully determined by the request, the route decision, and
// the executor's configuration; no ambient variable leaks through except
// PATH and the configured allowlist.
func (e *Executor) NewInvocation(req *httpx.Request, d router.InvokeCGI, sessionToken string) Invocation {
	proto := req.Proto
	if proto == "" {
		proto = "HTTP/1.1"
	}
	env := map[string]string{
		"GATEWAY_INTERFACE": "CGI/1.1",
		"SERVER_PROTOCOL":   proto,
		"SERVER_SOFTWARE":   e.software,
		"SERVER_NAME":       req.Header.Get("Host"),
		"REQUEST_METHOD":    string(req.Method),
		"SCRIPT_NAME":       d.ScriptName,
		"SCRIPT_FILENAME":   d.Program,
		"PATH_INFO":         d.PathInfo,
		"QUERY_STRING":      req.RawQuery,
	}

	if ip, port, err := net.SplitHostPort(req.RemoteAddr); err == nil {
		env["REMOTE_ADDR"] = ip
		env["REMOTE_PORT"] = port
	} else if req.RemoteAddr != "" {
		env["REMOTE_ADDR"] = req.RemoteAddr
	}

	if len(req.Body) > 0 || req.Header.Has("Content-Length") {
		env["CONTENT_LENGTH"] = strconv.Itoa(len(req.Body))
	}
	if ctype := req.ContentType(); ctype != "" {
		env["CONTENT_TYPE"] = ctype
	}

	// One HTTP_<NAME> variable per inbound header; duplicates are joined in
	// arrival order. Proxy is dropped to keep httpoxy out of scripts.
	seen := make(map[string]bool)
	for _, f := range req.Header.Fields() {
		name := strings.Map(upperCaseAndUnderscore, f.Name)
		if name == "PROXY" || seen[name] {
			continue
		}
		seen[name] = true
		sep := ", "
		if name == "COOKIE" {
			sep = "; "
		}
		env["HTTP_"+name] = strings.Join(req.Header.Values(f.Name), sep)
	}

	// PATH is always inherited; scripts routinely need it to find their
	// interpreter.
	if v, ok := e.lookupEnv("PATH"); ok && v != "" {
		env["PATH"] = v
	} else {
		env["PATH"] = defaultPath
	}
	for _, name := range e.inherit {
		if v, ok := e.lookupEnv(name); ok {
			env[name] = v
		}
	}

	return Invocation{
		Program:      d.Program,
		Dir:          d.Dir,
		Env:          env,
		Stdin:        req.Body,
		Timeout:      e.timeout,
		SessionToken: sessionToken,
	}
}

func upperCaseAndUnderscore(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return r - ('a' - 'A')
	case r == '-', r == '=':
		return '_'
	}
	return r
}
