package cgi

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sort"
)

// Process is one running CGI subprocess. The real implementation wraps
// os/exec; tests inject fakes to drive the lifecycle state machine without
// spawning anything.
type Process interface {
	Stdin() io.WriteCloser
	Stdout() io.Reader
	Stderr() io.Reader
	// Wait reaps the process after stdout is drained. A non-zero exit is
	// reported as an error exposing ExitCode() int.
	Wait() error
	// Kill terminates the process immediately. Wait must still be called
	// afterwards to reap it.
	Kill() error
}

// Starter launches a Process for an invocation.
type Starter func(inv Invocation) (Process, error)

type execProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser
}

// startProcess is the default Starter, backed by os/exec.
func startProcess(inv Invocation) (Process, error) {
	cmd := exec.Command(inv.Program)
	cmd.Dir = inv.Dir
	cmd.Env = envStrings(inv.Env)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd, stdin: stdin, stdout: stdout, stderr: stderr}, nil
}

func (p *execProcess) Stdin() io.WriteCloser { return p.stdin }
func (p *execProcess) Stdout() io.Reader     { return p.stdout }
func (p *execProcess) Stderr() io.Reader     { return p.stderr }
func (p *execProcess) Wait() error           { return p.cmd.Wait() }

func (p *execProcess) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}

// envStrings renders the environment map as sorted KEY=VALUE pairs, so the
// subprocess environment is deterministic for a given invocation.
func envStrings(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(out)
	return out
}

// exitCode extracts a process exit status from a Wait error.
// exec.ExitError satisfies the interface; fakes can too.
func exitCode(err error) (int, bool) {
	var ec interface{ ExitCode() int }
	if errors.As(err, &ec) {
		return ec.ExitCode(), true
	}
	return 0, false
}
