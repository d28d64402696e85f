// Package ollama supervises a locally served inference process and speaks
// its HTTP generation API.
package ollama

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"
)

const (
	// stopGracePeriod is how long Stop waits for a graceful exit before
	// killing the process.
	stopGracePeriod = 5 * time.Second
)

// ErrPortExhausted is returned when no port in the probed range is free.
var ErrPortExhausted = errors.New("no available port")

// Server owns the lifecycle of one inference-server child process. A session
// holds exactly one Server and must stop it on every exit path.
type Server struct {
	bin string

	mu   sync.Mutex
	cmd  *exec.Cmd
	port int
}

func NewServer(bin string) *Server {
	if bin == "" {
		bin = "ollama"
	}

	return &Server{bin: bin}
}

// FindAvailablePort probes the inclusive range in ascending order with an
// exclusive bind-and-release and returns the first free port.
func FindAvailablePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		listener, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		if err != nil {
			continue
		}

		listener.Close()

		return port, nil
	}

	return 0, fmt.Errorf("range %d-%d: %w", start, end, ErrPortExhausted)
}

// Start launches the server process bound to 127.0.0.1:port, detached from
// the caller's stdio. Starting while a process is already owned is a caller
// error. A failed launch leaves no owned process.
func (s *Server) Start(port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return fmt.Errorf("server already running on port %d", s.port)
	}

	cmd := exec.Command(s.bin, "serve")
	cmd.Env = append(os.Environ(), "OLLAMA_HOST=127.0.0.1:"+strconv.Itoa(port))

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s serve on port %d: %w", s.bin, port, err)
	}

	s.cmd = cmd
	s.port = port
	slog.Info("inference server started", "port", port, "pid", cmd.Process.Pid)

	return nil
}

// Stop requests graceful termination, waits up to the grace period, then
// kills. It reports whether a process was actually stopped and is a no-op
// when nothing is owned.
func (s *Server) Stop() bool {
	s.mu.Lock()
	cmd := s.cmd
	s.cmd = nil
	s.port = 0
	s.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		slog.Info("no server process to stop")
		return false
	}

	_ = cmd.Process.Signal(syscall.SIGTERM)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-done:
	case <-time.After(stopGracePeriod):
		slog.Warn("server did not terminate gracefully, killing", "pid", cmd.Process.Pid)
		_ = cmd.Process.Kill()
		<-done
	}

	slog.Info("inference server stopped")

	return true
}

// Running reports whether the supervisor currently owns a process.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cmd != nil
}

// Port returns the port the owned process is bound to, or 0.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.port
}
