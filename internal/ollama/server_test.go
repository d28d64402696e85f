package ollama

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// reservePorts binds listeners so the ports are occupied for the duration of
// the test.
func reservePorts(t *testing.T, start, count int) {
	t.Helper()

	for port := start; port < start+count; port++ {
		listener, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		require.NoError(t, err)
		t.Cleanup(func() { listener.Close() })
	}
}

// freeRange finds a window of ports the OS reports as free so the test can
// occupy a prefix of it.
func freeRange(t *testing.T, width int) int {
	t.Helper()

	for base := 42000; base < 43000; base += width {
		ok := true

		for port := base; port < base+width; port++ {
			listener, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
			if err != nil {
				ok = false
				break
			}
			listener.Close()
		}

		if ok {
			return base
		}
	}

	t.Skip("no free port window available")
	return 0
}

func TestFindAvailablePortSkipsOccupied(t *testing.T) {
	base := freeRange(t, 4)
	reservePorts(t, base, 2)

	port, err := FindAvailablePort(base, base+3)
	require.NoError(t, err)
	require.Equal(t, base+2, port)
}

func TestFindAvailablePortExhausted(t *testing.T) {
	base := freeRange(t, 1)
	reservePorts(t, base, 1)

	_, err := FindAvailablePort(base, base)
	require.ErrorIs(t, err, ErrPortExhausted)
}

func TestStopWithNoProcessIsIdempotent(t *testing.T) {
	server := NewServer("")

	require.NotPanics(t, func() {
		require.False(t, server.Stop())
		require.False(t, server.Stop())
	})
}

func TestStartFailureLeavesNoProcess(t *testing.T) {
	server := NewServer("/nonexistent/parlor-test-binary")

	err := server.Start(4242)
	require.Error(t, err)
	require.False(t, server.Running())
	require.False(t, server.Stop())
}

func TestGenerateSuccess(t *testing.T) {
	var gotPath string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"hello from the model"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 0)

	reply, err := client.Generate(context.Background(), "test-model", "a prompt", Options{})
	require.NoError(t, err)
	require.Equal(t, "hello from the model", reply)
	require.Equal(t, "/api/generate", gotPath)
}

func TestGenerateNon200IsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 0)

	_, err := client.Generate(context.Background(), "test-model", "a prompt", Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "model not loaded")
}
