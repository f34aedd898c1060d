package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWebSocketServer(t *testing.T) {
	tests := []struct {
		name string
		addr string
	}{
		{name: "with default port", addr: ":8080"},
		{name: "with localhost and custom port", addr: "localhost:9000"},
		{name: "with empty address", addr: ""},
		{name: "with IP address", addr: "127.0.0.1:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector := NewEventCollector()
			dashboard := NewDashboardData("run-1")
			server := NewWebSocketServer(tt.addr, collector, dashboard)

			assert.NotNil(t, server)
			assert.Equal(t, tt.addr, server.addr)
			assert.Equal(t, collector, server.collector)
			assert.Equal(t, dashboard, server.dashboard)
			assert.NotNil(t, server.clients)
			assert.Empty(t, server.clients)
		})
	}
}

func TestWebSocketServer_Start(t *testing.T) {
	t.Run("starts and serves endpoints", func(t *testing.T) {
		collector := NewEventCollector()
		dashboard := NewDashboardData("run-1")

		// Find an available port
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		port := listener.Addr().(*net.TCPAddr).Port
		listener.Close()

		addr := fmt.Sprintf("127.0.0.1:%d", port)
		server := NewWebSocketServer(addr, collector, dashboard)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Start server in background
		serverErr := make(chan error, 1)
		go func() {
			serverErr <- server.Start(ctx)
		}()

		// Wait for server to start
		var connected bool
		for i := 0; i < 50; i++ {
			conn, err := net.Dial("tcp", addr)
			if err == nil {
				conn.Close()
				connected = true
				break
			}
			time.Sleep(20 * time.Millisecond)
		}
		require.True(t, connected, "server should be listening")

		// Test health endpoint
		resp, err := http.Get("http://" + addr + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		// Test dashboard endpoint
		resp, err = http.Get("http://" + addr + "/dashboard")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		// Test stats endpoint
		resp, err = http.Get("http://" + addr + "/stats")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		// Cancel and wait for shutdown
		cancel()
		select {
		case err := <-serverErr:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("server didn't shut down in time")
		}
	})

	t.Run("returns error for invalid address", func(t *testing.T) {
		collector := NewEventCollector()
		dashboard := NewDashboardData("run-1")
		server := NewWebSocketServer("invalid:address:format:99999", collector, dashboard)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		err := server.Start(ctx)
		assert.Error(t, err)
	})
}

func TestWebSocketServer_WS(t *testing.T) {
	collector := NewEventCollector()
	dashboard := NewDashboardData("run-1")
	server := NewWebSocketServer(":0", collector, dashboard)

	srv := httptest.NewServer(server.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	if resp != nil {
		resp.Body.Close()
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	// First message is the dashboard snapshot
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var snap DashboardSnapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, "run-1", snap.RunID)

	// Events emitted through the collector reach the client
	collector.EmitCaseStarted("smoke", "echo prints", "echo 42")

	_, data, err = conn.ReadMessage()
	require.NoError(t, err)

	var event RunEvent
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, EventCaseStarted, event.Type)
	assert.Equal(t, "smoke", event.Suite)
	assert.Equal(t, "echo prints", event.Case)
}

func TestWebSocketServer_handleDashboard(t *testing.T) {
	tests := []struct {
		name        string
		setupDash   func(*DashboardData)
		checkResult func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "returns empty dashboard",
			setupDash: func(d *DashboardData) {
				// No setup, empty dashboard
			},
			checkResult: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

				var snap DashboardSnapshot
				err := json.Unmarshal(rec.Body.Bytes(), &snap)
				require.NoError(t, err)
				assert.Equal(t, "running", snap.Status)
				assert.Empty(t, snap.Cases)
			},
		},
		{
			name: "returns dashboard with cases",
			setupDash: func(d *DashboardData) {
				d.UpdateFromEvent(RunEvent{
					Type:    EventCaseStarted,
					Suite:   "smoke",
					Case:    "echo prints",
					Command: "echo 42",
				})
				d.UpdateFromEvent(RunEvent{
					Type:       EventCasePassed,
					Suite:      "smoke",
					Case:       "echo prints",
					DurationMs: 15,
				})
			},
			checkResult: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)

				var snap DashboardSnapshot
				err := json.Unmarshal(rec.Body.Bytes(), &snap)
				require.NoError(t, err)
				assert.Len(t, snap.Cases, 1)
				assert.Equal(t, "passed", snap.Cases["smoke/echo prints"].Status)
				assert.Equal(t, 1, snap.Summary.Passed)
			},
		},
		{
			name: "returns dashboard with mixed statuses",
			setupDash: func(d *DashboardData) {
				d.UpdateFromEvent(RunEvent{Type: EventCasePassed, Suite: "smoke", Case: "pass"})
				d.UpdateFromEvent(RunEvent{Type: EventCaseFailed, Suite: "smoke", Case: "fail", Message: "boom"})
				d.UpdateFromEvent(RunEvent{Type: EventCaseSkipped, Suite: "smoke", Case: "skip"})
			},
			checkResult: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var snap DashboardSnapshot
				err := json.Unmarshal(rec.Body.Bytes(), &snap)
				require.NoError(t, err)
				assert.Equal(t, 3, snap.Summary.Total)
				assert.Equal(t, 1, snap.Summary.Passed)
				assert.Equal(t, 1, snap.Summary.Failed)
				assert.Equal(t, 1, snap.Summary.Skipped)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector := NewEventCollector()
			dashboard := NewDashboardData("run-1")
			tt.setupDash(dashboard)

			server := NewWebSocketServer(":0", collector, dashboard)

			req := httptest.NewRequest("GET", "/dashboard", nil)
			rec := httptest.NewRecorder()

			server.handleDashboard(rec, req)

			tt.checkResult(t, rec)
		})
	}
}

func TestWebSocketServer_handleStats(t *testing.T) {
	collector := NewEventCollector()
	dashboard := NewDashboardData("run-1")
	server := NewWebSocketServer(":0", collector, dashboard)

	collector.EmitCasePassed("smoke", "a", 3)
	collector.EmitCaseFailed("smoke", "b", "boom")

	req := httptest.NewRequest("GET", "/stats", nil)
	rec := httptest.NewRecorder()

	server.handleStats(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var stats CollectorStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Passed)
	assert.Equal(t, 1, stats.Failed)
}

func TestWebSocketServer_broadcast(t *testing.T) {
	t.Run("broadcasts to all clients", func(t *testing.T) {
		collector := NewEventCollector()
		dashboard := NewDashboardData("run-1")
		server := NewWebSocketServer(":0", collector, dashboard)

		// Add multiple clients
		ch1 := make(chan []byte, 32)
		ch2 := make(chan []byte, 32)
		ch3 := make(chan []byte, 32)

		server.mu.Lock()
		server.clients[ch1] = struct{}{}
		server.clients[ch2] = struct{}{}
		server.clients[ch3] = struct{}{}
		server.mu.Unlock()

		// Broadcast data
		testData := []byte(`{"event":"test"}`)
		server.broadcast(testData)

		// Verify all clients received the data
		for i, ch := range []chan []byte{ch1, ch2, ch3} {
			select {
			case data := <-ch:
				assert.Equal(t, testData, data)
			case <-time.After(100 * time.Millisecond):
				t.Fatalf("client %d didn't receive data", i+1)
			}
		}
	})

	t.Run("skips slow clients", func(t *testing.T) {
		collector := NewEventCollector()
		dashboard := NewDashboardData("run-1")
		server := NewWebSocketServer(":0", collector, dashboard)

		// Add a slow client with full buffer
		slowCh := make(chan []byte) // Unbuffered - will block
		fastCh := make(chan []byte, 32)

		server.mu.Lock()
		server.clients[slowCh] = struct{}{}
		server.clients[fastCh] = struct{}{}
		server.mu.Unlock()

		// Broadcast should not block even if slow client can't receive
		done := make(chan struct{})
		go func() {
			server.broadcast([]byte(`{"test":"data"}`))
			close(done)
		}()

		select {
		case <-done:
			// Success - broadcast completed without blocking
		case <-time.After(100 * time.Millisecond):
			t.Fatal("broadcast blocked on slow client")
		}

		// Fast client should have received the data
		select {
		case data := <-fastCh:
			assert.Equal(t, []byte(`{"test":"data"}`), data)
		default:
			t.Fatal("fast client didn't receive data")
		}
	})

	t.Run("handles no clients", func(t *testing.T) {
		collector := NewEventCollector()
		dashboard := NewDashboardData("run-1")
		server := NewWebSocketServer(":0", collector, dashboard)

		assert.NotPanics(t, func() {
			server.broadcast([]byte(`{"test":"data"}`))
		})
	})

	t.Run("concurrent broadcast and client modification", func(t *testing.T) {
		collector := NewEventCollector()
		dashboard := NewDashboardData("run-1")
		server := NewWebSocketServer(":0", collector, dashboard)

		var wg sync.WaitGroup

		// Spawn broadcasters
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					server.broadcast([]byte(fmt.Sprintf(`{"id":%d}`, i*100+j)))
				}
			}(i)
		}

		// Spawn client adders/removers
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					ch := make(chan []byte, 32)
					server.mu.Lock()
					server.clients[ch] = struct{}{}
					server.mu.Unlock()

					time.Sleep(time.Microsecond)

					server.mu.Lock()
					delete(server.clients, ch)
					server.mu.Unlock()
				}
			}()
		}

		wg.Wait()
	})
}

func TestWebSocketServer_MarshalError(t *testing.T) {
	collector := NewEventCollector()
	dashboard := NewDashboardData("run-1")
	server := NewWebSocketServer(":0", collector, dashboard)

	// Save original and restore after test
	originalMarshal := jsonMarshal
	t.Cleanup(func() { jsonMarshal = originalMarshal })

	// Inject a failing marshaler
	jsonMarshal = func(v interface{}) ([]byte, error) {
		return nil, assert.AnError
	}

	ch := make(chan []byte, 1)
	server.mu.Lock()
	server.clients[ch] = struct{}{}
	server.mu.Unlock()

	collector.EmitCaseStarted("smoke", "a", "echo 1")

	// The event is dropped, but the dashboard is still updated
	select {
	case <-ch:
		t.Fatal("marshal failure should not reach clients")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, "running", dashboard.Snapshot().Cases["smoke/a"].Status)
}
