package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	internalhttp "github.com/fivetwenty-io/acsf-client/internal/http"
	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

// newTestClient starts a server for handler and returns a client rooted at it
// whose sleeper only records the requested delays.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recordingSleeper) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sleeper := &recordingSleeper{}
	client := NewWithHTTPClient(internalhttp.NewClient(server.URL+"/api", nil), nil, nil)
	client.sleeper = sleeper

	return client, sleeper
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("encoding response: %v", err)
	}
}

func readJSON(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Errorf("decoding request: %v", err)
	}

	return body
}

type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
	err    error
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if s.err != nil {
		return s.err
	}

	s.delays = append(s.delays, d)

	return nil
}

func (s *recordingSleeper) calls() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]time.Duration(nil), s.delays...)
}

// scriptedHandle replays status snapshots in order, repeating the last one.
type scriptedHandle struct {
	snapshots []acsf.StatusSnapshot
	errs      map[int]error
	polls     int
}

func (h *scriptedHandle) EndpointName() string { return "Task" }

func (h *scriptedHandle) ID() int { return 1 }

func (h *scriptedHandle) Status(_ context.Context) (acsf.StatusSnapshot, error) {
	poll := h.polls
	h.polls++

	if err, ok := h.errs[poll]; ok {
		return nil, err
	}

	if poll >= len(h.snapshots) {
		return h.snapshots[len(h.snapshots)-1], nil
	}

	return h.snapshots[poll], nil
}

func (h *scriptedHandle) WaitUntilDone(context.Context, int, acsf.TickFunc, string) (int, error) {
	return 0, nil
}

func statuses(codes ...acsf.StatusCode) []acsf.StatusSnapshot {
	snapshots := make([]acsf.StatusSnapshot, len(codes))
	for i, code := range codes {
		snapshots[i] = acsf.StatusSnapshot{"status": json.Number(strconv.Itoa(int(code)))}
	}

	return snapshots
}
