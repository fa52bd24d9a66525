package repository

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"sync"
	"testing"

	"github.com/supabase-community/postgrest-go"
)

type recordedRequest struct {
	Method string
	Table  string
	Query  url.Values
	Body   string
}

// fakePostgrest answers every request with the canned body for its
// method and table, and records what it received.
type fakePostgrest struct {
	mu        sync.Mutex
	responses map[string]string
	status    int
	requests  []recordedRequest
}

func newFakePostgrest(t *testing.T) (*fakePostgrest, *postgrest.Client) {
	t.Helper()
	f := &fakePostgrest{responses: map[string]string{}, status: http.StatusOK}
	server := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(server.Close)
	return f, postgrest.NewClient(server.URL, "public", nil)
}

func (f *fakePostgrest) on(method, table, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method+" "+table] = body
}

func (f *fakePostgrest) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakePostgrest) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	table := path.Base(r.URL.Path)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Table:  table,
		Query:  r.URL.Query(),
		Body:   string(body),
	})
	resp, ok := f.responses[r.Method+" "+table]
	status := f.status
	f.mu.Unlock()

	if !ok {
		resp = "[]"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp))
}

func decodeBody(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	var row map[string]interface{}
	if err := json.Unmarshal([]byte(body), &row); err != nil {
		t.Fatalf("decode body %q: %v", body, err)
	}
	return row
}
