package http

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sjzar/procwatch/internal/proc"
	"github.com/sjzar/procwatch/internal/state"
)

type testConfig struct{}

func (testConfig) GetHTTPAddr() string { return "127.0.0.1:0" }

func newTestService(records ...proc.Record) (*Service, *state.Store) {
	st := state.New(state.Ascending)
	st.Reload(proc.Snapshot{Records: records})
	store := state.NewStore(st)
	return NewService(testConfig{}, store), store
}

func do(t *testing.T, h http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestProcesses(t *testing.T) {
	svc, store := newTestService(
		proc.Record{PID: 20, Name: "bash", CPUTicks: 7, MemoryBytes: 4096, CPUPercent: 1.5},
		proc.Record{PID: 3, Name: "init", CPUTicks: 100, MemoryBytes: 8192},
	)
	_ = store.Update(func(s *state.State) error {
		s.SortDescending()
		return nil
	})

	w := do(t, svc.Handler(), http.MethodGet, "/processes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type = %q", ct)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Errorf("missing request id")
	}

	var got []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records", len(got))
	}
	first := got[0]
	for _, key := range []string{"pid", "name", "cpu_time", "memory", "cpu_percent"} {
		if _, ok := first[key]; !ok {
			t.Errorf("record missing %q: %v", key, first)
		}
	}
	if first["pid"].(float64) != 20 || first["cpu_percent"].(float64) != 1.5 {
		t.Errorf("first record = %v, want pid 20 in projection order", first)
	}
}

func TestProcessesEmpty(t *testing.T) {
	svc, _ := newTestService()
	w := do(t, svc.Handler(), http.MethodGet, "/processes", nil)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("empty list = %d %q, want 200 []", w.Code, w.Body.String())
	}
}

func TestProcessesFollowsFilter(t *testing.T) {
	svc, store := newTestService(
		proc.Record{PID: 1, Name: "sshd"},
		proc.Record{PID: 2, Name: "bash"},
	)
	_ = store.Update(func(s *state.State) error {
		s.SetFilter("SSH")
		return nil
	})

	w := do(t, svc.Handler(), http.MethodGet, "/processes", nil)
	var got []proc.Record
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].PID != 1 {
		t.Errorf("filtered response = %+v", got)
	}
}

func TestNoRouteGreeting(t *testing.T) {
	svc, _ := newTestService()
	for _, path := range []string{"/", "/foo", "/processes/1"} {
		w := do(t, svc.Handler(), http.MethodGet, path, nil)
		if w.Code != http.StatusOK || w.Body.String() != Greeting {
			t.Errorf("GET %s = %d %q", path, w.Code, w.Body.String())
		}
	}
}

func TestPoisonedState(t *testing.T) {
	svc, store := newTestService(proc.Record{PID: 1, Name: "a"})
	_ = store.Update(func(*state.State) error { panic("boom") })

	w := do(t, svc.Handler(), http.MethodGet, "/processes", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["type"] != "state" || body["request_id"] == nil {
		t.Errorf("error body = %v", body)
	}
}

func TestGzipNegotiation(t *testing.T) {
	var records []proc.Record
	for i := 1; i <= 500; i++ {
		records = append(records, proc.Record{PID: uint32(i), Name: "worker-process"})
	}
	svc, _ := newTestService(records...)

	plain := do(t, svc.Handler(), http.MethodGet, "/processes", nil)
	if plain.Header().Get("Content-Encoding") != "" {
		t.Errorf("compressed without Accept-Encoding")
	}

	w := do(t, svc.Handler(), http.MethodGet, "/processes", map[string]string{"Accept-Encoding": "gzip"})
	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", w.Header().Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	var got []proc.Record
	if err := json.Unmarshal(body, &got); err != nil || len(got) != 500 {
		t.Errorf("decompressed %d records, err %v", len(got), err)
	}
}
