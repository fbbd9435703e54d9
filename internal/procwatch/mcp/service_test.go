package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sjzar/procwatch/internal/errors"
	"github.com/sjzar/procwatch/internal/proc"
	"github.com/sjzar/procwatch/internal/state"
)

type fakeTerminator struct {
	killed []uint32
	err    error
}

func (f *fakeTerminator) Kill(pid uint32) error {
	if f.err != nil {
		return f.err
	}
	f.killed = append(f.killed, pid)
	return nil
}

type fakeRefresher struct{ triggered int }

func (f *fakeRefresher) Trigger() { f.triggered++ }

func newTestService() (*Service, *state.Store, *fakeTerminator, *fakeRefresher) {
	st := state.New(state.Ascending)
	st.Reload(proc.Snapshot{Records: []proc.Record{
		{PID: 30, Name: "nginx", CPUTicks: 10, MemoryBytes: 2048, CPUPercent: 2.5},
		{PID: 10, Name: "bash"},
		{PID: 20, Name: "nginx, worker"},
	}})
	st.SetFilter("bash")
	store := state.NewStore(st)
	term := &fakeTerminator{}
	ref := &fakeRefresher{}
	return NewService(store, term, ref), store, term, ref
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("content = %+v", res.Content)
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type %T", res.Content[0])
	}
	return tc.Text
}

func TestListProcesses(t *testing.T) {
	svc, store, _, _ := newTestService()

	res, err := svc.handleListProcesses(context.Background(), call("list_processes", map[string]any{
		"filter": "NGINX",
		"order":  "desc",
	}))
	if err != nil || res.IsError {
		t.Fatalf("handleListProcesses() = %+v, %v", res, err)
	}
	lines := strings.Split(strings.TrimSpace(text(t, res)), "\n")
	want := []string{
		"PID,Name,CPUTime,Memory,CPUPercent",
		"30,nginx,10,2048,2.50",
		`20,"nginx, worker",0,0,0.00`,
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Errorf("csv =\n%s\nwant\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}

	var filter string
	_ = store.View(func(s *state.State) { filter = s.Filter() })
	if filter != "bash" {
		t.Errorf("shared filter changed to %q", filter)
	}
}

func TestListProcessesLimit(t *testing.T) {
	svc, _, _, _ := newTestService()
	res, _ := svc.handleListProcesses(context.Background(), call("list_processes", map[string]any{"limit": 2}))
	lines := strings.Split(strings.TrimSpace(text(t, res)), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], "10,") {
		t.Errorf("limited csv = %q", lines)
	}
}

func TestListProcessesPoisoned(t *testing.T) {
	svc, store, _, _ := newTestService()
	_ = store.Update(func(*state.State) error { panic("boom") })
	res, err := svc.handleListProcesses(context.Background(), call("list_processes", nil))
	if err != nil || !res.IsError {
		t.Errorf("poisoned store result = %+v, %v", res, err)
	}
}

func TestKillProcess(t *testing.T) {
	svc, _, term, ref := newTestService()

	res, err := svc.handleKillProcess(context.Background(), call("kill_process", map[string]any{"pid": 1234}))
	if err != nil || res.IsError {
		t.Fatalf("handleKillProcess() = %+v, %v", res, err)
	}
	if len(term.killed) != 1 || term.killed[0] != 1234 {
		t.Errorf("killed = %v", term.killed)
	}
	if ref.triggered != 1 {
		t.Errorf("refresh triggered %d times", ref.triggered)
	}

	term.err = errors.KillPermissionDenied(1, nil)
	res, _ = svc.handleKillProcess(context.Background(), call("kill_process", map[string]any{"pid": 1}))
	if !res.IsError || !strings.Contains(text(t, res), "permission denied") {
		t.Errorf("permission failure result = %+v", res)
	}
	if ref.triggered != 1 {
		t.Errorf("failed kill triggered a refresh")
	}
}
