package proc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/procfs"

	"github.com/sjzar/procwatch/internal/errors"
)

// statLine builds a full 52 field /proc/<pid>/stat record.
func statLine(pid uint32, name string, utime, stime, rss uint64) string {
	fields := []string{
		"S", "1", fmt.Sprint(pid), fmt.Sprint(pid), "0", "-1", "4194560",
		"100", "0", "0", "0",
		fmt.Sprint(utime), fmt.Sprint(stime), "0", "0",
		"20", "0", "1", "0", "10", "1000000",
		fmt.Sprint(rss), "18446744073709551615",
	}
	for len(fields) < 50 {
		fields = append(fields, "0")
	}
	return fmt.Sprintf("%d (%s) %s\n", pid, name, strings.Join(fields, " "))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func writeProc(t *testing.T, root string, pid uint32, comm, stat string) {
	t.Helper()
	dir := filepath.Join(root, fmt.Sprint(pid))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if comm != "" {
		writeFile(t, filepath.Join(dir, "comm"), comm)
	}
	if stat != "" {
		writeFile(t, filepath.Join(dir, "stat"), stat)
	}
}

func TestSourceFetch(t *testing.T) {
	root := t.TempDir()
	writeProc(t, root, 1, "init\n", statLine(1, "init", 10, 5, 100))
	writeProc(t, root, 42, "", statLine(42, "ghost", 1, 1, 1))
	writeProc(t, root, 7, "bad\n", "7 (bad) S 1 2")
	writeProc(t, root, 9, "tmux: server (1)\n", statLine(9, "tmux: server (1)", 7, 3, 55))

	snap, err := NewSource(root).Fetch()
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	byPID := make(map[uint32]Record)
	for _, r := range snap.Records {
		byPID[r.PID] = r
	}
	if len(byPID) != 4 {
		t.Fatalf("Fetch() returned %d records, want 4: %+v", len(byPID), snap.Records)
	}

	page := uint64(os.Getpagesize())
	if r := byPID[1]; r.Name != "init" || r.CPUTicks != 15 || r.MemoryBytes != 100*page {
		t.Errorf("pid 1 = %+v", r)
	}
	if r := byPID[42]; r.Name != UnknownName || r.CPUTicks != 2 {
		t.Errorf("pid 42 = %+v, want sentinel name", r)
	}
	if r := byPID[7]; r.Name != "bad" || r.CPUTicks != 0 || r.MemoryBytes != 0 {
		t.Errorf("pid 7 = %+v, want zeroed accounting", r)
	}
	if r := byPID[9]; r.Name != "tmux: server (1)" || r.CPUTicks != 10 || r.MemoryBytes != 55*page {
		t.Errorf("pid 9 = %+v, want fields counted after the last parenthesis", r)
	}
	if snap.TakenAt.IsZero() {
		t.Errorf("snapshot has no capture time")
	}
}

func TestSourceFetchMissingRoot(t *testing.T) {
	root := t.TempDir()
	src := NewSource(filepath.Join(root, "nope"))
	if _, err := src.Fetch(); !errors.Is(err, errors.ErrTypeEnumeration) {
		t.Fatalf("Fetch() error = %v, want enumeration error", err)
	}

	// 根目录在运行中消失
	src = NewSource(root)
	if err := os.RemoveAll(root); err != nil {
		t.Fatal(err)
	}
	if _, err := src.Fetch(); !errors.Is(err, errors.ErrTypeEnumeration) {
		t.Fatalf("Fetch() after removal error = %v, want enumeration error", err)
	}
}

func TestSourceSkipsExitedProcess(t *testing.T) {
	root := t.TempDir()
	writeProc(t, root, 1, "init\n", statLine(1, "init", 1, 1, 1))
	writeProc(t, root, 2, "short\n", statLine(2, "short", 1, 1, 1))

	pfs, err := procfs.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	live, err := pfs.Proc(1)
	if err != nil {
		t.Fatal(err)
	}
	exited, err := pfs.Proc(2)
	if err != nil {
		t.Fatal(err)
	}

	// 进程在枚举之后退出
	if err := os.RemoveAll(filepath.Join(root, "2")); err != nil {
		t.Fatal(err)
	}

	src := NewSource(root)
	if _, ok := src.read(exited); ok {
		t.Errorf("read() of exited process reported ok")
	}
	if _, ok := src.read(live); !ok {
		t.Errorf("read() of live process reported not ok")
	}
}

func TestSourceTotalTicks(t *testing.T) {
	tests := []struct {
		name    string
		stat    string
		want    uint64
		wantErr bool
	}{
		{
			name: "cpu line",
			stat: "cpu  10 20 30 40 0 0 0 0 0 0\ncpu0 10 20 30 40 0 0 0 0 0 0\nbtime 1700000000\n",
			want: 100,
		},
		{
			name: "guest and steal counted",
			stat: "cpu  1 2 3 4 5 6 7 8 9 10\n",
			want: 55,
		},
		{
			name:    "missing cpu line",
			stat:    "btime 1700000000\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, filepath.Join(root, "stat"), tt.stat)

			got, err := NewSource(root).TotalTicks()
			if (err != nil) != tt.wantErr {
				t.Fatalf("TotalTicks() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("TotalTicks() = %d, want %d", got, tt.want)
			}
		})
	}

	if _, err := NewSource(t.TempDir()).TotalTicks(); !errors.Is(err, errors.ErrTypeEnumeration) {
		t.Errorf("TotalTicks() without stat file error = %v", err)
	}
}
