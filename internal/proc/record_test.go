package proc

import "testing"

func TestDiff(t *testing.T) {
	prev := Snapshot{Records: []Record{
		{PID: 1, Name: "init"},
		{PID: 2, Name: "bash"},
		{PID: 3, Name: "vim"},
	}}
	next := Snapshot{Records: []Record{
		{PID: 1, Name: "init", CPUTicks: 99},
		{PID: 3, Name: "less"},
		{PID: 4, Name: "top"},
	}}

	added, removed := Diff(prev, next)

	wantAdded := map[uint32]string{3: "less", 4: "top"}
	if len(added) != len(wantAdded) {
		t.Fatalf("added = %+v", added)
	}
	for _, r := range added {
		if wantAdded[r.PID] != r.Name {
			t.Errorf("unexpected added record %+v", r)
		}
	}

	wantRemoved := map[uint32]string{2: "bash", 3: "vim"}
	if len(removed) != len(wantRemoved) {
		t.Fatalf("removed = %+v", removed)
	}
	for _, r := range removed {
		if wantRemoved[r.PID] != r.Name {
			t.Errorf("unexpected removed record %+v", r)
		}
	}
}

func TestDiffEmpty(t *testing.T) {
	added, removed := Diff(Snapshot{}, Snapshot{})
	if len(added) != 0 || len(removed) != 0 {
		t.Errorf("Diff of empty snapshots = %v, %v", added, removed)
	}
}
