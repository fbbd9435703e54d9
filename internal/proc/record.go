package proc

import "time"

// UnknownName 是进程名称不可读时使用的占位名称
const UnknownName = "[Unknown]"

// Record 一个被观测到的进程
type Record struct {
	PID         uint32  `json:"pid"`
	Name        string  `json:"name"`
	CPUTicks    uint64  `json:"cpu_time"`
	MemoryBytes uint64  `json:"memory"`
	CPUPercent  float64 `json:"cpu_percent"`
}

// Snapshot 同一时刻采集到的进程表，发布后不再修改
type Snapshot struct {
	Records []Record
	TakenAt time.Time
}

// Len returns the number of records in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Records)
}

type identity struct {
	pid  uint32
	name string
}

// Diff reports records present only in next (added) and only in prev
// (removed). Records are matched on PID and Name together, so a reused PID
// running a different program counts as both removed and added.
func Diff(prev, next Snapshot) (added, removed []Record) {
	before := make(map[identity]struct{}, len(prev.Records))
	for _, r := range prev.Records {
		before[identity{r.PID, r.Name}] = struct{}{}
	}
	after := make(map[identity]struct{}, len(next.Records))
	for _, r := range next.Records {
		id := identity{r.PID, r.Name}
		after[id] = struct{}{}
		if _, ok := before[id]; !ok {
			added = append(added, r)
		}
	}
	for _, r := range prev.Records {
		if _, ok := after[identity{r.PID, r.Name}]; !ok {
			removed = append(removed, r)
		}
	}
	return added, removed
}
