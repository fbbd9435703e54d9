package state

import (
	"sort"
	"strings"
	"time"

	"github.com/sjzar/procwatch/internal/proc"
)

// Order 进程列表按 PID 的排序方向
type Order int

const (
	Ascending Order = iota
	Descending
)

func (o Order) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// ParseOrder accepts "asc" or "desc"; anything else is Ascending.
func ParseOrder(s string) Order {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desc", "descending":
		return Descending
	default:
		return Ascending
	}
}

// Mode 交互模式
type Mode int

const (
	Normal Mode = iota
	Filtering
	ProcessMenu
)

func (m Mode) String() string {
	switch m {
	case Filtering:
		return "filter"
	case ProcessMenu:
		return "menu"
	default:
		return "normal"
	}
}

// Status is a transient message shown to the operator.
type Status struct {
	Text  string
	Error bool
	At    time.Time
}

// State 是监视器唯一的可变状态
// processes 始终等于 all 经过 filter 过滤并按 order 排序的结果
type State struct {
	all       []proc.Record
	processes []proc.Record
	selected  int
	filter    string
	order     Order
	mode      Mode
	status    Status
	takenAt   time.Time
}

// New returns an empty state sorted by order.
func New(order Order) *State {
	return &State{order: order}
}

// Project filters records by a case-insensitive substring match on the name
// and sorts the result by PID. records is not modified.
func Project(records []proc.Record, filter string, order Order) []proc.Record {
	out := filterRecords(records, filter)
	sortRecords(out, order)
	return out
}

// filterRecords keeps the relative order of records.
func filterRecords(records []proc.Record, filter string) []proc.Record {
	out := make([]proc.Record, 0, len(records))
	needle := strings.ToLower(filter)
	for _, r := range records {
		if needle == "" || strings.Contains(strings.ToLower(r.Name), needle) {
			out = append(out, r)
		}
	}
	return out
}

func sortRecords(records []proc.Record, order Order) {
	sort.SliceStable(records, func(i, j int) bool {
		if order == Descending {
			return records[i].PID > records[j].PID
		}
		return records[i].PID < records[j].PID
	})
}

// SortAscending 按 PID 升序排列
func (s *State) SortAscending() {
	s.setOrder(Ascending)
}

// SortDescending 按 PID 降序排列
func (s *State) SortDescending() {
	s.setOrder(Descending)
}

// setOrder sorts both lists so that a later filter change keeps the order.
func (s *State) setOrder(order Order) {
	s.order = order
	sortRecords(s.all, order)
	sortRecords(s.processes, order)
}

// ApplyFilter recomputes the projection from all records. With an empty
// filter the projection equals all records in the same order.
func (s *State) ApplyFilter() {
	s.processes = filterRecords(s.all, s.filter)
	s.clampSelection()
}

// Reload replaces the full process list and recomputes the projection with
// the current filter and order.
func (s *State) Reload(snap proc.Snapshot) {
	s.all = make([]proc.Record, len(snap.Records))
	copy(s.all, snap.Records)
	sortRecords(s.all, s.order)
	s.takenAt = snap.TakenAt
	s.ApplyFilter()
}

// SetFilter replaces the filter text.
func (s *State) SetFilter(filter string) {
	s.filter = filter
	s.ApplyFilter()
}

// AppendFilter 追加一个字符到过滤文本
func (s *State) AppendFilter(r rune) {
	s.filter += string(r)
	s.ApplyFilter()
}

// BackspaceFilter 删除过滤文本的最后一个字符
func (s *State) BackspaceFilter() {
	if s.filter == "" {
		return
	}
	runes := []rune(s.filter)
	s.filter = string(runes[:len(runes)-1])
	s.ApplyFilter()
}

// MoveSelection moves the cursor by delta, staying inside the projection.
func (s *State) MoveSelection(delta int) {
	if len(s.processes) == 0 {
		return
	}
	s.selected += delta
	s.clampSelection()
}

func (s *State) clampSelection() {
	if s.selected > len(s.processes)-1 {
		s.selected = len(s.processes) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

// SelectedRecord returns the record under the cursor.
func (s *State) SelectedRecord() (proc.Record, bool) {
	if s.selected < 0 || s.selected >= len(s.processes) {
		return proc.Record{}, false
	}
	return s.processes[s.selected], true
}

// SetStatus records a transient message.
func (s *State) SetStatus(text string, isErr bool) {
	s.status = Status{Text: text, Error: isErr, At: time.Now()}
}

// Processes 返回当前投影的副本，可以在释放锁之后使用
func (s *State) Processes() []proc.Record {
	out := make([]proc.Record, len(s.processes))
	copy(out, s.processes)
	return out
}

// All 返回完整进程列表的副本
func (s *State) All() []proc.Record {
	out := make([]proc.Record, len(s.all))
	copy(out, s.all)
	return out
}

func (s *State) Selected() int { return s.selected }
func (s *State) Filter() string { return s.filter }
func (s *State) Order() Order { return s.order }
func (s *State) Mode() Mode { return s.mode }
func (s *State) Status() Status { return s.status }
func (s *State) TakenAt() time.Time { return s.takenAt }
