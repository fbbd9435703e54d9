package proc

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/procfs"
	"github.com/rs/zerolog/log"

	apperrors "github.com/sjzar/procwatch/internal/errors"
)

const DefaultRoot = "/proc"

// userHZ is the tick rate procfs divides /proc/stat counters by.
const userHZ = 100

var errNoCPULine = errors.New("no aggregate cpu line")

// Source 从 procfs 读取进程表
type Source struct {
	root string
}

// NewSource reads the process table mounted at root, /proc when empty.
func NewSource(root string) *Source {
	if root == "" {
		root = DefaultRoot
	}
	return &Source{root: root}
}

func (s *Source) fs() (procfs.FS, error) {
	return procfs.NewFS(s.root)
}

// Fetch 枚举进程表，只有根目录无法列出时才返回错误
func (s *Source) Fetch() (Snapshot, error) {
	pfs, err := s.fs()
	if err != nil {
		return Snapshot{}, apperrors.EnumerationFailed(s.root, err)
	}
	procs, err := pfs.AllProcs()
	if err != nil {
		return Snapshot{}, apperrors.EnumerationFailed(s.root, err)
	}

	snap := Snapshot{
		Records: make([]Record, 0, len(procs)),
		TakenAt: time.Now(),
	}
	for _, p := range procs {
		if p.PID < 1 || uint64(p.PID) > math.MaxUint32 {
			continue
		}
		record, ok := s.read(p)
		if !ok {
			continue
		}
		snap.Records = append(snap.Records, record)
	}
	return snap, nil
}

// read 读取单个进程，进程在枚举后退出时返回 false
func (s *Source) read(p procfs.Proc) (Record, bool) {
	pid := uint32(p.PID)
	record := Record{PID: pid, Name: UnknownName}

	comm, commErr := p.Comm()
	if commErr == nil && comm != "" {
		record.Name = comm
	}

	st, statErr := p.Stat()
	if statErr != nil {
		if s.gone(pid, commErr, statErr) {
			return Record{}, false
		}
		log.Debug().Err(statErr).Uint32("pid", pid).Msg("read stat failed")
		return record, true
	}

	record.CPUTicks = uint64(st.UTime) + uint64(st.STime)
	if rss := st.ResidentMemory(); rss > 0 {
		record.MemoryBytes = uint64(rss)
	}
	return record, true
}

// gone reports whether every error is a missing file and the process
// directory itself no longer exists.
func (s *Source) gone(pid uint32, errs ...error) bool {
	for _, err := range errs {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return false
		}
	}
	_, err := os.Stat(filepath.Join(s.root, strconv.FormatUint(uint64(pid), 10)))
	return errors.Is(err, fs.ErrNotExist)
}

// TotalTicks 读取系统累计 CPU 时钟数，即 /proc/stat 中 cpu 行各字段之和
func (s *Source) TotalTicks() (uint64, error) {
	path := filepath.Join(s.root, "stat")
	pfs, err := s.fs()
	if err != nil {
		return 0, apperrors.TickSourceUnreadable(path, err)
	}
	st, err := pfs.Stat()
	if err != nil {
		return 0, apperrors.TickSourceUnreadable(path, err)
	}
	total := totalTicks(st.CPUTotal)
	if total == 0 {
		return 0, apperrors.TickSourceUnreadable(path, errNoCPULine)
	}
	return total, nil
}

func totalTicks(c procfs.CPUStat) uint64 {
	seconds := c.User + c.Nice + c.System + c.Idle + c.Iowait +
		c.IRQ + c.SoftIRQ + c.Steal + c.Guest + c.GuestNice
	return uint64(math.Round(seconds * userHZ))
}
