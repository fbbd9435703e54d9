package proc

import (
	"runtime"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
)

// TickSource provides the system-wide cumulative CPU tick counter.
type TickSource interface {
	TotalTicks() (uint64, error)
}

// Tracker 根据连续两次采样计算每个进程的 CPU 占用率
// 只能由一个 goroutine 持有
type Tracker struct {
	ticks       TickSource
	logicalCPUs int

	totalBaseline uint64
	perPid        map[uint32]uint64
}

// NewTracker reads the initial system tick baseline. An error here means CPU
// usage can never be derived and should stop startup.
func NewTracker(ticks TickSource, logicalCPUs int) (*Tracker, error) {
	total, err := ticks.TotalTicks()
	if err != nil {
		return nil, err
	}
	if logicalCPUs < 1 {
		logicalCPUs = 1
	}
	return &Tracker{
		ticks:         ticks,
		logicalCPUs:   logicalCPUs,
		totalBaseline: total,
		perPid:        make(map[uint32]uint64),
	}, nil
}

// LogicalCPUs 返回逻辑 CPU 数量
func LogicalCPUs() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		log.Debug().Err(err).Msg("cpu count unavailable, using runtime.NumCPU")
		return runtime.NumCPU()
	}
	return n
}

// Update scores every record of snap in place and advances the baselines.
// A PID without a previous sample scores 0.
func (t *Tracker) Update(snap *Snapshot) {
	current, err := t.ticks.TotalTicks()
	var deltaTotal uint64
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("total ticks unavailable, cpu usage reported as 0")
		current = t.totalBaseline
	case current >= t.totalBaseline:
		deltaTotal = current - t.totalBaseline
	default:
		// counter reset
		deltaTotal = current
	}

	for i := range snap.Records {
		r := &snap.Records[i]
		previous, seen := t.perPid[r.PID]
		if !seen || deltaTotal == 0 {
			r.CPUPercent = 0
			continue
		}
		var deltaProc uint64
		if r.CPUTicks > previous {
			deltaProc = r.CPUTicks - previous
		}
		r.CPUPercent = float64(deltaProc) / float64(deltaTotal) * 100 * float64(t.logicalCPUs)
	}

	next := make(map[uint32]uint64, len(snap.Records))
	for _, r := range snap.Records {
		next[r.PID] = r.CPUTicks
	}
	t.perPid = next
	t.totalBaseline = current
}
