package diag

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

const sampleInterval = 5 * time.Second

// Snapshot is one sample of the server's own health, shown in the shell
// footer and returned by the health endpoint.
type Snapshot struct {
	CPUPercent    float64   `json:"cpuPercent"`
	MemPercent    float64   `json:"memPercent"`
	MemUsedBytes  uint64    `json:"memUsedBytes"`
	MemTotalBytes uint64    `json:"memTotalBytes"`
	Load1         float64   `json:"load1"`
	Goroutines    int       `json:"goroutines"`
	SampledAt     time.Time `json:"sampledAt"`
}

// Monitor samples host metrics in the background.
type Monitor struct {
	mu       sync.RWMutex
	snapshot Snapshot
	stop     chan struct{}
	wg       sync.WaitGroup
	log      *log.Logger

	prevTotal float64
	prevIdle  float64
}

func NewMonitor(logger *log.Logger) *Monitor {
	return &Monitor{log: logger}
}

func (m *Monitor) Start() {
	if m.stop != nil {
		return
	}
	m.stop = make(chan struct{})
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(sampleInterval)
		defer ticker.Stop()
		ctx := context.Background()
		m.sample(ctx)
		for {
			select {
			case <-ticker.C:
				m.sample(ctx)
			case <-m.stop:
				return
			}
		}
	}()
}

func (m *Monitor) Stop() {
	if m.stop == nil {
		return
	}
	close(m.stop)
	m.wg.Wait()
	m.stop = nil
}

// Snapshot returns the latest sample.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

func (m *Monitor) sample(ctx context.Context) {
	snap := Snapshot{
		Goroutines: runtime.NumGoroutine(),
		SampledAt:  time.Now(),
	}

	if times, err := cpu.TimesWithContext(ctx, false); err == nil && len(times) > 0 {
		t := times[0]
		total := t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
		idle := t.Idle + t.Iowait
		if m.prevTotal > 0 && total > m.prevTotal {
			deltaTotal := total - m.prevTotal
			deltaIdle := idle - m.prevIdle
			snap.CPUPercent = clamp((deltaTotal-deltaIdle)/deltaTotal*100, 0, 100)
		}
		m.prevTotal, m.prevIdle = total, idle
	} else if err != nil {
		m.log.Debug("cpu sample failed", "err", err)
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		snap.MemPercent = clamp(vm.UsedPercent, 0, 100)
		snap.MemUsedBytes = vm.Used
		snap.MemTotalBytes = vm.Total
	}

	if avg, err := load.AvgWithContext(ctx); err == nil {
		snap.Load1 = avg.Load1
	}

	m.mu.Lock()
	// CPU percent needs two samples; keep the previous value until then.
	if snap.CPUPercent == 0 && m.snapshot.CPUPercent > 0 && m.prevTotal > 0 {
		snap.CPUPercent = m.snapshot.CPUPercent
	}
	m.snapshot = snap
	m.mu.Unlock()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
