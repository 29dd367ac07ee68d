package metrics

import (
	"sync/atomic"
	"time"
)

// Collector tracks request and calculation counters with atomics. Exposed on
// the admin metrics endpoint as a JSON snapshot.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	totalDurationMs uint64

	settlements  uint64
	terminations uint64
	revenueCalcs uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordSettlement()  { atomic.AddUint64(&c.settlements, 1) }
func (c *Collector) RecordTermination() { atomic.AddUint64(&c.terminations, 1) }
func (c *Collector) RecordRevenueCalc() { atomic.AddUint64(&c.revenueCalcs, 1) }

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":     total,
		"errorsTotal":       atomic.LoadUint64(&c.errorRequests),
		"avgDurationMs":     avg,
		"settlementsTotal":  atomic.LoadUint64(&c.settlements),
		"terminationsTotal": atomic.LoadUint64(&c.terminations),
		"revenueCalcsTotal": atomic.LoadUint64(&c.revenueCalcs),
	}
}
