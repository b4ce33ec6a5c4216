package profiler

import (
	"fmt"
	"log"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// Profiler tracks frame rate, memory statistics and GPU buffer reallocations.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	mu *sync.Mutex

	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	lastFPS        float64

	// grows holds the buffer reallocations recorded since the last report, by label.
	grows      map[string]growRecord
	totalGrows int

	now    func() time.Time
	logger func(format string, args ...any)
}

type growRecord struct {
	count    int
	capacity uint64
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often Tick logs a report.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		p.updateInterval = d
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// WithLogger replaces log.Printf as the report sink.
func WithLogger(logger func(format string, args ...any)) ProfilerOption {
	return func(p *Profiler) {
		p.logger = logger
	}
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - opts: functional options
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(opts ...ProfilerOption) *Profiler {
	p := &Profiler{
		mu:             &sync.Mutex{},
		updateInterval: time.Second,
		grows:          make(map[string]growRecord),
		now:            time.Now,
		logger:         log.Printf,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// RecordGrow notes that a GPU buffer was reallocated. Safe to call from any goroutine; the
// next report lists every buffer that grew since the previous one.
//
// Parameters:
//   - label: the buffer label
//   - capacity: the new capacity in bytes
func (p *Profiler) RecordGrow(label string, capacity uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	g := p.grows[label]
	g.count++
	g.capacity = capacity
	p.grows[label] = g
	p.totalGrows++
}

// TotalGrows returns the number of reallocations recorded since the profiler was created.
func (p *Profiler) TotalGrows() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalGrows
}

// FPS returns the frame rate measured over the last completed interval.
func (p *Profiler) FPS() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastFPS
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory,
// and the buffers that grew during the interval.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	// Alloc: live heap, TotalAlloc: cumulative (tracks churn), Sys: process footprint
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logger("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB%s",
		fps, allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB, p.growSummary())

	p.lastFPS = fps
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	clear(p.grows)
	return true
}

// growSummary formats the pending reallocations, sorted by label. Caller must hold the mutex.
func (p *Profiler) growSummary() string {
	if len(p.grows) == 0 {
		return ""
	}
	labels := make([]string, 0, len(p.grows))
	for label := range p.grows {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	parts := make([]string, len(labels))
	for i, label := range labels {
		g := p.grows[label]
		parts[i] = fmt.Sprintf("%s x%d -> %d B", label, g.count, g.capacity)
	}
	return " | Grown: " + strings.Join(parts, ", ")
}
