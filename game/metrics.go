package game

import (
	"time"

	"github.com/plus3/liftrush/ecs"
)

const frameSampleWindow = 60

// Performance is a singleton with rolling frame statistics, shown by the
// debug overlay.
type Performance struct {
	FPS            float64
	FrameTime      float64 // ms
	AvgFrameTime   float64 // ms
	MinFrameTime   float64 // ms
	MaxFrameTime   float64 // ms
	EntityCount    int
	ArchetypeCount int

	samples []float64
}

// MetricsSystem measures wall-clock frame times and storage counts.
type MetricsSystem struct {
	Performance ecs.Singleton[Performance]

	lastTime time.Time
}

func (s *MetricsSystem) Execute(frame *ecs.UpdateFrame) {
	now := time.Now()
	perf := s.Performance.Get()

	if !s.lastTime.IsZero() {
		ms := now.Sub(s.lastTime).Seconds() * 1000
		perf.FrameTime = ms
		if ms > 0 {
			perf.FPS = 1000 / ms
		}

		if len(perf.samples) >= frameSampleWindow {
			perf.samples = perf.samples[1:]
		}
		perf.samples = append(perf.samples, ms)

		sum, min, max := 0.0, perf.samples[0], perf.samples[0]
		for _, sample := range perf.samples {
			sum += sample
			if sample < min {
				min = sample
			}
			if sample > max {
				max = sample
			}
		}
		perf.AvgFrameTime = sum / float64(len(perf.samples))
		perf.MinFrameTime = min
		perf.MaxFrameTime = max
	}
	s.lastTime = now

	stats := frame.Storage.CollectStats()
	perf.EntityCount = stats.EntityCount
	perf.ArchetypeCount = stats.ArchetypeCount
}

// compactInterval is how often the storage is defragmented; the game churns
// through short-lived passenger entities, leaving holes in their archetype.
const compactInterval = 5.0 // seconds

// HousekeepingSystem periodically compacts the storage. It runs as a
// deferred command so row remapping happens after all structural changes of
// the frame.
type HousekeepingSystem struct {
	elapsed float64
}

func (s *HousekeepingSystem) Execute(frame *ecs.UpdateFrame) {
	s.elapsed += frame.DeltaTime
	if s.elapsed < compactInterval {
		return
	}
	s.elapsed = 0
	frame.Commands.Defer(frame.Storage.Compact)
}
