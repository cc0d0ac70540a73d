package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/liftrush/ecs"
)

type Report struct {
	// Configuration
	Seed        uint64
	ServeTarget int
	Timestep    float64

	// Results
	Steps         int
	SimulatedTime time.Duration
	WallTime      time.Duration
	Served        int
	Complaints    int
	Complete      bool
	StepTime      Stats
	Scheduler     *ecs.SchedulerStats
	Storage       *ecs.StorageStats
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Lift Simulation Report

## Configuration
- **Seed:** {{.Seed}}
- **Serve Target:** {{.ServeTarget}}
- **Timestep:** {{.Timestep}}s

## Outcome
- **Complete:** {{.Complete}}
- **Served:** {{.Served}}
- **Complaints:** {{.Complaints}}
- **Steps:** {{.Steps}}
- **Simulated Time:** {{.SimulatedTime}}
- **Wall Time:** {{.WallTime}}
- **Step Time:**
  - **Avg:** {{.StepTime.Avg}}
  - **Min:** {{.StepTime.Min}}
  - **Max:** {{.StepTime.Max}}

## Systems
{{range .Scheduler.Systems -}}
- {{.Name}}: {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}
## Storage
- **Entities:** {{.Storage.EntityCount}}
- **Archetypes:** {{.Storage.ArchetypeCount}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
