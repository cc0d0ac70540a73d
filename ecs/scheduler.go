package ecs

import (
	"context"
	"reflect"
	"time"
)

// refresher is implemented by Query fields; the scheduler refreshes each
// system's queries right before the system executes.
type refresher interface {
	Refresh()
}

// initializer is implemented by Query and Singleton fields.
type initializer interface {
	Init(storage *Storage)
}

// Scheduler executes registered systems in order, wiring their Query and
// Singleton fields and recording per-system timings.
type Scheduler struct {
	storage *Storage
	systems []System
	queries [][]refresher
	stats   []*systemStats
}

type systemStats struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// NewScheduler creates a scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

// Register adds a system, initializing its Query and Singleton fields.
func (s *Scheduler) Register(system System) {
	s.systems = append(s.systems, system)
	s.queries = append(s.queries, s.wireFields(system))

	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	s.stats = append(s.stats, &systemStats{
		name:        t.Name(),
		minDuration: time.Duration(1<<63 - 1),
	})
}

// wireFields initializes Query/Singleton struct fields through their Init
// method and collects the queries for per-frame refresh.
func (s *Scheduler) wireFields(system System) []refresher {
	v := reflect.ValueOf(system)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	var queries []refresher
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if field.Kind() != reflect.Struct || !field.CanAddr() || !field.Addr().CanInterface() {
			continue
		}
		fieldPtr := field.Addr().Interface()

		init, ok := fieldPtr.(initializer)
		if !ok {
			continue
		}
		init.Init(s.storage)

		if q, ok := fieldPtr.(refresher); ok {
			queries = append(queries, q)
		}
	}
	return queries
}

// Once executes every system once with the given delta time, then flushes
// the frame's command buffer.
func (s *Scheduler) Once(dt float64) {
	frame := newUpdateFrame(dt, s.storage)

	for i, system := range s.systems {
		for _, q := range s.queries[i] {
			q.Refresh()
		}

		start := time.Now()
		system.Execute(frame)
		duration := time.Since(start)

		st := s.stats[i]
		st.executionCount++
		st.lastDuration = duration
		st.totalDuration += duration
		if duration < st.minDuration {
			st.minDuration = duration
		}
		if duration > st.maxDuration {
			st.maxDuration = duration
		}
	}

	frame.Commands.Flush(s.storage)
}

// Run executes all systems at the given interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// SchedulerStats summarizes system execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats is the timing record of a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// GetStats returns a snapshot of per-system execution statistics.
func (s *Scheduler) GetStats() *SchedulerStats {
	out := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.stats)),
	}

	var total int64
	for i, st := range s.stats {
		avg := time.Duration(0)
		if st.executionCount > 0 {
			avg = st.totalDuration / time.Duration(st.executionCount)
		}
		out.Systems[i] = SystemStats{
			Name:           st.name,
			ExecutionCount: st.executionCount,
			MinDuration:    st.minDuration,
			MaxDuration:    st.maxDuration,
			AvgDuration:    avg,
			LastDuration:   st.lastDuration,
			TotalDuration:  st.totalDuration,
		}
		total += st.executionCount
	}
	out.TotalExecutions = total
	return out
}
