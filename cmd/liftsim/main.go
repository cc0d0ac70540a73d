package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/liftrush/ecs"
	"github.com/plus3/liftrush/game"
)

// liftsim runs the lift game headless at a fixed timestep, with an autopilot
// standing in for the player, and prints a report of the run.
func main() {
	duration := flag.Duration("duration", 10*time.Minute, "Maximum simulated time before giving up on the run.")
	dt := flag.Float64("dt", 1.0/60.0, "Fixed timestep in seconds.")
	seed := flag.Uint64("seed", 1, "Seed for the run's rng.")
	serveTarget := flag.Int("serve-target", 25, "Passengers to serve before the building is complete.")
	flag.Parse()

	cfg, err := game.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.Seed = *seed
	cfg.ServeTarget = *serveTarget

	storage := game.NewWorld(cfg)

	// Skip the menu: jump straight into a run.
	var scene *game.SceneState
	var session *game.Session
	if !storage.ReadSingleton(&scene) || !storage.ReadSingleton(&session) {
		log.Fatal("world is missing its singletons")
	}
	scene.Scene = game.ScenePlaying
	session.NextArrival = cfg.AvgArrivalSeconds

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&game.AutopilotSystem{})
	scheduler.Register(&game.LiftControlSystem{})
	scheduler.Register(&game.LiftMotionSystem{})
	scheduler.Register(&game.ArrivalSystem{})
	scheduler.Register(&game.WaitingSystem{})
	scheduler.Register(&game.RideSystem{})
	scheduler.Register(&game.LeaveSystem{})
	scheduler.Register(&game.HousekeepingSystem{})

	report := &Report{
		Seed:        cfg.Seed,
		ServeTarget: cfg.ServeTarget,
		Timestep:    *dt,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Simulating up to %s at dt=%.4fs (seed %d)...", *duration, *dt, cfg.Seed)

	maxSteps := int(duration.Seconds() / *dt)
	startTime := time.Now()

	var steps int
	for steps = 0; steps < maxSteps; steps++ {
		stepStart := time.Now()
		scheduler.Once(*dt)
		report.StepTime.Samples = append(report.StepTime.Samples, time.Since(stepStart))

		if session.Complete {
			steps++
			break
		}
	}

	report.WallTime = time.Since(startTime)
	report.Steps = steps
	report.SimulatedTime = time.Duration(float64(steps) * *dt * float64(time.Second))
	report.Served = session.Served
	report.Complaints = session.Complaints
	report.Complete = session.Complete
	report.Scheduler = scheduler.GetStats()
	report.Storage = storage.CollectStats()
	report.StepTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("generate report: %v", err)
	}

	if !report.Complete {
		fmt.Println("run did not complete within the time limit")
		os.Exit(1)
	}
}
