package game

import (
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/liftrush/ecs"
	"github.com/plus3/liftrush/ecs/debugui"
	debugui_ebiten "github.com/plus3/liftrush/ecs/debugui/ebiten"
)

// NewWorld builds the storage every runner shares: component registrations,
// the lift entity parked on floor 0, and the singletons.
func NewWorld(cfg Config) *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Rect](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Lift](registry)
	ecs.RegisterComponent[Passenger](registry)
	ecs.RegisterComponent[debugui.Panel](registry)

	storage := ecs.NewStorage(registry)

	storage.Spawn(
		LiftStartRect(),
		Velocity{},
		Lift{
			MaxSpeed: LiftMaxSpeed,
			MinSpeed: LiftMinSpeed,
			Slots:    make([]*ecs.EntityRef, LiftCapacity),
		},
	)

	ecs.NewSingleton[Config](storage, cfg)
	ecs.NewSingleton[SceneState](storage, SceneState{})
	ecs.NewSingleton[Session](storage, Session{})
	ecs.NewSingleton[Controls](storage, Controls{})
	ecs.NewSingleton[Random](storage, Random{
		Rand: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)),
	})
	ecs.NewSingleton[Screen](storage, Screen{})
	ecs.NewSingleton[Performance](storage, Performance{})
	ecs.NewSingleton[debugui.UIState](storage, debugui.UIState{})

	return storage
}

// Game implements ebiten.Game. Logic and rendering run on separate
// schedulers so Draw can execute without advancing the simulation.
type Game struct {
	storage *ecs.Storage
	logic   *ecs.Scheduler
	render  *ecs.Scheduler

	screen   *ecs.Singleton[Screen]
	scene    *ecs.Singleton[SceneState]
	controls *ecs.Singleton[Controls]

	backend *debugui_ebiten.Backend
}

// New wires the full interactive game. A non-nil backend enables the Dear
// ImGui overlay; the caller must have created its window already.
func New(cfg Config, backend *debugui_ebiten.Backend) *Game {
	storage := NewWorld(cfg)

	logic := ecs.NewScheduler(storage)
	logic.Register(&InputSystem{})
	logic.Register(&SceneSystem{})
	logic.Register(&LiftControlSystem{})
	logic.Register(&LiftMotionSystem{})
	logic.Register(&ArrivalSystem{})
	logic.Register(&WaitingSystem{})
	logic.Register(&RideSystem{})
	logic.Register(&LeaveSystem{})
	logic.Register(&MetricsSystem{})
	logic.Register(&HousekeepingSystem{})

	if backend != nil {
		SpawnDebugPanels(storage)
		logic.Register(&debugui.PanelSystem{})
	}

	render := ecs.NewScheduler(storage)
	render.Register(&RenderSystem{})

	return &Game{
		storage:  storage,
		logic:    logic,
		render:   render,
		screen:   ecs.NewSingleton[Screen](storage),
		scene:    ecs.NewSingleton[SceneState](storage),
		controls: ecs.NewSingleton[Controls](storage),
		backend:  backend,
	}
}

func (g *Game) Update() error {
	// Escape inside a run returns to the menu; escape on the menu quits, so
	// the scene must be sampled before SceneSystem reacts to this frame's
	// keypress.
	onMenu := g.scene.Get().Scene == SceneMenu

	if g.backend != nil {
		g.backend.BeginFrame()
	}
	g.logic.Once(1.0 / 60.0)
	if g.backend != nil {
		g.backend.EndFrame()
	}

	if onMenu && g.controls.Get().ExitPressed {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.screen.Get().Image = screen
	g.render.Once(0)
	if g.backend != nil {
		g.backend.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.backend != nil {
		g.backend.Layout(ScreenWidth, ScreenHeight)
	}
	return ScreenWidth, ScreenHeight
}
