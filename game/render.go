package game

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/liftrush/ecs"
)

// RenderSystem draws the active scene onto the Screen singleton. It runs on
// the render scheduler, driven from ebiten's Draw.
type RenderSystem struct {
	Screen  ecs.Singleton[Screen]
	Scene   ecs.Singleton[SceneState]
	Session ecs.Singleton[Session]
	Config  ecs.Singleton[Config]

	Lifts ecs.Query[struct {
		*Rect
		*Lift
	}]
	Passengers ecs.Query[struct {
		*Rect
		*Passenger
	}]

	background *ebiten.Image
}

func (s *RenderSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get().Image
	if screen == nil {
		return
	}

	switch s.Scene.Get().Scene {
	case SceneMenu:
		s.drawMenu(screen)
	case ScenePlaying:
		s.drawPlayfield(screen)
	case SceneComplete:
		s.drawComplete(screen)
	}
}

func (s *RenderSystem) drawMenu(screen *ebiten.Image) {
	screen.Fill(color.RGBA{160, 24, 24, 255})
	ebitenutil.DebugPrintAt(screen, "LOCO LIFT RUSH", ScreenWidth/2-56, ScreenHeight/2-40)
	ebitenutil.DebugPrintAt(screen, "press any key to start", ScreenWidth/2-88, ScreenHeight/2)
	ebitenutil.DebugPrintAt(screen, "escape quits", ScreenWidth/2-48, ScreenHeight/2+20)
}

func (s *RenderSystem) drawComplete(screen *ebiten.Image) {
	session := s.Session.Get()
	screen.Fill(color.Black)
	ebitenutil.DebugPrintAt(screen, "BUILDING COMPLETE", ScreenWidth/2-68, ScreenHeight/2-40)
	summary := fmt.Sprintf("served %d, complaints %d", session.Served, session.Complaints)
	ebitenutil.DebugPrintAt(screen, summary, ScreenWidth/2-88, ScreenHeight/2)
	ebitenutil.DebugPrintAt(screen, "press any key", ScreenWidth/2-52, ScreenHeight/2+20)
}

func (s *RenderSystem) drawPlayfield(screen *ebiten.Image) {
	screen.DrawImage(s.backgroundImage(), nil)

	for lift := range s.Lifts.Values() {
		drawRect(screen, lift.Rect, color.RGBA{190, 190, 190, 255})
	}

	for e := range s.Passengers.Values() {
		drawRect(screen, e.Rect, patienceColor(e.Passenger.Patience))
		label := strconv.Itoa(e.Passenger.Destination)
		ebitenutil.DebugPrintAt(screen, label, int(e.Rect.X), int(e.Rect.Y))
	}

	session := s.Session.Get()
	hud := fmt.Sprintf("Served: %d, Complaints: %d", session.Served, session.Complaints)
	ebitenutil.DebugPrintAt(screen, hud, 10, 10)
}

// backgroundImage lazily builds the static backdrop: floor slabs fading from
// grey to black with height, floor numbers beside the shaft, and the shaft
// column itself.
func (s *RenderSystem) backgroundImage() *ebiten.Image {
	if s.background != nil {
		return s.background
	}

	bg := ebiten.NewImage(ScreenWidth, ScreenHeight)
	bg.Fill(color.Black)

	liftX := ScreenWidth/2 - LiftWidth/2
	for i := 0; i < NumFloors; i++ {
		shade := uint8(0x88 * (NumFloors - i) / NumFloors)
		slab := Rect{
			X: 0,
			Y: FloorBottom(i) - FloorHeight,
			W: ScreenWidth,
			H: FloorHeight,
		}
		drawRect(bg, &slab, color.RGBA{shade, shade, shade, 255})
		ebitenutil.DebugPrintAt(bg, strconv.Itoa(i), liftX-14, int(FloorBottom(i)-FloorHeight)+5)
	}

	shaft := Rect{X: float64(liftX), Y: 0, W: LiftWidth, H: GroundY}
	drawRect(bg, &shaft, color.Black)

	s.background = bg
	return bg
}

// patienceColor fades a passenger from white toward red over its last five
// seconds of patience.
func patienceColor(patience float64) color.RGBA {
	f := 1.0
	if patience <= 5 {
		f = patience / 5
	}
	c := uint8(255 * f)
	return color.RGBA{255, c, c, 255}
}

func drawRect(dst *ebiten.Image, r *Rect, clr color.Color) {
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), clr, false)
}
