package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/plus3/liftrush/ecs"
	"github.com/plus3/liftrush/ecs/debugui"
)

// InputSystem samples ebiten's keyboard and mouse into the Controls
// singleton. Holding the mouse button on the top or bottom half of the
// window doubles as up/down, per the README control scheme.
type InputSystem struct {
	Controls ecs.Singleton[Controls]

	keys []ebiten.Key
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	controls := s.Controls.Get()

	up := ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	down := ebiten.IsKeyPressed(ebiten.KeyArrowDown)

	mouseFree := true
	var ui *debugui.UIState
	if frame.Storage.ReadSingleton(&ui) && ui.WantCaptureMouse {
		mouseFree = false
	}
	if mouseFree && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		_, y := ebiten.CursorPosition()
		if y < ScreenHeight/2 {
			up = true
		} else {
			down = true
		}
	}

	s.keys = inpututil.AppendJustPressedKeys(s.keys[:0])

	controls.UpHeld = up
	controls.DownHeld = down
	controls.ExitPressed = inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	controls.StartPressed = len(s.keys) > 0 && !controls.ExitPressed
}
