// Package debugui renders Dear ImGui debug panels from inside an ECS frame.
// Panels are entities holding a render closure; PanelSystem defers the
// closures through the frame's command buffer so they run after every other
// system has finished mutating state.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/liftrush/ecs"
)

// Panel holds a Dear ImGui render function. Spawn one entity per debug
// window.
type Panel struct {
	Render func()
}

// UIState is a singleton tracking whether ImGui wants the mouse or keyboard
// this frame. Game input systems should back off while either is set.
type UIState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// PanelSystem updates UIState and queues every panel's render function.
type PanelSystem struct {
	Panels ecs.Query[struct{ *Panel }]
	State  ecs.Singleton[UIState]
}

func (p *PanelSystem) Execute(frame *ecs.UpdateFrame) {
	state := p.State.Get()
	state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	for panel := range p.Panels.Values() {
		frame.Commands.Defer(panel.Panel.Render)
	}
}
