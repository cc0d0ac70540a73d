package game

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/liftrush/ecs"
	"github.com/plus3/liftrush/ecs/debugui"
)

// SpawnDebugPanels creates the overlay windows shown when LIFTRUSH_DEBUG is
// set: frame timings on the left, the running session on the right.
func SpawnDebugPanels(storage *ecs.Storage) {
	storage.Spawn(debugui.Panel{Render: func() { renderPerformancePanel(storage) }})
	storage.Spawn(debugui.Panel{Render: func() { renderSessionPanel(storage) }})
}

func renderPerformancePanel(storage *ecs.Storage) {
	var perf *Performance
	if !storage.ReadSingleton(&perf) {
		return
	}

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 30), imgui.CondFirstUseEver, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(180, 150), imgui.CondFirstUseEver)
	if !imgui.BeginV("Performance", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("FPS: %.1f", perf.FPS))
	imgui.Text(fmt.Sprintf("Frame: %.2f ms", perf.FrameTime))
	imgui.Text(fmt.Sprintf("Avg: %.2f ms", perf.AvgFrameTime))
	imgui.Text(fmt.Sprintf("Min/Max: %.2f / %.2f", perf.MinFrameTime, perf.MaxFrameTime))
	imgui.Separator()
	imgui.Text(fmt.Sprintf("Entities: %d", perf.EntityCount))
	imgui.Text(fmt.Sprintf("Archetypes: %d", perf.ArchetypeCount))
	imgui.End()
}

func renderSessionPanel(storage *ecs.Storage) {
	var session *Session
	var scene *SceneState
	if !storage.ReadSingleton(&session) || !storage.ReadSingleton(&scene) {
		return
	}

	imgui.SetNextWindowPosV(imgui.NewVec2(210, 30), imgui.CondFirstUseEver, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(180, 120), imgui.CondFirstUseEver)
	if !imgui.BeginV("Session", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Scene: %d", scene.Scene))
	imgui.Separator()
	imgui.Text(fmt.Sprintf("Served: %d", session.Served))
	imgui.Text(fmt.Sprintf("Complaints: %d", session.Complaints))
	imgui.Text(fmt.Sprintf("Next arrival: %.2fs", session.NextArrival))
	imgui.End()
}
