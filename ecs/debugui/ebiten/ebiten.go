// Package ebiten bridges the Dear ImGui ebiten backend into the ECS as a
// singleton component.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
)

// Backend wraps the cimgui ebiten backend. Store it as a singleton and call
// BeginFrame/EndFrame around the scheduler in Update and Draw(screen) from
// the game's Draw.
type Backend struct {
	*ebitenbackend.EbitenBackend
}
