package main

import (
	"log"

	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"

	debugui_ebiten "github.com/plus3/liftrush/ecs/debugui/ebiten"
	"github.com/plus3/liftrush/game"
)

func main() {
	cfg, err := game.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	width := game.ScreenWidth * cfg.WindowScale
	height := game.ScreenHeight * cfg.WindowScale

	var backend *debugui_ebiten.Backend
	if cfg.DebugUI {
		b := ebitenbackend.NewEbitenBackend()
		b.CreateWindow("Loco Lift Rush", width, height)
		imgui.CurrentIO().SetIniFilename("") // Disable imgui.ini
		backend = &debugui_ebiten.Backend{EbitenBackend: b}
	} else {
		ebiten.SetWindowSize(width, height)
		ebiten.SetWindowTitle("Loco Lift Rush")
	}

	if err := ebiten.RunGame(game.New(cfg, backend)); err != nil {
		log.Fatalf("run: %v", err)
	}
}
