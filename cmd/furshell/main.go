package main

import (
	"flag"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/sotrh/furshell"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "furshell.yaml", "path to the settings file")
	modelPath := flag.String("model", "res/spherical-cube.glb", "path to the glTF model")
	flag.Parse()

	log := furshell.NewDefaultLogger("furshell", false)

	cfg, err := furshell.LoadConfig(*configPath)
	if err != nil {
		log.Warnf("using default config: %v", err)
	}

	if err := glfw.Init(); err != nil {
		log.Errorf("initializing glfw: %v", err)
		os.Exit(1)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, "furshell", nil, nil)
	if err != nil {
		log.Errorf("creating window: %v", err)
		os.Exit(1)
	}
	defer window.Destroy()

	game, err := furshell.NewGame(cfg, *modelPath, window, log)
	if err != nil {
		log.Errorf("starting game: %v", err)
		os.Exit(1)
	}
	defer game.Release()

	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		game.HandleKey(key, action != glfw.Release)
	})
	window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		game.HandleMouseButton(button, action == glfw.Press)
	})
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		game.HandleCursorPos(x, y)
	})
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		game.Resize(uint32(width), uint32(height))
	})
	window.Show()

	for !window.ShouldClose() && game.Running() {
		glfw.PollEvents()
		game.RenderFrame()
	}

	if err := furshell.SaveConfig(*configPath, game.ExportConfig()); err != nil {
		log.Warnf("saving config: %v", err)
	}
}
