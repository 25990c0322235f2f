package furshell

import (
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const walkSpeed = 0.5 // units per second per held key

// SceneRenderer draws one frame's scene into the given surface view.
type SceneRenderer interface {
	Resize(width, height uint32) error
	Render(view *wgpu.TextureView, camera *Camera, dt float32) error
}

// furScene owns the GPU resources of the fur demo scene: depth target,
// camera binding, pipelines and the model.
type furScene struct {
	device  *wgpu.Device
	queue   *wgpu.Queue
	depth   *Texture
	binder  *CameraBinder
	binding *CameraBinding
	fur     *Fur
	debug   *DebugLines
	model   *Model
}

func (s *furScene) Resize(width, height uint32) error {
	depth, err := NewDepthTexture(s.device, width, height)
	if err != nil {
		return err
	}
	s.depth.Release()
	s.depth = depth
	return nil
}

func (s *furScene) Render(view *wgpu.TextureView, camera *Camera, dt float32) error {
	s.binding.Update(s.queue, camera)

	encoder, err := s.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "FrameEncoder"})
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "ScenePass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            s.depth.View(),
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	s.fur.Draw(pass, s.model, s.binding)
	s.debug.Draw(pass, s.binding)
	if err := pass.End(); err != nil {
		return err
	}
	pass.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer cmd.Release()
	s.queue.Submit(cmd)
	return nil
}

func (s *furScene) release() {
	s.model.Release()
	s.debug.Release()
	s.fur.Release()
	s.binding.Release()
	s.binder.Release()
	s.depth.Release()
}

// Game drives the frame lifecycle: input, camera motion, surface recovery and
// scene rendering. It stays runnable until the player quits or a fatal GPU
// error occurs.
type Game struct {
	log    Logger
	ctx    *GraphicsContext
	frames FrameSource
	scene  SceneRenderer
	debug  *DebugLines
	window *glfw.Window
	camera Camera

	running  bool
	lastTime time.Time
	clock    func() time.Time

	width, height uint32
	windowedW     int
	windowedH     int

	mouseSensitivity float32
	lookActive       bool
	cursorX, cursorY float64
	hasCursor        bool

	forward, backward float32
	left, right       float32
	up, down          float32
}

func NewGame(cfg Config, modelPath string, window *glfw.Window, log Logger) (*Game, error) {
	if cfg.Fullscreen {
		if monitor := findMonitor(cfg.Monitor); monitor != nil {
			mode := monitor.GetVideoMode()
			window.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
		}
	} else {
		window.SetSize(cfg.Width, cfg.Height)
	}

	ctx, err := NewGraphicsContext(window)
	if err != nil {
		return nil, err
	}
	fbW, fbH := window.GetFramebufferSize()
	width, height := uint32(fbW), uint32(fbH)
	ctx.Reconfigure(width, height)

	depth, err := NewDepthTexture(ctx.Device(), width, height)
	if err != nil {
		return nil, err
	}
	binder, err := NewCameraBinder(ctx.Device())
	if err != nil {
		return nil, err
	}
	camera := LookAt(
		mgl32.Vec3{0, 0, 4}, mgl32.Vec3{0, 0, 0},
		float32(width), float32(height), 1, 0.1, 100)
	binding, err := binder.Bind(ctx.Device(), &camera)
	if err != nil {
		return nil, err
	}
	fur, err := NewFur(ctx.Device(), ctx.SurfaceFormat(), depth.Format(), binder)
	if err != nil {
		return nil, err
	}
	backend := NewBackend(ctx.Device(), ctx.Queue())
	debug, err := NewDebugLines(ctx.Device(), backend, ctx.SurfaceFormat(), depth.Format(), binder)
	if err != nil {
		return nil, err
	}
	model, err := LoadModel(backend, modelPath)
	if err != nil {
		return nil, err
	}
	log.Infof("loaded model %s as asset %s", modelPath, model.ID())

	return &Game{
		log:    log,
		ctx:    ctx,
		frames: ctx,
		scene: &furScene{
			device:  ctx.Device(),
			queue:   ctx.Queue(),
			depth:   depth,
			binder:  binder,
			binding: binding,
			fur:     fur,
			debug:   debug,
			model:   model,
		},
		debug:            debug,
		window:           window,
		camera:           camera,
		running:          true,
		clock:            time.Now,
		width:            width,
		height:           height,
		windowedW:        cfg.Width,
		windowedH:        cfg.Height,
		mouseSensitivity: cfg.MouseSensitivity,
	}, nil
}

func (g *Game) Running() bool { return g.running }

func (g *Game) Camera() *Camera { return &g.camera }

// Debug exposes the line overlay for pushing world-space debug geometry.
func (g *Game) Debug() *DebugLines { return g.debug }

// RenderFrame acquires a frame, advances the simulation by the wall-clock
// delta and renders. A stale surface reconfigures and skips the frame; any
// other acquisition or render error stops the game.
func (g *Game) RenderFrame() {
	frame, err := g.frames.Acquire()
	if err != nil {
		if isSurfaceStale(err) {
			g.log.Warnf("surface stale, reconfiguring: %v", err)
			g.frames.Reconfigure(g.width, g.height)
			return
		}
		g.log.Errorf("acquiring frame: %v", err)
		g.running = false
		return
	}
	defer frame.Release()

	now := g.clock()
	var dt float32
	if !g.lastTime.IsZero() {
		dt = float32(now.Sub(g.lastTime).Seconds())
	}
	g.lastTime = now

	g.camera.WalkForward((g.forward - g.backward) * dt)
	g.camera.WalkRight((g.right - g.left) * dt)
	g.camera.LevitateUp((g.up - g.down) * dt)

	if err := g.scene.Render(frame.View(), &g.camera, dt); err != nil {
		g.log.Errorf("rendering frame: %v", err)
		g.running = false
		return
	}
	frame.Present()
}

// Resize reacts to a framebuffer size change. Zero dimensions (minimized
// window) are ignored.
func (g *Game) Resize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	g.width = width
	g.height = height
	g.frames.Reconfigure(width, height)
	g.camera.Resize(width, height)
	if err := g.scene.Resize(width, height); err != nil {
		g.log.Errorf("resizing scene: %v", err)
		g.running = false
	}
}

// HandleKey maps navigation keys to camera axes. Escape quits, F11 toggles
// fullscreen on release.
func (g *Game) HandleKey(key glfw.Key, pressed bool) {
	var speed float32
	if pressed {
		speed = walkSpeed
	}
	switch key {
	case glfw.KeyW:
		g.forward = speed
	case glfw.KeyS:
		g.backward = speed
	case glfw.KeyA:
		g.left = speed
	case glfw.KeyD:
		g.right = speed
	case glfw.KeySpace:
		g.up = speed
	case glfw.KeyLeftShift:
		g.down = speed
	case glfw.KeyEscape:
		if pressed {
			g.running = false
		}
	case glfw.KeyF11:
		if !pressed {
			g.ToggleFullscreen()
		}
	}
}

// HandleMouseButton toggles look mode while the left button is held, hiding
// the cursor so deltas keep arriving at the screen edge.
func (g *Game) HandleMouseButton(button glfw.MouseButton, pressed bool) {
	if button != glfw.MouseButtonLeft {
		return
	}
	g.lookActive = pressed
	if pressed {
		g.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		g.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

// HandleCursorPos turns cursor deltas into camera rotation while look mode is
// active. The first position after gaining the cursor only seeds the delta.
func (g *Game) HandleCursorPos(x, y float64) {
	if g.hasCursor && g.lookActive {
		dx := float32(x - g.cursorX)
		dy := float32(y - g.cursorY)
		g.camera.RotateRight(dx * g.mouseSensitivity)
		g.camera.RotateUp(-dy * g.mouseSensitivity)
	}
	g.cursorX, g.cursorY = x, y
	g.hasCursor = true
}

// ToggleFullscreen switches between windowed mode and borderless fullscreen
// on the window's current monitor.
func (g *Game) ToggleFullscreen() {
	if monitor := g.window.GetMonitor(); monitor != nil {
		g.window.SetMonitor(nil, 0, 0, g.windowedW, g.windowedH, glfw.DontCare)
		return
	}
	g.windowedW, g.windowedH = g.window.GetSize()
	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return
	}
	mode := monitor.GetVideoMode()
	g.window.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
}

// ExportConfig snapshots the window state for saving on exit.
func (g *Game) ExportConfig() Config {
	cfg := Config{
		MouseSensitivity: g.mouseSensitivity,
		Width:            g.windowedW,
		Height:           g.windowedH,
	}
	if monitor := g.window.GetMonitor(); monitor != nil {
		cfg.Fullscreen = true
		cfg.Monitor = monitor.GetName()
	} else {
		cfg.Width, cfg.Height = g.window.GetSize()
	}
	return cfg
}

func (g *Game) Release() {
	if scene, ok := g.scene.(*furScene); ok {
		scene.release()
	}
	g.ctx.Release()
}

// findMonitor returns the monitor with the given name, or the primary one
// when the name is empty or no longer attached.
func findMonitor(name string) *glfw.Monitor {
	monitors := glfw.GetMonitors()
	if len(monitors) == 0 {
		return nil
	}
	if name != "" {
		for _, m := range monitors {
			if m.GetName() == name {
				return m
			}
		}
	}
	if primary := glfw.GetPrimaryMonitor(); primary != nil {
		return primary
	}
	return monitors[0]
}
