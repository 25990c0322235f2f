package furshell

import (
	"errors"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Frame is one acquired surface image. Present hands it to the compositor;
// Release must run whether or not the frame was presented.
type Frame interface {
	View() *wgpu.TextureView
	Present()
	Release()
}

// FrameSource produces frames and can rebuild its swapchain after the
// platform invalidates it.
type FrameSource interface {
	Acquire() (Frame, error)
	Reconfigure(width, height uint32)
}

// GraphicsContext owns the wgpu instance, surface and device for one window.
type GraphicsContext struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	config   wgpu.SurfaceConfiguration
}

func NewGraphicsContext(window *glfw.Window) (*GraphicsContext, error) {
	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, err
	}
	device, err := adapter.RequestDevice(nil)
	if err != nil {
		return nil, err
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 {
		return nil, errors.New("surface reports no supported formats")
	}
	width, height := window.GetFramebufferSize()
	config := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, &config)

	return &GraphicsContext{
		instance: instance,
		surface:  surface,
		adapter:  adapter,
		device:   device,
		queue:    queue,
		config:   config,
	}, nil
}

func (g *GraphicsContext) Device() *wgpu.Device { return g.device }

func (g *GraphicsContext) Queue() *wgpu.Queue { return g.queue }

func (g *GraphicsContext) SurfaceFormat() wgpu.TextureFormat { return g.config.Format }

// Reconfigure rebuilds the swapchain at the given size. Zero dimensions are
// ignored; the surface cannot be configured while minimized.
func (g *GraphicsContext) Reconfigure(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	g.config.Width = width
	g.config.Height = height
	g.surface.Configure(g.adapter, g.device, &g.config)
}

// Acquire grabs the next swapchain image and wraps it as a Frame.
func (g *GraphicsContext) Acquire() (Frame, error) {
	texture, err := g.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, err
	}
	return &surfaceFrame{surface: g.surface, texture: texture, view: view}, nil
}

func (g *GraphicsContext) Release() {
	g.queue.Release()
	g.device.Release()
	g.adapter.Release()
	g.surface.Release()
	g.instance.Release()
}

type surfaceFrame struct {
	surface *wgpu.Surface
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (f *surfaceFrame) View() *wgpu.TextureView { return f.view }

func (f *surfaceFrame) Present() { f.surface.Present() }

func (f *surfaceFrame) Release() {
	f.view.Release()
	f.texture.Release()
}

// isSurfaceStale reports whether a frame acquisition error means the
// swapchain is merely out of date and a reconfigure will recover it. Device
// errors are never stale: losing the device is fatal.
func isSurfaceStale(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "device") {
		return false
	}
	return strings.Contains(msg, "outdated") || strings.Contains(msg, "lost")
}
