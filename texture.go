package furshell

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Texture bundles a wgpu texture with its default view.
type Texture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	format  wgpu.TextureFormat
}

// NewDepthTexture creates a Depth32Float render target matching the surface
// size. The owner recreates it on every resize.
func NewDepthTexture(device *wgpu.Device, width, height uint32) (*Texture, error) {
	format := wgpu.TextureFormatDepth32Float
	texture, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "DepthTexture",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, err
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, err
	}
	return &Texture{texture: texture, view: view, format: format}, nil
}

func (t *Texture) Format() wgpu.TextureFormat { return t.format }

func (t *Texture) View() *wgpu.TextureView { return t.view }

func (t *Texture) Release() {
	t.view.Release()
	t.texture.Release()
}
