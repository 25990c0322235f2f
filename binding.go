package furshell

import (
	"github.com/cogentcore/webgpu/wgpu"
)

const viewProjSize = 16 * 4 // mat4x4<f32>

// CameraBinder owns the bind group layout shared by every pipeline that reads
// the camera uniform (group 0, binding 0).
type CameraBinder struct {
	layout *wgpu.BindGroupLayout
}

func NewCameraBinder(device *wgpu.Device) (*CameraBinder, error) {
	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "CameraBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					MinBindingSize:   viewProjSize,
					HasDynamicOffset: false,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	return &CameraBinder{layout: layout}, nil
}

func (b *CameraBinder) Layout() *wgpu.BindGroupLayout { return b.layout }

func (b *CameraBinder) Release() { b.layout.Release() }

// Bind snapshots the camera's view-projection matrix into a fresh uniform
// buffer and wraps it in a bind group compatible with Layout.
func (b *CameraBinder) Bind(device *wgpu.Device, camera *Camera) (*CameraBinding, error) {
	vp := camera.ViewProjection()
	buffer, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "CameraUniform",
		Contents: wgpu.ToBytes(vp[:]),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "CameraBindGroup",
		Layout: b.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		buffer.Release()
		return nil, err
	}
	return &CameraBinding{buffer: buffer, bindGroup: bindGroup}, nil
}

// CameraBinding is the GPU-visible snapshot of a camera. Update must run
// before any draw call in the frame references the binding.
type CameraBinding struct {
	buffer    *wgpu.Buffer
	bindGroup *wgpu.BindGroup
}

func (b *CameraBinding) BindGroup() *wgpu.BindGroup { return b.bindGroup }

// Update writes the camera's current view-projection matrix to the uniform.
// Call at most once per frame.
func (b *CameraBinding) Update(queue *wgpu.Queue, camera *Camera) {
	vp := camera.ViewProjection()
	if err := queue.WriteBuffer(b.buffer, 0, wgpu.ToBytes(vp[:])); err != nil {
		panic(err)
	}
}

func (b *CameraBinding) Release() {
	b.bindGroup.Release()
	b.buffer.Release()
}
