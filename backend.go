package furshell

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// GPUBuffer is the slice of wgpu buffer behavior the staging machinery needs.
// Raw returns the underlying wgpu buffer, or nil when the backend is not
// device-backed.
type GPUBuffer interface {
	Size() uint64
	Raw() *wgpu.Buffer
	Release()
}

// Backend abstracts buffer allocation and queue writes so that buffer and
// mesh-upload logic can run against a fake in tests.
type Backend interface {
	CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) GPUBuffer
	CreateBufferInit(label string, contents []byte, usage wgpu.BufferUsage) GPUBuffer
	WriteBuffer(buf GPUBuffer, offset uint64, data []byte)
}

type deviceBackend struct {
	device *wgpu.Device
	queue  *wgpu.Queue
}

// NewBackend wraps a wgpu device/queue pair as a Backend.
func NewBackend(device *wgpu.Device, queue *wgpu.Queue) Backend {
	return &deviceBackend{device: device, queue: queue}
}

type deviceBuffer struct {
	raw *wgpu.Buffer
}

func (b deviceBuffer) Size() uint64      { return b.raw.GetSize() }
func (b deviceBuffer) Raw() *wgpu.Buffer { return b.raw }
func (b deviceBuffer) Release()          { b.raw.Release() }

func (d *deviceBackend) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) GPUBuffer {
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		// Allocation failure takes down the whole graphics context.
		panic(err)
	}
	return deviceBuffer{raw: buf}
}

func (d *deviceBackend) CreateBufferInit(label string, contents []byte, usage wgpu.BufferUsage) GPUBuffer {
	buf, err := d.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: contents,
		Usage:    usage,
	})
	if err != nil {
		panic(err)
	}
	return deviceBuffer{raw: buf}
}

func (d *deviceBackend) WriteBuffer(buf GPUBuffer, offset uint64, data []byte) {
	if err := d.queue.WriteBuffer(buf.Raw(), offset, data); err != nil {
		panic(err)
	}
}
