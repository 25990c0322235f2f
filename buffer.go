package furshell

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// StagedBuffer keeps an ordered host-side slice of records mirrored by a GPU
// buffer. The GPU allocation only grows; all mutation goes through a Batch so
// that steady-state updates upload just the appended bytes.
type StagedBuffer[T any] struct {
	backend   Backend
	label     string
	usage     wgpu.BufferUsage
	buffer    GPUBuffer
	data      []T
	batchOpen bool
}

// NewStagedBuffer allocates a GPU buffer sized for capacity records. The
// buffer always carries the copy-destination capability on top of the
// requested usage.
func NewStagedBuffer[T any](backend Backend, label string, capacity int, usage wgpu.BufferUsage) *StagedBuffer[T] {
	usage |= wgpu.BufferUsageCopyDst
	var zero T
	size := uint64(unsafe.Sizeof(zero)) * uint64(capacity)
	return &StagedBuffer[T]{
		backend: backend,
		label:   label,
		usage:   usage,
		buffer:  backend.CreateBuffer(label, size, usage),
		data:    make([]T, 0, capacity),
	}
}

// Len reports the number of records in the host sequence.
func (b *StagedBuffer[T]) Len() uint32 { return uint32(len(b.data)) }

// Clear empties the host sequence without shrinking the GPU allocation.
func (b *StagedBuffer[T]) Clear() { b.data = b.data[:0] }

// Raw exposes the GPU buffer for draw-call binding.
func (b *StagedBuffer[T]) Raw() *wgpu.Buffer { return b.buffer.Raw() }

func (b *StagedBuffer[T]) Release() { b.buffer.Release() }

// Batch opens a write transaction. Exactly one batch may be open per buffer;
// the caller must Close it on every exit path, typically with defer.
func (b *StagedBuffer[T]) Batch() *Batch[T] {
	if b.batchOpen {
		panic(fmt.Sprintf("StagedBuffer %q already has an open batch", b.label))
	}
	b.batchOpen = true
	return &Batch[T]{buffer: b, start: len(b.data)}
}

// Batch stages appends to a StagedBuffer. Records pushed during the batch are
// not visible to the GPU until Close.
type Batch[T any] struct {
	buffer *StagedBuffer[T]
	start  int
	closed bool
}

// Push appends one record to the host sequence.
func (t *Batch[T]) Push(v T) {
	t.buffer.data = append(t.buffer.data, v)
}

// Close flushes the transaction. If the host sequence outgrew the GPU
// allocation the buffer is reallocated to exactly fit and uploaded whole;
// otherwise only the bytes appended since the batch opened are written. An
// empty sequence causes no GPU traffic. Closing twice is a no-op.
func (t *Batch[T]) Close() {
	if t.closed {
		return
	}
	t.closed = true
	b := t.buffer
	b.batchOpen = false

	if len(b.data) == 0 {
		return
	}

	var zero T
	stride := uint64(unsafe.Sizeof(zero))
	if uint64(len(b.data))*stride > b.buffer.Size() {
		old := b.buffer
		b.buffer = b.backend.CreateBufferInit(b.label, wgpu.ToBytes(b.data), b.usage)
		old.Release()
	} else if len(b.data) > t.start {
		b.backend.WriteBuffer(b.buffer, uint64(t.start)*stride, wgpu.ToBytes(b.data[t.start:]))
	}
}
