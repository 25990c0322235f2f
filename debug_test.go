package furshell

import (
	"encoding/binary"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDebugLines(backend Backend) *DebugLines {
	return &DebugLines{
		vertices: NewStagedBuffer[DebugVertex](backend, "DebugVertices", debugInitialCapacity, wgpu.BufferUsageVertex),
		indices:  NewStagedBuffer[uint32](backend, "DebugIndices", debugInitialCapacity, wgpu.BufferUsageIndex),
	}
}

func debugIndexContents(t *testing.T, backend *fakeBackend, count int) []uint32 {
	t.Helper()
	for _, buf := range backend.buffers {
		if buf.label == "DebugIndices" && !buf.released {
			require.GreaterOrEqual(t, len(buf.contents), count*4)
			indices := make([]uint32, count)
			for i := range indices {
				indices[i] = binary.LittleEndian.Uint32(buf.contents[i*4:])
			}
			return indices
		}
	}
	t.Fatal("no live DebugIndices buffer")
	return nil
}

func TestDebugPipelineMatchesScenePass(t *testing.T) {
	desc := debugPipelineDescriptor(nil, nil, wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatDepth32Float)

	require.NotNil(t, desc.DepthStencil, "pipeline must carry the pass's depth attachment format")
	assert.Equal(t, wgpu.TextureFormatDepth32Float, desc.DepthStencil.Format)
	assert.False(t, desc.DepthStencil.DepthWriteEnabled, "lines draw over the fur without occluding it")
	assert.Equal(t, wgpu.CompareFunctionAlways, desc.DepthStencil.DepthCompare)
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, desc.Primitive.Topology)
	require.Len(t, desc.Fragment.Targets, 1)
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, desc.Fragment.Targets[0].Format)
}

func TestLineBatchIndicesFollowPushOrder(t *testing.T) {
	backend := &fakeBackend{}
	lines := newTestDebugLines(backend)

	batch := lines.Batch()
	for i := 0; i < 5; i++ {
		batch.PushVertex(DebugVertex{Position: [3]float32{float32(i), 0, 0}})
	}
	batch.Close()

	assert.Equal(t, uint32(5), lines.vertices.Len())
	assert.Equal(t, uint32(5), lines.indices.Len())
	assert.Equal(t, []uint32{0, 1, 2, 3, 4}, debugIndexContents(t, backend, 5))
}

func TestLineBatchChaining(t *testing.T) {
	backend := &fakeBackend{}
	lines := newTestDebugLines(backend)

	batch := lines.Batch()
	batch.PushVertex(DebugVertex{}).PushVertex(DebugVertex{})
	batch.Close()

	assert.Equal(t, uint32(2), lines.indices.Len())
}

func TestSecondBatchContinuesIndices(t *testing.T) {
	backend := &fakeBackend{}
	lines := newTestDebugLines(backend)

	first := lines.Batch()
	for i := 0; i < 5; i++ {
		first.PushVertex(DebugVertex{})
	}
	first.Close()

	second := lines.Batch()
	second.PushVertex(DebugVertex{})
	second.Close()

	got := debugIndexContents(t, backend, 6)
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, got, "indices keep counting across batches")
}

func TestClearResetsIndexCounter(t *testing.T) {
	backend := &fakeBackend{}
	lines := newTestDebugLines(backend)

	first := lines.Batch()
	first.PushVertex(DebugVertex{})
	first.PushVertex(DebugVertex{})
	first.Close()

	lines.Clear()

	second := lines.Batch()
	second.PushVertex(DebugVertex{})
	second.Close()

	assert.Equal(t, uint32(1), lines.vertices.Len())
	assert.Equal(t, []uint32{0}, debugIndexContents(t, backend, 1))
}
