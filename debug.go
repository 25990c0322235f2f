package furshell

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

const debugInitialCapacity = 64

// DebugVertex is one endpoint of a debug line.
type DebugVertex struct {
	Position [3]float32
	Color    [3]float32
}

var debugVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: uint64(unsafe.Sizeof(DebugVertex{})),
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
	},
}

// DebugLines draws accumulated world-space line segments on top of the scene.
// Geometry persists across frames until Clear.
type DebugLines struct {
	pipeline *wgpu.RenderPipeline
	vertices *StagedBuffer[DebugVertex]
	indices  *StagedBuffer[uint32]
}

func NewDebugLines(device *wgpu.Device, backend Backend, surfaceFormat, depthFormat wgpu.TextureFormat, binder *CameraBinder) (*DebugLines, error) {
	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "DebugShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: debugWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shader.Release()

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "DebugPipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{binder.Layout()},
	})
	if err != nil {
		return nil, err
	}
	defer layout.Release()

	pipeline, err := device.CreateRenderPipeline(debugPipelineDescriptor(shader, layout, surfaceFormat, depthFormat))
	if err != nil {
		return nil, err
	}
	return &DebugLines{
		pipeline: pipeline,
		vertices: NewStagedBuffer[DebugVertex](backend, "DebugVertices", debugInitialCapacity, wgpu.BufferUsageVertex),
		indices:  NewStagedBuffer[uint32](backend, "DebugIndices", debugInitialCapacity, wgpu.BufferUsageIndex),
	}, nil
}

// debugPipelineDescriptor shares the scene pass's depth attachment but never
// tests or writes depth, so lines draw over the fur.
func debugPipelineDescriptor(shader *wgpu.ShaderModule, layout *wgpu.PipelineLayout, surfaceFormat, depthFormat wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor {
	return &wgpu.RenderPipelineDescriptor{
		Label:  "DebugPipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{debugVertexLayout},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyLineList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: false,
			DepthCompare:      wgpu.CompareFunctionAlways,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
	}
}

// Batch opens a transaction appending vertices and matching sequential
// indices. Close it before drawing.
func (d *DebugLines) Batch() *LineBatch {
	return &LineBatch{
		vertices: d.vertices.Batch(),
		indices:  d.indices.Batch(),
		next:     d.vertices.Len(),
	}
}

// Clear drops all accumulated lines.
func (d *DebugLines) Clear() {
	d.vertices.Clear()
	d.indices.Clear()
}

// Draw records the accumulated line list. A no-op when nothing is staged.
func (d *DebugLines) Draw(pass *wgpu.RenderPassEncoder, camera *CameraBinding) {
	count := d.indices.Len()
	if count == 0 {
		return
	}
	pass.SetPipeline(d.pipeline)
	pass.SetBindGroup(0, camera.BindGroup(), nil)
	pass.SetIndexBuffer(d.indices.Raw(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.SetVertexBuffer(0, d.vertices.Raw(), 0, wgpu.WholeSize)
	pass.DrawIndexed(count, 1, 0, 0, 0)
}

func (d *DebugLines) Release() {
	d.vertices.Release()
	d.indices.Release()
	d.pipeline.Release()
}

// LineBatch stages vertices and indices together so every pushed vertex is
// referenced exactly once, in push order.
type LineBatch struct {
	vertices *Batch[DebugVertex]
	indices  *Batch[uint32]
	next     uint32
}

// PushVertex appends a vertex and its index. Returns the batch for chaining.
func (b *LineBatch) PushVertex(v DebugVertex) *LineBatch {
	b.vertices.Push(v)
	b.indices.Push(b.next)
	b.next++
	return b
}

func (b *LineBatch) Close() {
	b.vertices.Close()
	b.indices.Close()
}
