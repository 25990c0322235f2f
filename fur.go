package furshell

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultFurLayers is the shell count the fur technique renders. Must match
// NUM_LAYERS in shaders/fur.wgsl, which scales the per-shell displacement.
const DefaultFurLayers uint32 = 32

// Fur renders a mesh as a stack of instanced shells. Each instance is one
// shell, displaced along the vertex normal in the shader.
type Fur struct {
	pipeline  *wgpu.RenderPipeline
	numLayers uint32
}

func NewFur(device *wgpu.Device, surfaceFormat, depthFormat wgpu.TextureFormat, binder *CameraBinder) (*Fur, error) {
	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "FurShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: furWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shader.Release()

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "FurPipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{binder.Layout()},
	})
	if err != nil {
		return nil, err
	}
	defer layout.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "FurPipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
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
	})
	if err != nil {
		return nil, err
	}
	return &Fur{pipeline: pipeline, numLayers: DefaultFurLayers}, nil
}

func (f *Fur) NumLayers() uint32 { return f.numLayers }

// Draw records one instanced draw of model, one instance per shell. The
// camera binding must be updated for this frame before the pass runs.
func (f *Fur) Draw(pass *wgpu.RenderPassEncoder, model *Model, camera *CameraBinding) {
	pass.SetPipeline(f.pipeline)
	pass.SetBindGroup(0, camera.BindGroup(), nil)
	pass.SetIndexBuffer(model.IndexBuffer(), model.IndexFormat(), 0, wgpu.WholeSize)
	pass.SetVertexBuffer(0, model.VertexBuffer(), 0, wgpu.WholeSize)
	pass.DrawIndexed(model.NumIndices(), f.numLayers, 0, 0, 0)
}

func (f *Fur) Release() { f.pipeline.Release() }
