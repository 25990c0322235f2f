package furshell

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// AssetId identifies a loaded asset in labels and log lines.
type AssetId string

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}

// Vertex is the interleaved layout the render pipelines consume.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

var vertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: uint64(unsafe.Sizeof(Vertex{})),
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
	},
}

// MorphDeltas carries the position/normal deltas of both morph targets for
// one vertex.
type MorphDeltas struct {
	D0Position mgl32.Vec3
	D0Normal   mgl32.Vec3
	D1Position mgl32.Vec3
	D1Normal   mgl32.Vec3
}

// MeshData is the CPU-side result of parsing a mesh asset, ready for upload.
type MeshData struct {
	Vertices    []Vertex
	Morphs      []MorphDeltas // empty when the asset has no morph pair
	IndexBytes  []byte
	IndexFormat wgpu.IndexFormat
	NumIndices  uint32
}

// Model is the immutable GPU-resident mesh: vertex and index buffers, index
// format, and an optional morph-target buffer.
type Model struct {
	id           AssetId
	vertexBuffer GPUBuffer
	indexBuffer  GPUBuffer
	morphBuffer  GPUBuffer // nil without morph targets
	indexFormat  wgpu.IndexFormat
	numIndices   uint32
}

// LoadModel parses a glTF/GLB file and uploads its single mesh.
func LoadModel(backend Backend, path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	data, err := meshDataFromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return NewModel(backend, data), nil
}

// meshDataFromDocument extracts exactly one mesh with one primitive. Assets
// with a different shape are rejected rather than silently picking one.
func meshDataFromDocument(doc *gltf.Document) (*MeshData, error) {
	if len(doc.Meshes) != 1 {
		return nil, fmt.Errorf("model must contain exactly one mesh, found %d", len(doc.Meshes))
	}
	mesh := doc.Meshes[0]
	if len(mesh.Primitives) != 1 {
		return nil, fmt.Errorf("mesh must contain exactly one primitive, found %d", len(mesh.Primitives))
	}
	prim := mesh.Primitives[0]

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("primitive is missing %s", gltf.POSITION)
	}
	normIdx, ok := prim.Attributes[gltf.NORMAL]
	if !ok {
		return nil, fmt.Errorf("primitive is missing %s", gltf.NORMAL)
	}
	texIdx, ok := prim.Attributes[gltf.TEXCOORD_0]
	if !ok {
		return nil, fmt.Errorf("primitive is missing %s", gltf.TEXCOORD_0)
	}
	if prim.Indices == nil {
		return nil, fmt.Errorf("primitive must use indexed geometry")
	}

	indexAcc := doc.Accessors[*prim.Indices]
	var format wgpu.IndexFormat
	switch indexAcc.ComponentType {
	case gltf.ComponentUshort:
		format = wgpu.IndexFormatUint16
	case gltf.ComponentUint:
		format = wgpu.IndexFormatUint32
	default:
		return nil, fmt.Errorf("unsupported index component type %v", indexAcc.ComponentType)
	}
	indices, err := modeler.ReadIndices(doc, indexAcc, nil)
	if err != nil {
		return nil, fmt.Errorf("read indices: %w", err)
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}
	normals, err := modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("read normals: %w", err)
	}
	texCoords, err := modeler.ReadTextureCoord(doc, doc.Accessors[texIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("read texture coords: %w", err)
	}

	// Some exporters pad one attribute stream; interleave up to the shortest.
	count := min(len(positions), len(normals), len(texCoords))
	vertices := make([]Vertex, count)
	for i := 0; i < count; i++ {
		vertices[i] = Vertex{
			Position: mgl32.Vec3(positions[i]),
			Normal:   mgl32.Vec3(normals[i]),
			TexCoord: mgl32.Vec2(texCoords[i]),
		}
	}

	morphs, err := morphsFromPrimitive(doc, prim)
	if err != nil {
		return nil, err
	}

	data := &MeshData{
		Vertices:    vertices,
		Morphs:      morphs,
		IndexFormat: format,
		NumIndices:  uint32(len(indices)),
	}
	if format == wgpu.IndexFormatUint16 {
		narrowed := make([]uint16, len(indices))
		for i, v := range indices {
			narrowed[i] = uint16(v)
		}
		data.IndexBytes = wgpu.ToBytes(narrowed)
	} else {
		data.IndexBytes = wgpu.ToBytes(indices)
	}
	return data, nil
}

// morphsFromPrimitive combines a morph-target pair into one delta stream.
// Anything other than exactly two targets yields no morph data.
func morphsFromPrimitive(doc *gltf.Document, prim *gltf.Primitive) ([]MorphDeltas, error) {
	if len(prim.Targets) != 2 {
		return nil, nil
	}
	read := func(target gltf.Attribute, semantic string) ([][3]float32, error) {
		idx, ok := target[semantic]
		if !ok {
			return nil, fmt.Errorf("morph target is missing %s", semantic)
		}
		return modeler.ReadPosition(doc, doc.Accessors[idx], nil)
	}
	p0, err := read(prim.Targets[0], gltf.POSITION)
	if err != nil {
		return nil, err
	}
	n0, err := read(prim.Targets[0], gltf.NORMAL)
	if err != nil {
		return nil, err
	}
	p1, err := read(prim.Targets[1], gltf.POSITION)
	if err != nil {
		return nil, err
	}
	n1, err := read(prim.Targets[1], gltf.NORMAL)
	if err != nil {
		return nil, err
	}
	count := min(len(p0), len(n0), len(p1), len(n1))
	morphs := make([]MorphDeltas, count)
	for i := 0; i < count; i++ {
		morphs[i] = MorphDeltas{
			D0Position: mgl32.Vec3(p0[i]),
			D0Normal:   mgl32.Vec3(n0[i]),
			D1Position: mgl32.Vec3(p1[i]),
			D1Normal:   mgl32.Vec3(n1[i]),
		}
	}
	return morphs, nil
}

// NewModel uploads parsed mesh data to immutable GPU buffers.
func NewModel(backend Backend, data *MeshData) *Model {
	m := &Model{
		id:          makeAssetId(),
		indexFormat: data.IndexFormat,
		numIndices:  data.NumIndices,
	}
	m.vertexBuffer = backend.CreateBufferInit(
		fmt.Sprintf("Vertices %s", m.id), wgpu.ToBytes(data.Vertices), wgpu.BufferUsageVertex)
	m.indexBuffer = backend.CreateBufferInit(
		fmt.Sprintf("Indices %s", m.id), data.IndexBytes, wgpu.BufferUsageIndex)
	if len(data.Morphs) > 0 {
		m.morphBuffer = backend.CreateBufferInit(
			fmt.Sprintf("Morphs %s", m.id), wgpu.ToBytes(data.Morphs), wgpu.BufferUsageVertex)
	}
	return m
}

func (m *Model) ID() AssetId { return m.id }

func (m *Model) VertexBuffer() *wgpu.Buffer { return m.vertexBuffer.Raw() }

func (m *Model) IndexBuffer() *wgpu.Buffer { return m.indexBuffer.Raw() }

// MorphBuffer returns the morph-target delta buffer, or nil when the asset
// had no morph pair.
func (m *Model) MorphBuffer() *wgpu.Buffer {
	if m.morphBuffer == nil {
		return nil
	}
	return m.morphBuffer.Raw()
}

func (m *Model) HasMorphs() bool { return m.morphBuffer != nil }

func (m *Model) IndexFormat() wgpu.IndexFormat { return m.indexFormat }

func (m *Model) NumIndices() uint32 { return m.numIndices }

func (m *Model) Release() {
	m.vertexBuffer.Release()
	m.indexBuffer.Release()
	if m.morphBuffer != nil {
		m.morphBuffer.Release()
	}
}
