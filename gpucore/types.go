// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

// Resource IDs
//
// These opaque IDs represent GPU resources. Each adapter implementation
// maintains a mapping between IDs and actual backend resources.
// IDs are uint64 to accommodate various backend handle sizes.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// TextureViewID is an opaque handle to a texture view usable as a render
// pass color attachment.
type TextureViewID uint64

// ShaderModuleID is an opaque handle to a compiled shader module.
type ShaderModuleID uint64

// ComputePipelineID is an opaque handle to a compute pipeline.
type ComputePipelineID uint64

// RenderPipelineID is an opaque handle to a render pipeline.
type RenderPipelineID uint64

// BindGroupLayoutID is an opaque handle to a bind group layout.
type BindGroupLayoutID uint64

// BindGroupID is an opaque handle to a bind group.
type BindGroupID uint64

// PipelineLayoutID is an opaque handle to a pipeline layout.
type PipelineLayoutID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	// BufferUsageMapRead indicates the buffer can be mapped for reading.
	BufferUsageMapRead BufferUsage = 1 << 0

	// BufferUsageMapWrite indicates the buffer can be mapped for writing.
	BufferUsageMapWrite BufferUsage = 1 << 1

	// BufferUsageCopySrc indicates the buffer can be used as a copy source.
	BufferUsageCopySrc BufferUsage = 1 << 2

	// BufferUsageCopyDst indicates the buffer can be used as a copy destination.
	BufferUsageCopyDst BufferUsage = 1 << 3

	// BufferUsageVertex indicates the buffer can be used as a vertex buffer.
	BufferUsageVertex BufferUsage = 1 << 5

	// BufferUsageUniform indicates the buffer can be used as a uniform buffer.
	BufferUsageUniform BufferUsage = 1 << 6

	// BufferUsageStorage indicates the buffer can be used as a storage buffer.
	BufferUsageStorage BufferUsage = 1 << 7
)

// TextureFormat specifies the format of texture data.
type TextureFormat uint32

// Texture formats.
const (
	// TextureFormatUndefined is the zero value.
	TextureFormatUndefined TextureFormat = iota

	// TextureFormatRGBA8Unorm is 8-bit RGBA, normalized unsigned integer.
	TextureFormatRGBA8Unorm

	// TextureFormatRGBA8UnormSRGB is 8-bit RGBA, normalized unsigned integer in sRGB color space.
	TextureFormatRGBA8UnormSRGB

	// TextureFormatBGRA8Unorm is 8-bit BGRA, normalized unsigned integer.
	TextureFormatBGRA8Unorm

	// TextureFormatBGRA8UnormSRGB is 8-bit BGRA, normalized unsigned integer in sRGB color space.
	TextureFormatBGRA8UnormSRGB

	// TextureFormatRGBA16Float is 16-bit RGBA, floating point.
	TextureFormatRGBA16Float
)

// String returns the WebGPU name of the format.
func (f TextureFormat) String() string {
	switch f {
	case TextureFormatRGBA8Unorm:
		return "rgba8unorm"
	case TextureFormatRGBA8UnormSRGB:
		return "rgba8unorm-srgb"
	case TextureFormatBGRA8Unorm:
		return "bgra8unorm"
	case TextureFormatBGRA8UnormSRGB:
		return "bgra8unorm-srgb"
	case TextureFormatRGBA16Float:
		return "rgba16float"
	default:
		return "undefined"
	}
}

// IsSRGB reports whether the format applies the sRGB transfer function on write.
func (f TextureFormat) IsSRGB() bool {
	return f == TextureFormatRGBA8UnormSRGB || f == TextureFormatBGRA8UnormSRGB
}

// ShaderStage is a bitmask of pipeline stages that may access a binding.
type ShaderStage uint32

// Shader stages.
const (
	ShaderStageVertex   ShaderStage = 1 << 0
	ShaderStageFragment ShaderStage = 1 << 1
	ShaderStageCompute  ShaderStage = 1 << 2
)

// BindingType specifies the type of a shader binding.
type BindingType uint32

// Binding types.
const (
	// BindingTypeUniformBuffer is a uniform buffer binding.
	BindingTypeUniformBuffer BindingType = iota + 1

	// BindingTypeStorageBuffer is a storage buffer binding (read-write).
	BindingTypeStorageBuffer

	// BindingTypeReadOnlyStorageBuffer is a read-only storage buffer binding.
	BindingTypeReadOnlyStorageBuffer
)

// VertexFormat is the format of a single vertex attribute.
type VertexFormat uint32

// Vertex formats.
const (
	VertexFormatFloat32x2 VertexFormat = iota + 1
	VertexFormatFloat32x4
)

// Size returns the attribute size in bytes.
func (f VertexFormat) Size() uint64 {
	switch f {
	case VertexFormatFloat32x2:
		return 8
	case VertexFormatFloat32x4:
		return 16
	default:
		return 0
	}
}

// PresentMode selects how acquired images are queued for display.
type PresentMode uint32

// Present modes.
const (
	PresentModeFifo PresentMode = iota
	PresentModeMailbox
	PresentModeImmediate
)

// Color is a linear RGBA clear color.
type Color struct {
	R, G, B, A float64
}

// ShaderModuleDesc describes a shader module. Exactly one of WGSL or SPIRV
// should be set.
type ShaderModuleDesc struct {
	// Label is an optional debug label.
	Label string

	// WGSL is shader source text.
	WGSL string

	// SPIRV is precompiled SPIR-V bytecode.
	SPIRV []uint32
}

// ComputePipelineDesc describes a compute pipeline.
type ComputePipelineDesc struct {
	// Label is an optional debug label.
	Label string

	// Layout is the pipeline layout.
	Layout PipelineLayoutID

	// ShaderModule contains the compute shader.
	ShaderModule ShaderModuleID

	// EntryPoint is the name of the shader entry point function.
	EntryPoint string
}

// VertexAttribute describes one attribute within a vertex buffer.
type VertexAttribute struct {
	Format         VertexFormat
	Offset         uint64
	ShaderLocation uint32
}

// VertexBufferLayout describes how a vertex buffer is laid out in memory.
type VertexBufferLayout struct {
	// ArrayStride is the byte distance between consecutive vertices.
	ArrayStride uint64

	// Attributes are the attributes read from each vertex.
	Attributes []VertexAttribute
}

// RenderPipelineDesc describes a render pipeline with one color target and
// triangle-list topology.
type RenderPipelineDesc struct {
	// Label is an optional debug label.
	Label string

	// Layout is the pipeline layout.
	Layout PipelineLayoutID

	// ShaderModule contains both the vertex and fragment entry points.
	ShaderModule ShaderModuleID

	// VertexEntryPoint is the vertex stage entry point.
	VertexEntryPoint string

	// FragmentEntryPoint is the fragment stage entry point.
	FragmentEntryPoint string

	// VertexBuffers describes the vertex buffer slots, in slot order.
	VertexBuffers []VertexBufferLayout

	// TargetFormat is the color attachment format.
	TargetFormat TextureFormat
}

// BindGroupLayoutDesc describes a bind group layout.
type BindGroupLayoutDesc struct {
	// Label is an optional debug label.
	Label string

	// Entries defines the bindings in this layout.
	Entries []BindGroupLayoutEntry
}

// BindGroupLayoutEntry describes a single binding in a bind group layout.
type BindGroupLayoutEntry struct {
	// Binding is the binding index.
	Binding uint32

	// Visibility lists the shader stages that may access the binding.
	Visibility ShaderStage

	// Type is the type of resource bound at this index.
	Type BindingType

	// MinBindingSize is the minimum buffer size for buffer bindings.
	MinBindingSize uint64
}

// BindGroupEntry describes a single binding in a bind group.
type BindGroupEntry struct {
	// Binding is the binding index.
	Binding uint32

	// Buffer is the buffer to bind.
	Buffer BufferID

	// Offset is the offset into the buffer.
	Offset uint64

	// Size is the size of the buffer range to bind.
	// Use 0 to bind the entire buffer from offset.
	Size uint64
}

// RenderPassDesc describes a render pass with a single color attachment that
// is cleared on load and stored on completion.
type RenderPassDesc struct {
	// Label is an optional debug label.
	Label string

	// ColorView is the attachment, usually the acquired surface image.
	ColorView TextureViewID

	// ClearColor is the load-op clear value.
	ClearColor Color
}

// SurfaceConfig is the presentation surface configuration.
type SurfaceConfig struct {
	Width       uint32
	Height      uint32
	Format      TextureFormat
	PresentMode PresentMode
}
