// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"github.com/gogpu/cellgrid/gpucore"
	"github.com/gogpu/gputypes"
)

// convertBufferUsage converts gpucore.BufferUsage to gputypes.BufferUsage.
func convertBufferUsage(usage gpucore.BufferUsage) gputypes.BufferUsage {
	var result gputypes.BufferUsage

	if usage&gpucore.BufferUsageMapRead != 0 {
		result |= gputypes.BufferUsageMapRead
	}
	if usage&gpucore.BufferUsageMapWrite != 0 {
		result |= gputypes.BufferUsageMapWrite
	}
	if usage&gpucore.BufferUsageCopySrc != 0 {
		result |= gputypes.BufferUsageCopySrc
	}
	if usage&gpucore.BufferUsageCopyDst != 0 {
		result |= gputypes.BufferUsageCopyDst
	}
	if usage&gpucore.BufferUsageVertex != 0 {
		result |= gputypes.BufferUsageVertex
	}
	if usage&gpucore.BufferUsageUniform != 0 {
		result |= gputypes.BufferUsageUniform
	}
	if usage&gpucore.BufferUsageStorage != 0 {
		result |= gputypes.BufferUsageStorage
	}

	return result
}

// convertTextureFormat converts gpucore.TextureFormat to gputypes.TextureFormat.
func convertTextureFormat(format gpucore.TextureFormat) gputypes.TextureFormat {
	switch format {
	case gpucore.TextureFormatRGBA8Unorm:
		return gputypes.TextureFormatRGBA8Unorm
	case gpucore.TextureFormatRGBA8UnormSRGB:
		return gputypes.TextureFormatRGBA8UnormSrgb
	case gpucore.TextureFormatBGRA8Unorm:
		return gputypes.TextureFormatBGRA8Unorm
	case gpucore.TextureFormatBGRA8UnormSRGB:
		return gputypes.TextureFormatBGRA8UnormSrgb
	case gpucore.TextureFormatRGBA16Float:
		return gputypes.TextureFormatRGBA16Float
	default:
		return gputypes.TextureFormatUndefined
	}
}

// TextureFormatFromHAL converts a HAL format to gpucore. Formats the
// simulation has no use for map to TextureFormatUndefined.
func TextureFormatFromHAL(format gputypes.TextureFormat) gpucore.TextureFormat {
	switch format {
	case gputypes.TextureFormatRGBA8Unorm:
		return gpucore.TextureFormatRGBA8Unorm
	case gputypes.TextureFormatRGBA8UnormSrgb:
		return gpucore.TextureFormatRGBA8UnormSRGB
	case gputypes.TextureFormatBGRA8Unorm:
		return gpucore.TextureFormatBGRA8Unorm
	case gputypes.TextureFormatBGRA8UnormSrgb:
		return gpucore.TextureFormatBGRA8UnormSRGB
	case gputypes.TextureFormatRGBA16Float:
		return gpucore.TextureFormatRGBA16Float
	default:
		return gpucore.TextureFormatUndefined
	}
}

// convertShaderStage converts a gpucore stage mask to gputypes.
func convertShaderStage(stage gpucore.ShaderStage) gputypes.ShaderStage {
	var result gputypes.ShaderStage
	if stage&gpucore.ShaderStageVertex != 0 {
		result |= gputypes.ShaderStageVertex
	}
	if stage&gpucore.ShaderStageFragment != 0 {
		result |= gputypes.ShaderStageFragment
	}
	if stage&gpucore.ShaderStageCompute != 0 {
		result |= gputypes.ShaderStageCompute
	}
	return result
}

// convertBindGroupLayoutEntry converts gpucore.BindGroupLayoutEntry to gputypes.BindGroupLayoutEntry.
func convertBindGroupLayoutEntry(entry gpucore.BindGroupLayoutEntry) gputypes.BindGroupLayoutEntry {
	result := gputypes.BindGroupLayoutEntry{
		Binding:    entry.Binding,
		Visibility: convertShaderStage(entry.Visibility),
	}

	switch entry.Type {
	case gpucore.BindingTypeUniformBuffer:
		result.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeUniform,
			MinBindingSize: entry.MinBindingSize,
		}
	case gpucore.BindingTypeStorageBuffer:
		result.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeStorage,
			MinBindingSize: entry.MinBindingSize,
		}
	case gpucore.BindingTypeReadOnlyStorageBuffer:
		result.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeReadOnlyStorage,
			MinBindingSize: entry.MinBindingSize,
		}
	}

	return result
}

// convertVertexFormat converts gpucore.VertexFormat to gputypes.VertexFormat.
func convertVertexFormat(format gpucore.VertexFormat) gputypes.VertexFormat {
	switch format {
	case gpucore.VertexFormatFloat32x4:
		return gputypes.VertexFormatFloat32x4
	default:
		return gputypes.VertexFormatFloat32x2
	}
}

// convertVertexBufferLayout converts a per-vertex buffer layout.
func convertVertexBufferLayout(layout gpucore.VertexBufferLayout) gputypes.VertexBufferLayout {
	attrs := make([]gputypes.VertexAttribute, len(layout.Attributes))
	for i, a := range layout.Attributes {
		attrs[i] = gputypes.VertexAttribute{
			Format:         convertVertexFormat(a.Format),
			Offset:         a.Offset,
			ShaderLocation: a.ShaderLocation,
		}
	}
	return gputypes.VertexBufferLayout{
		ArrayStride: layout.ArrayStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}
}
