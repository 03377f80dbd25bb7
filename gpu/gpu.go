// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package gpu declares the capability set the shadow atlas core consumes
// at its boundary: a graphics device, a command list, a descriptor table,
// and a shader factory. The core never names a concrete
// graphics API; a concrete backend (D3D12/Vulkan via a common abstraction,
// in the style of gazed/vu/render's Renderer/graphicsContext split) is
// injected by the host application.
package gpu

import "context"

// BufferUsage flags requested at buffer creation time.
type BufferUsage uint32

const (
	BufferUAV       BufferUsage = 1 << iota // readable/writable from compute.
	BufferCPURead                           // CPU-mapped for readback.
	BufferTransient                         // lifetime scoped to one frame.
)

// TextureUsage flags requested at texture creation time.
type TextureUsage uint32

const (
	TextureDepthTarget TextureUsage = 1 << iota
	TextureUAV
	TextureShaderResource
)

// BufferDesc describes a buffer creation request.
type BufferDesc struct {
	Size    uint32
	Stride  uint32
	Usage   BufferUsage
	Initial []byte // optional initial contents, nil for zero-filled.
}

// TextureDesc describes a texture creation request.
type TextureDesc struct {
	Width, Height uint32
	Format        string // backend-defined format name, eg. "D32_FLOAT".
	Usage         TextureUsage
}

// Buffer is an opaque handle to a device buffer.
type Buffer interface {
	Size() uint32
	// Map returns the CPU-visible contents of a BufferCPURead buffer.
	// It is only valid to call once the owning EventQuery has signaled.
	Map() []byte
}

// Texture is an opaque handle to a device texture.
type Texture interface {
	Width() uint32
	Height() uint32
}

// DescriptorTable is a bindless table of resource indices. Indices are
// stable across a frame; resizing releases the old index before claiming
// a new one.
type DescriptorTable interface {
	Bind(index uint32, res any) // res is a Buffer or Texture.
	Release(index uint32)
	Alloc() (index uint32)
}

// EventQuery is a GPU completion fence. The coordinator polls it; it never
// blocks the CPU waiting for one.
type EventQuery interface {
	Signaled() bool
}

// Pipeline is an opaque compiled compute or graphics pipeline handle.
type Pipeline interface{}

// ShaderFactory compiles named compute/graphics shaders.
type ShaderFactory interface {
	Compile(name string) (Pipeline, error)
}

// Device creates GPU resources.
type Device interface {
	NewBuffer(desc BufferDesc) (Buffer, error)
	NewTexture(desc TextureDesc) (Texture, error)
	NewDescriptorTable(capacity uint32) (DescriptorTable, error)
	NewEventQuery() (EventQuery, error)
	NewCommandList() (CommandList, error)
}

// Bindings is an opaque set of shader bind-points filled in by the caller
// of CommandList.SetComputeState; concrete shape is backend-defined.
type Bindings map[string]any

// CommandList is the single-queue command recorder the coordinator uses
// to sequence shadow production within one submission; slot allocation
// happens on the CPU before recording.
type CommandList interface {
	WriteBuffer(dst Buffer, offset uint32, data []byte)
	ClearBufferUint(dst Buffer, value uint32)
	CopyBuffer(dst Buffer, dstOffset uint32, src Buffer, srcOffset, length uint32)
	Dispatch(x, y, z uint32)
	SetComputeState(pipeline Pipeline, bindings Bindings, pushConstants []byte)
	BeginMarker(name string)
	EndMarker()
	Close() error
}

// Queue submits closed command lists and reports completion via an
// EventQuery installed on the submission.
type Queue interface {
	Submit(ctx context.Context, cl CommandList) (EventQuery, error)
}
