// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package main

import (
	"context"

	"github.com/shadowatlas/shadowatlas/gpu"
)

// nullDevice, nullQueue, and nullCommandList stand in for a real GPU
// backend: atlasdump exercises the core pipeline's CPU-side sequencing and
// the reconstruction sampler, not an actual rasterizer. A concrete backend
// in the style of gazed/vu/render's Vulkan/GL implementations would satisfy
// the same gpu interfaces this package stubs out.
type nullDevice struct{}

func (nullDevice) NewBuffer(desc gpu.BufferDesc) (gpu.Buffer, error) {
	return nullBuffer{size: desc.Size}, nil
}

func (nullDevice) NewTexture(desc gpu.TextureDesc) (gpu.Texture, error) {
	return nullTexture{w: desc.Width, h: desc.Height}, nil
}

func (nullDevice) NewDescriptorTable(capacity uint32) (gpu.DescriptorTable, error) {
	return &nullDescriptorTable{}, nil
}

func (nullDevice) NewEventQuery() (gpu.EventQuery, error) { return nullEventQuery{}, nil }

func (nullDevice) NewCommandList() (gpu.CommandList, error) { return nullCommandList{}, nil }

type nullBuffer struct{ size uint32 }

func (b nullBuffer) Size() uint32 { return b.size }
func (b nullBuffer) Map() []byte  { return make([]byte, b.size) }

type nullTexture struct{ w, h uint32 }

func (t nullTexture) Width() uint32  { return t.w }
func (t nullTexture) Height() uint32 { return t.h }

type nullDescriptorTable struct{ next uint32 }

func (d *nullDescriptorTable) Bind(index uint32, res any) {}
func (d *nullDescriptorTable) Release(index uint32)        {}
func (d *nullDescriptorTable) Alloc() uint32               { d.next++; return d.next - 1 }

type nullEventQuery struct{}

func (nullEventQuery) Signaled() bool { return true }

type nullPipeline struct{}

type nullShaderFactory struct{}

func (nullShaderFactory) Compile(name string) (gpu.Pipeline, error) { return nullPipeline{}, nil }

type nullCommandList struct{}

func (nullCommandList) WriteBuffer(dst gpu.Buffer, offset uint32, data []byte)                {}
func (nullCommandList) ClearBufferUint(dst gpu.Buffer, value uint32)                          {}
func (nullCommandList) CopyBuffer(dst gpu.Buffer, dOff uint32, src gpu.Buffer, sOff, n uint32) {}
func (nullCommandList) Dispatch(x, y, z uint32)                                               {}
func (nullCommandList) SetComputeState(p gpu.Pipeline, b gpu.Bindings, pushConstants []byte)   {}
func (nullCommandList) BeginMarker(name string)                                               {}
func (nullCommandList) EndMarker()                                                            {}
func (nullCommandList) Close() error                                                          { return nil }

type nullQueue struct{}

func (nullQueue) Submit(ctx context.Context, cl gpu.CommandList) (gpu.EventQuery, error) {
	return nullEventQuery{}, nil
}
