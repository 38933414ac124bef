/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package blockpool

import (
	"encoding/binary"
	"unsafe"
)

// ControlBlockSize is the published upper bound on the control-block
// footprint StateSize reports. It exists so integrators can size a
// static state buffer at compile time (spec's "compile-time assertion
// against a caller-defined upper bound"), the same role
// DefaultBitmapMinBlockSize/DefaultBitmapMaxBlockSize play in
// unsafex/malloc: a documented constant, not a computed one.
const ControlBlockSize = 256

// Pool is a fixed-size block allocator over two caller-owned byte
// regions. The zero value is not usable; obtain a *Pool from Init.
//
// Apart from the Pool value that Init allocates, a Pool never allocates
// from the Go heap: bitmap and free-list state live entirely inside the
// pool region passed to Init.
// The struct below is the control block (§3); unlike unsafex/malloc's
// BitmapAllocator/BuddyAllocator, which place their header fields
// directly in the arena via unsafe.Pointer, Pool keeps its own fields as
// an ordinary Go struct rather than overlaying them on the caller's
// state buffer, because several of them (the sync hook's callbacks) are
// Go values the garbage collector must be able to see — see DESIGN.md
// for the full rationale. The caller-supplied state buffer is still
// required and size-checked against StateSize as a capacity contract.
type Pool struct {
	hook syncHook

	bitmap []byte // subslice of the pool region: one bit per block
	blocks []byte // subslice of the pool region: N blocks of blockSize bytes

	blockSize    uint32
	alignment    uint32
	totalBlocks  uint32
	freeBlocks   uint32
	usedBlocks   uint32
	peakUsage    uint32
	allocCount   uint32
	freeCount    uint32
	bitmapBytes  uint32
	blocksOffset uint32

	freeHead    uint64 // index of the free-list head, or noLink if empty
	initialized bool
}

// StateSize reports the number of bytes a state buffer passed to Init
// must be at least as large as. Pure; callable before Init.
func StateSize() uintptr {
	return ControlBlockSize
}

// Init plans a layout over poolBuf for blocks of at least blockSize
// bytes aligned to alignment, and returns a ready-to-use Pool (§4.2).
//
// stateBuf must be non-nil and at least StateSize() bytes; it is not
// otherwise inspected (see Pool's doc comment). poolBuf must be non-nil,
// aligned to alignment, and large enough to hold at least one block plus
// its bitmap bit. alignment must be a non-zero power of two. blockSize
// must be at least the size of the in-block free-list link.
func Init(stateBuf, poolBuf []byte, blockSize, alignment uint32) (*Pool, error) {
	if stateBuf == nil || poolBuf == nil {
		return nil, ErrNullPointer
	}
	if uintptr(len(stateBuf)) < StateSize() {
		return nil, ErrInvalidSize
	}

	lay, kind := planLayout(poolBuf, blockSize, alignment)
	if kind != OK {
		return nil, kind
	}

	p := &Pool{
		blockSize:    lay.blockSize,
		alignment:    alignment,
		totalBlocks:  lay.totalBlocks,
		bitmapBytes:  lay.bitmapBytes,
		blocksOffset: lay.blocksOffset,
	}

	p.bitmap = poolBuf[:p.bitmapBytes]
	for i := range p.bitmap {
		p.bitmap[i] = 0
	}

	blocksLen := uint64(p.totalBlocks) * uint64(p.blockSize)
	blocksEnd := uint64(p.blocksOffset) + blocksLen
	p.blocks = poolBuf[p.blocksOffset:blocksEnd]

	p.rebuildFreeList()
	p.freeBlocks = p.totalBlocks
	p.usedBlocks = 0
	p.peakUsage = 0
	p.allocCount = 0
	p.freeCount = 0
	p.initialized = true

	return p, nil
}

// Alloc pops the head of the free list, marks it allocated and returns
// it (§4.3). Returns ErrOutOfMemory, leaving all state unchanged, if no
// block is free.
func (p *Pool) Alloc() ([]byte, error) {
	if p == nil {
		return nil, ErrNullPointer
	}
	if !p.initialized {
		return nil, ErrNotInitialized
	}

	p.hook.enter()
	defer p.hook.leave()

	if p.freeBlocks == 0 || p.freeHead == noLink {
		return nil, ErrOutOfMemory
	}

	idx := uint32(p.freeHead)
	block := p.blockAt(idx)
	p.freeHead = binary.LittleEndian.Uint64(block[:linkSize])

	p.freeBlocks--
	p.allocCount++
	p.usedBlocks = p.totalBlocks - p.freeBlocks
	if p.usedBlocks > p.peakUsage {
		p.peakUsage = p.usedBlocks
	}
	p.setBit(idx)

	return block, nil
}

// Free validates block and, if it names a currently allocated block of
// this pool, returns it to the free list (§4.4). Pointer-range and
// alignment validation happen before the critical section; the
// already-free check (and thus double-free detection) happens inside
// it, guarded by the bitmap rather than a free-list scan.
func (p *Pool) Free(block []byte) error {
	if p == nil || block == nil {
		return ErrNullPointer
	}
	if !p.initialized {
		return ErrNotInitialized
	}

	idx, kind := p.blockIndexOf(block)
	if kind != OK {
		return kind
	}

	p.hook.enter()
	defer p.hook.leave()

	if !p.isSet(idx) {
		return ErrDoubleFree
	}

	binary.LittleEndian.PutUint64(p.blockAt(idx)[:linkSize], p.freeHead)
	p.freeHead = uint64(idx)

	if p.freeBlocks < p.totalBlocks {
		p.freeBlocks++
	}
	p.freeCount++
	p.usedBlocks = p.totalBlocks - p.freeBlocks
	p.clearBit(idx)

	return nil
}

// Reset zeros the bitmap, re-threads the free list through the existing
// blocks in the same canonical order as Init, and resets non-structural
// stats to zero (§4.5). total_blocks and block_size are unaffected. Any
// pointer handed out before Reset is treated as invalid: freeing it
// later finds a cleared bitmap bit and returns ErrDoubleFree rather than
// corrupting the pool.
func (p *Pool) Reset() error {
	if p == nil {
		return ErrNullPointer
	}
	if !p.initialized {
		return ErrNotInitialized
	}

	p.hook.enter()
	defer p.hook.leave()

	for i := range p.bitmap {
		p.bitmap[i] = 0
	}
	p.rebuildFreeList()

	p.freeBlocks = p.totalBlocks
	p.usedBlocks = 0
	p.allocCount = 0
	p.freeCount = 0
	p.peakUsage = 0

	return nil
}

// Stats returns a value-copy snapshot of the pool's counters (§4.7),
// taken under the critical section if one is installed.
func (p *Pool) Stats() (Stats, error) {
	if p == nil {
		return Stats{}, ErrNullPointer
	}
	if !p.initialized {
		return Stats{}, ErrNotInitialized
	}

	p.hook.enter()
	defer p.hook.leave()

	return Stats{
		TotalBlocks: p.totalBlocks,
		UsedBlocks:  p.usedBlocks,
		FreeBlocks:  p.freeBlocks,
		PeakUsage:   p.peakUsage,
		AllocCount:  p.allocCount,
		FreeCount:   p.freeCount,
		BlockSize:   p.blockSize,
	}, nil
}

// Contains reports whether block lies within this pool's blocks region
// (§4.6). It is a pure membership test: it does not check alignment and
// does not consult the bitmap, so it does not distinguish allocated from
// free. A nil block, nil pool or uninitialized pool all yield false.
func (p *Pool) Contains(block []byte) bool {
	if p == nil || !p.initialized || len(block) == 0 {
		return false
	}
	dataPtr := uintptr(unsafe.Pointer(&block[0]))
	blocksStart := uintptr(unsafe.Pointer(&p.blocks[0]))
	if dataPtr < blocksStart {
		return false
	}
	offset := uint64(dataPtr - blocksStart)
	total := uint64(p.totalBlocks) * uint64(p.blockSize)
	return offset < total
}

// rebuildFreeList threads every block into a LIFO in ascending index
// order, so the resulting head is the last block: the first N
// allocations after Init/Reset return blocks in strictly descending
// index order (§4.2).
func (p *Pool) rebuildFreeList() {
	head := noLink
	for i := uint32(0); i < p.totalBlocks; i++ {
		block := p.blockAt(i)
		binary.LittleEndian.PutUint64(block[:linkSize], head)
		head = uint64(i)
	}
	p.freeHead = head
}

// blockAt returns the byte range for block idx.
func (p *Pool) blockAt(idx uint32) []byte {
	start := uint64(idx) * uint64(p.blockSize)
	return p.blocks[start : start+uint64(p.blockSize)]
}

// blockIndexOf validates that block is in range and block-aligned
// within this pool's blocks region and returns its index (§4.4 (a)/(b)).
func (p *Pool) blockIndexOf(block []byte) (uint32, Kind) {
	if len(block) == 0 {
		return 0, ErrInvalidBlock
	}
	dataPtr := uintptr(unsafe.Pointer(&block[0]))
	blocksStart := uintptr(unsafe.Pointer(&p.blocks[0]))
	if dataPtr < blocksStart {
		return 0, ErrInvalidBlock
	}
	offset := dataPtr - blocksStart
	total := uint64(p.totalBlocks) * uint64(p.blockSize)
	if uint64(offset) >= total {
		return 0, ErrInvalidBlock
	}
	if offset%uintptr(p.blockSize) != 0 {
		return 0, ErrInvalidBlock
	}
	return uint32(offset / uintptr(p.blockSize)), OK
}

func (p *Pool) isSet(idx uint32) bool {
	return p.bitmap[idx>>3]&(1<<(idx&7)) != 0
}

func (p *Pool) setBit(idx uint32) {
	p.bitmap[idx>>3] |= 1 << (idx & 7)
}

func (p *Pool) clearBit(idx uint32) {
	p.bitmap[idx>>3] &^= 1 << (idx & 7)
}
