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
	"math"
	"unsafe"
)

// linkSize is the width, in bytes, of the free-list link stored in the
// first word of every free block. It doubles as the minimum legal
// block_size (§4.1: block_size must be >= the size of a native pointer
// and >= the free-list link size).
const linkSize = uint32(unsafe.Sizeof(uint64(0)))

// noLink is the free-list sentinel meaning "no next block".
const noLink = ^uint64(0)

// layout is the result of planning a pool region: how many blocks fit,
// how big the bitmap is, where the blocks start, and the rounded-up
// block size.
type layout struct {
	blockSize    uint32
	totalBlocks  uint32
	bitmapBytes  uint32
	blocksOffset uint32 // bitmapBytes + padding
}

// isPowerOfTwo reports whether v is a non-zero power of two.
func isPowerOfTwo(v uint32) bool {
	return v != 0 && v&(v-1) == 0
}

// alignUp rounds v up to the next multiple of alignment (a power of two).
func alignUp(v, alignment uint32) uint32 {
	return (v + alignment - 1) &^ (alignment - 1)
}

// padToAlignment returns the number of padding bytes needed to bring n up
// to a multiple of alignment.
func padToAlignment(n, alignment uint32) uint32 {
	return alignUp(n, alignment) - n
}

// planLayout implements §4.1's Layout Planner: from the pool region (its
// size and, for alignment validation, its backing array's address),
// requested block_size and alignment, computes N, the bitmap size and
// the blocks offset. The search over N is monotone (larger N always
// costs at least as much room) so a binary search finds the largest
// satisfying N in O(log N) steps, well within the O(N_max) bound §4.1
// allows.
func planLayout(poolRegion []byte, blockSize, alignment uint32) (layout, Kind) {
	if poolRegion == nil {
		return layout{}, ErrNullPointer
	}
	if len(poolRegion) == 0 {
		return layout{}, ErrInvalidSize
	}
	if !isPowerOfTwo(alignment) {
		return layout{}, ErrAlignment
	}
	if uintptr(unsafe.Pointer(&poolRegion[0]))%uintptr(alignment) != 0 {
		return layout{}, ErrAlignment
	}
	if blockSize == 0 || blockSize < linkSize {
		return layout{}, ErrInvalidSize
	}

	aligned := alignUp(blockSize, alignment)
	if aligned < linkSize {
		return layout{}, ErrInvalidSize
	}

	poolRegionSize := uint64(len(poolRegion))

	// Upper bound on N ignoring the bitmap entirely; the real answer is
	// never larger than this.
	hi := poolRegionSize / uint64(aligned)
	if hi == 0 {
		return layout{}, ErrInvalidSize
	}
	if hi > math.MaxUint32 {
		hi = math.MaxUint32
	}

	var best uint64
	lo := uint64(1)
	for lo <= hi {
		mid := lo + (hi-lo)/2
		bitmapBytes := (mid + 7) / 8
		pad := uint64(padToAlignment(uint32(bitmapBytes), alignment))
		need := bitmapBytes + pad + mid*uint64(aligned)
		if need <= poolRegionSize {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if best == 0 {
		return layout{}, ErrInvalidSize
	}
	if best > math.MaxUint32 {
		return layout{}, ErrInvalidSize
	}

	bitmapBytes := uint32((best + 7) / 8)
	pad := padToAlignment(bitmapBytes, alignment)

	return layout{
		blockSize:    aligned,
		totalBlocks:  uint32(best),
		bitmapBytes:  bitmapBytes,
		blocksOffset: bitmapBytes + pad,
	}, OK
}
