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

import "fmt"

// Walk calls fn once per block in ascending index order, reporting
// whether each block is currently allocated. It is a read-only
// diagnostic: it does not take the critical-section hook and must not
// be used concurrently with a mutating operation on the same Pool
// unless the caller holds its own lock around both. Grounded on
// unsafex/malloc/bitmap.go's bit-scanning helpers (findFreeBit,
// findFreeRun), repurposed here for full enumeration instead of
// first-fit search.
func (p *Pool) Walk(fn func(blockIndex uint32, allocated bool)) error {
	if p == nil {
		return ErrNullPointer
	}
	if !p.initialized {
		return ErrNotInitialized
	}
	for i := uint32(0); i < p.totalBlocks; i++ {
		fn(i, p.isSet(i))
	}
	return nil
}

// Describe renders a one-line human-readable summary of the pool's
// current state, in the spirit of unsafex/malloc.BuddyAllocator's
// Available() diagnostic.
func (p *Pool) Describe() string {
	if p == nil {
		return "blockpool.Pool(nil)"
	}
	if !p.initialized {
		return "blockpool.Pool{uninitialized}"
	}
	return fmt.Sprintf("blockpool.Pool{%s}", p.mustStats())
}

// mustStats reads the counters directly, bypassing the critical section,
// for use from Describe where taking a caller-installed lock would be
// surprising inside a String()-like helper.
func (p *Pool) mustStats() Stats {
	return Stats{
		TotalBlocks: p.totalBlocks,
		UsedBlocks:  p.usedBlocks,
		FreeBlocks:  p.freeBlocks,
		PeakUsage:   p.peakUsage,
		AllocCount:  p.allocCount,
		FreeCount:   p.freeCount,
		BlockSize:   p.blockSize,
	}
}
