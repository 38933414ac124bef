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
	"github.com/bytedance/gopkg/lang/dirtmake"
	"github.com/bytedance/gopkg/lang/mcache"
)

// NewRegions allocates a state region and a pool region of the
// requested sizes from the Go heap, without zero-filling either one.
// This is a convenience for callers that don't already own static
// buffers; the core itself (Init, Alloc, Free, Reset) never calls this,
// and allocates nothing beyond the Pool value that Init returns.
//
// dirtmake.Bytes is used instead of make([]byte, n) because neither
// region needs to arrive pre-zeroed: Init clears the bitmap explicitly
// and block contents are defined entirely by the caller (§6), so a
// zero-fill here would only be overwritten or never observed.
func NewRegions(stateSize, poolSize int) (stateBuf, poolBuf []byte) {
	return dirtmake.Bytes(stateSize, stateSize), dirtmake.Bytes(poolSize, poolSize)
}

// NewRegionsFromCache borrows a state region and a pool region from the
// shared size-classed byte cache instead of the Go heap directly,
// mirroring the mcache.Malloc/mcache.Free pairing used throughout
// gridbuf and xbuf. Pair with ReleaseRegions once the Pool built from
// these regions is no longer needed.
func NewRegionsFromCache(stateSize, poolSize int) (stateBuf, poolBuf []byte) {
	return mcache.Malloc(stateSize), mcache.Malloc(poolSize)
}

// ReleaseRegions returns buffers obtained from NewRegionsFromCache to
// the shared cache. Do not call this on regions obtained from
// NewRegions or from the caller's own static storage.
func ReleaseRegions(stateBuf, poolBuf []byte) {
	mcache.Free(stateBuf)
	mcache.Free(poolBuf)
}
