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

// Package blockpool implements a deterministic, fixed-size block memory
// pool for embedded and safety-relevant systems that forbid dynamic
// allocation after setup.
//
// The caller supplies two byte regions up front (a state region sized by
// StateSize, and a pool region sized to hold a bitmap plus N fixed-size
// blocks). The bitmap and free list live inside the pool region. The
// state region is only checked against StateSize: the Pool's own fields
// are not stored in it but in the Pool value, which Init allocates on the
// Go heap. Alloc and Free are O(1), Reset is O(N), and none of them
// allocates.
//
// Concurrency is external: a Pool has no internal lock. Callers that
// share a Pool across goroutines must install a lock/unlock pair with
// SetSync before the Pool is observed by more than one goroutine.
package blockpool
