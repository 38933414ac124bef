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
	"sync"
	"testing"
)

func BenchmarkAllocFree(b *testing.B) {
	state := make([]byte, StateSize())
	region := make([]byte, 16*1024*1024)
	p, err := Init(state, region, 64, 8)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		block, err := p.Alloc()
		if err == nil {
			_ = p.Free(block)
		}
	}
}

func BenchmarkAllocExhaustAndReset(b *testing.B) {
	state := make([]byte, StateSize())
	region := make([]byte, 1024*1024)
	p, err := Init(state, region, 256, 16)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for {
			if _, err := p.Alloc(); err != nil {
				break
			}
		}
		_ = p.Reset()
	}
}

func BenchmarkAllocFreeParallel(b *testing.B) {
	state := make([]byte, StateSize())
	region := make([]byte, 16*1024*1024)
	p, err := Init(state, region, 64, 8)
	if err != nil {
		b.Fatal(err)
	}
	var mu sync.Mutex
	if err := p.SetSync(mutexLock, mutexUnlock, &mu); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			block, err := p.Alloc()
			if err == nil {
				_ = p.Free(block)
			}
		}
	})
}
