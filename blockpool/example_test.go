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

func Example() {
	state := make([]byte, StateSize())
	region := make([]byte, 4096)

	p, err := Init(state, region, 64, 8)
	if err != nil {
		panic(err)
	}

	b1, _ := p.Alloc()
	b2, _ := p.Alloc()

	fmt.Printf("b1: len=%d\n", len(b1))
	fmt.Printf("b2: len=%d\n", len(b2))

	_ = p.Free(b1)
	_ = p.Free(b2)

	stats, _ := p.Stats()
	fmt.Printf("after free: used=%d free=%d\n", stats.UsedBlocks, stats.FreeBlocks)

	// Output:
	// b1: len=64
	// b2: len=64
	// after free: used=0 free=63
}
