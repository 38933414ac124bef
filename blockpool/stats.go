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

// Stats is a point-in-time snapshot of a Pool's counters and gauges.
// It is always a value copy; a Pool never hands out a pointer to its
// live counters.
type Stats struct {
	TotalBlocks uint32
	UsedBlocks  uint32
	FreeBlocks  uint32
	PeakUsage   uint32
	AllocCount  uint32
	FreeCount   uint32
	BlockSize   uint32
}

// String renders a one-line human-readable summary, useful in logs and
// test failure messages.
func (s Stats) String() string {
	return fmt.Sprintf(
		"blockpool.Stats{total=%d used=%d free=%d peak=%d allocs=%d frees=%d blockSize=%d}",
		s.TotalBlocks, s.UsedBlocks, s.FreeBlocks, s.PeakUsage, s.AllocCount, s.FreeCount, s.BlockSize,
	)
}
