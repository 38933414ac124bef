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

// LockFunc acquires the caller-supplied critical section. ctx is the
// opaque value passed to SetSync, handed back unchanged.
type LockFunc func(ctx interface{})

// UnlockFunc releases the critical section acquired by the matching
// LockFunc call.
type UnlockFunc func(ctx interface{})

// syncHook holds the optional (lock, unlock, ctx) triple installed by
// SetSync. The zero value has both callbacks nil, meaning "no
// synchronization installed" (§4.8).
type syncHook struct {
	lock   LockFunc
	unlock UnlockFunc
	ctx    interface{}
}

// active reports whether both callbacks are present.
func (h syncHook) active() bool {
	return h.lock != nil && h.unlock != nil
}

// enter acquires the critical section if one is installed. Every
// mutating operation calls enter/leave around its state-mutating region,
// on every path including early returns (§5), by pairing enter with a
// deferred leave right after its argument and pointer checks.
func (h syncHook) enter() {
	if h.active() {
		h.lock(h.ctx)
	}
}

func (h syncHook) leave() {
	if h.active() {
		h.unlock(h.ctx)
	}
}

// SetSync installs or clears the pool's critical-section hook (§4.8).
// If either callback is nil, synchronization is disabled and any
// previously installed pair is cleared. Must be called after Init and
// before the Pool is shared with any concurrent actor; reinstalling
// while concurrent access is already in progress is undefined by
// contract.
func (p *Pool) SetSync(lock LockFunc, unlock UnlockFunc, ctx interface{}) error {
	if p == nil {
		return ErrNullPointer
	}
	if !p.initialized {
		return ErrNotInitialized
	}
	if lock == nil || unlock == nil {
		p.hook = syncHook{}
		return nil
	}
	p.hook = syncHook{lock: lock, unlock: unlock, ctx: ctx}
	return nil
}
