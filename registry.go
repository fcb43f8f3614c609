// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpq

import (
	"sync"

	"github.com/google/uuid"
)

// ownerRegistry maps an owner key to the handles of its outstanding
// tasks, enabling bulk cancellation scoped to the owner's lifetime
// (Client.CancelRequests). The owner is purely a grouping key: the
// registry compares it but never calls into it, and drops every
// reference to it as soon as its last handle is gone.
//
// Entries do not rely on garbage collection for cleanup. A handle is
// removed explicitly when its task reaches a terminal state (via the
// handle's terminal hook), and track additionally sweeps any terminal
// stragglers for the owner it touches, so an owner that keeps issuing
// requests cannot accumulate dead entries.
type ownerRegistry struct {
	mu     sync.Mutex
	owners map[any]map[uuid.UUID]*Handle
}

func newOwnerRegistry() *ownerRegistry {
	return &ownerRegistry{
		owners: make(map[any]map[uuid.UUID]*Handle),
	}
}

// track records h under owner. A nil owner is a no-op: such tasks are
// not bulk-cancellable and are tracked by no one.
func (r *ownerRegistry) track(owner any, h *Handle) {
	if owner == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	handles := r.owners[owner]
	if handles == nil {
		handles = make(map[uuid.UUID]*Handle)
		r.owners[owner] = handles
	} else {
		for id, h2 := range handles {
			if h2.State().Terminal() {
				delete(handles, id)
			}
		}
	}
	handles[h.id] = h
}

// remove drops one handle from owner's entry, deleting the entry when
// it empties. Unknown owners and handles are ignored.
func (r *ownerRegistry) remove(owner any, id uuid.UUID) {
	if owner == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	handles, ok := r.owners[owner]
	if !ok {
		return
	}
	delete(handles, id)
	if len(handles) == 0 {
		delete(r.owners, owner)
	}
}

// cancelAll cancels every handle tracked under owner and drops the
// owner's entry entirely, whether or not each cancellation took
// effect. Cancellation is fire-and-forget: cancelAll does not wait for
// running tasks to stop. An owner with no entries is a no-op.
func (r *ownerRegistry) cancelAll(owner any, interrupt bool) {
	if owner == nil {
		return
	}
	r.mu.Lock()
	handles := r.owners[owner]
	delete(r.owners, owner)
	r.mu.Unlock()

	// Outside the lock: cancellation triggers each task's terminal
	// hook, which calls back into remove.
	for _, h := range handles {
		h.Cancel(interrupt)
	}
}

// outstanding reports the number of handles currently tracked under
// owner.
func (r *ownerRegistry) outstanding(owner any) int {
	if owner == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.owners[owner])
}
