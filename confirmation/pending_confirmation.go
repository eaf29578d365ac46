package confirmation

import (
	"sync"

	"github.com/deckarep/golang-set"

	"github.com/latticenet/go-lattice/common/types"
)

// PendingConfirmation holds the hashes queued for confirmation height
// processing plus the single hash the worker is currently on. Other
// subsystems probe it concurrently through IsProcessing and Current.
//
// The set itself is the thread-unsafe variant: every touch goes through
// mu, which the worker also uses to couple "pop" and "set current" into
// one step.
type PendingConfirmation struct {
	mu          sync.Mutex
	pending     mapset.Set
	currentHash types.Hash
}

func NewPendingConfirmation() *PendingConfirmation {
	return &PendingConfirmation{
		pending: mapset.NewThreadUnsafeSet(),
	}
}

// Add queues a hash. Duplicate adds coalesce. Returns whether the hash
// was newly inserted.
func (p *PendingConfirmation) Add(hash types.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending.Add(hash)
}

func (p *PendingConfirmation) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending.Cardinality()
}

// IsProcessing reports whether the hash is being worked on right now or
// still waiting in the queue.
func (p *PendingConfirmation) IsProcessing(hash types.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.currentHash.IsZero() && p.currentHash == hash {
		return true
	}
	return p.pending.Contains(hash)
}

// Current snapshots the hash under processing, zero when the worker is
// idle.
func (p *PendingConfirmation) Current() types.Hash {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentHash
}

// popForProcessing removes some queued hash and marks it current in one
// critical section, so IsProcessing never observes a gap between the
// two. Returns false when the queue is empty.
func (p *PendingConfirmation) popForProcessing() (types.Hash, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	popped := p.pending.Pop()
	if popped == nil {
		return types.Hash{}, false
	}
	p.currentHash = popped.(types.Hash)
	return p.currentHash, true
}

// clearCurrent marks the worker idle again.
func (p *PendingConfirmation) clearCurrent() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentHash = types.Hash{}
}
